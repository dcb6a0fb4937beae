package assistant

// historySize bounds the command history ring.
const historySize = 10

// History is a bounded ring of the most recent normalized utterances,
// insertion order preserved, oldest evicted on overflow. Mutated only from
// the session goroutine.
type History struct {
	entries []string
}

func NewHistory() *History {
	return &History{entries: make([]string, 0, historySize)}
}

func (h *History) Add(cmd string) {
	h.entries = append(h.entries, cmd)
	if len(h.entries) > historySize {
		h.entries = h.entries[1:]
	}
}

// Entries returns a copy of the history, oldest first.
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *History) Len() int { return len(h.entries) }

// Previous returns the entry before the most recent one. The most recent
// entry is the in-flight command itself, so this is what "repeat my last
// command" should report.
func (h *History) Previous() (string, bool) {
	if len(h.entries) < 2 {
		return "", false
	}
	return h.entries[len(h.entries)-2], true
}
