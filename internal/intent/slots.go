package intent

import (
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Extraction failures. Dispatch maps these to rephrase prompts; they never
// abort the session loop.
var (
	ErrNoTitle      = errors.New("no song title in utterance")
	ErrNoTimeClause = errors.New("no time keyword in utterance")
	ErrNoDuration   = errors.New("no duration amount in utterance")
)

var (
	musicTitled = regexp.MustCompile(`^play\s+(?:the song|song|track)\s+(.+)$`)
	musicArtist = regexp.MustCompile(`^play\s+(.+?)\s+(?:by|from)\s+(.+)$`)
	musicBare   = regexp.MustCompile(`^play\s+(.+)$`)
)

// MusicSlots pulls a song title and optional artist out of a "play ..."
// utterance. Patterns are tried in order of specificity; the first hit wins.
// The last resort is everything after the literal word "play".
func MusicSlots(cmd string) (Slots, error) {
	if m := musicTitled.FindStringSubmatch(cmd); m != nil {
		return Slots{"title": strings.TrimSpace(m[1])}, nil
	}
	if m := musicArtist.FindStringSubmatch(cmd); m != nil {
		return Slots{"title": strings.TrimSpace(m[1]), "artist": strings.TrimSpace(m[2])}, nil
	}
	if m := musicBare.FindStringSubmatch(cmd); m != nil {
		return Slots{"title": strings.TrimSpace(m[1])}, nil
	}
	title := strings.TrimSpace(strings.TrimPrefix(cmd, "play"))
	if title == "" {
		return nil, ErrNoTitle
	}
	return Slots{"title": title}, nil
}

// locationAfter extracts the trailing location of "<keyword> in <rest>".
func locationAfter(keyword, cmd string) (string, bool) {
	re := regexp.MustCompile(keyword + `\s+in\s+(.+)`)
	if m := re.FindStringSubmatch(cmd); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	return "", false
}

var searchNoise = regexp.MustCompile(`\b(look up|search|google|for)\b`)

// SearchQuery strips the trigger words from a web-search utterance.
func SearchQuery(cmd string) string {
	return collapseSpaces(searchNoise.ReplaceAllString(cmd, ""))
}

var (
	mapsPlace = regexp.MustCompile(`open\s+maps\s+(?:for|to|of)\s+(.+)`)
	openSite  = regexp.MustCompile(`open\s+(?:the\s+)?(?:website\s+)?(.+?)(?:\s+website)?$`)
)

// OpenSlots resolves an "open ..." utterance into a spoken name and a target
// URL. Known sites come first; anything else is treated as a bare site name.
// Returns nil when the utterance names nothing to open.
func OpenSlots(cmd string) Slots {
	switch {
	case strings.Contains(cmd, "youtube"):
		return Slots{"name": "YouTube", "url": "https://www.youtube.com"}
	case strings.Contains(cmd, "google") && !strings.Contains(cmd, "maps"):
		return Slots{"name": "Google", "url": "https://www.google.com"}
	case strings.Contains(cmd, "amazon"):
		return Slots{"name": "Amazon", "url": "https://www.amazon.com"}
	case strings.Contains(cmd, "netflix"):
		return Slots{"name": "Netflix", "url": "https://www.netflix.com"}
	case strings.Contains(cmd, "maps"):
		if m := mapsPlace.FindStringSubmatch(cmd); m != nil {
			place := strings.TrimSpace(m[1])
			return Slots{
				"name": "maps for " + place,
				"url":  "https://www.google.com/maps/search/" + url.QueryEscape(place),
			}
		}
		return Slots{"name": "Google Maps", "url": "https://www.google.com/maps"}
	}
	if m := openSite.FindStringSubmatch(cmd); m != nil {
		site := strings.TrimSpace(m[1])
		if site != "" {
			return Slots{"name": site, "url": "https://www." + site + ".com"}
		}
	}
	return nil
}

// VolumeDirection classifies a volume utterance as "up", "down" or "mute".
// Empty string means the utterance named no direction.
func VolumeDirection(cmd string) string {
	switch {
	case containsAny("up", "increase", "louder", "raise")(cmd):
		return "up"
	case containsAny("down", "decrease", "lower")(cmd):
		return "down"
	case strings.Contains(cmd, "mute"):
		return "mute"
	}
	return ""
}

var (
	timeKeyword  = regexp.MustCompile(`\b(in|after|at)\b`)
	firstInteger = regexp.MustCompile(`\d+`)
)

// ReminderSlots splits a reminder utterance at the first standalone time
// keyword (in/after/at) into the reminder text and a time clause, then reads
// the first integer plus its unit out of the clause. The duration slot is in
// minutes and may be fractional ("30 seconds" -> "0.5").
func ReminderSlots(cmd string) (Slots, error) {
	loc := timeKeyword.FindStringIndex(cmd)
	if loc == nil {
		return nil, ErrNoTimeClause
	}

	text := cmd[:loc[0]]
	clause := cmd[loc[0]:]
	for _, trigger := range []string{"remind me to", "set a reminder to", "remind me", "set a reminder"} {
		text = strings.Replace(text, trigger, "", 1)
	}
	text = strings.TrimSpace(text)

	amount := firstInteger.FindString(clause)
	if amount == "" {
		return nil, ErrNoDuration
	}
	n, err := strconv.Atoi(amount)
	if err != nil {
		return nil, ErrNoDuration
	}

	var minutes float64
	switch {
	case strings.Contains(clause, "minute"):
		minutes = float64(n)
	case strings.Contains(clause, "hour"):
		minutes = float64(n) * 60
	case strings.Contains(clause, "second"):
		minutes = float64(n) / 60
	default:
		return nil, ErrNoDuration
	}
	if minutes == 0 {
		return nil, ErrNoDuration
	}

	return Slots{
		"text":    text,
		"minutes": strconv.FormatFloat(minutes, 'f', -1, 64),
	}, nil
}

// LookupQuery strips the question prefix from an information query.
func LookupQuery(cmd string) string {
	q := cmd
	for _, term := range []string{"who is", "what is", "tell me about", "wikipedia"} {
		q = strings.ReplaceAll(q, term, "")
	}
	return collapseSpaces(q)
}

var spaces = regexp.MustCompile(`\s+`)

func collapseSpaces(s string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}
