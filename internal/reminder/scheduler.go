// Package reminder keeps the set of pending time-deferred reminders. The
// scheduler is owned and polled by the single session goroutine; there is no
// locking by design.
package reminder

import (
	"errors"
	"time"
)

// ErrBadDuration is returned by Schedule for zero or negative durations.
// Unparsable durations are rejected upstream by slot extraction, so this is
// the only validation here.
var ErrBadDuration = errors.New("reminder duration must be positive")

// Reminder is one pending announcement. Fired flips exactly once, when
// PollDue hands the reminder out and drops it from the pending set.
type Reminder struct {
	Text      string
	DueAt     time.Time
	CreatedAt time.Time
	Fired     bool
}

type Scheduler struct {
	now     func() time.Time
	pending []Reminder
}

func NewScheduler(now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{now: now}
}

// Schedule appends an unfired reminder due minutes from now. Minutes may be
// fractional ("30 seconds" arrives as 0.5).
func (s *Scheduler) Schedule(text string, minutes float64) (Reminder, error) {
	if minutes <= 0 {
		return Reminder{}, ErrBadDuration
	}
	created := s.now()
	r := Reminder{
		Text:      text,
		DueAt:     created.Add(time.Duration(minutes * float64(time.Minute))),
		CreatedAt: created,
	}
	s.pending = append(s.pending, r)
	return r, nil
}

// PollDue returns every reminder with DueAt <= now, in the order they were
// created, and removes them. A reminder is reported exactly once; later polls
// never see it again. Linear scan, reminder counts are small.
func (s *Scheduler) PollDue(now time.Time) []Reminder {
	var due []Reminder
	kept := s.pending[:0]
	for _, r := range s.pending {
		if !r.DueAt.After(now) {
			r.Fired = true
			due = append(due, r)
		} else {
			kept = append(kept, r)
		}
	}
	s.pending = kept
	return due
}

// Pending reports how many reminders are waiting to fire.
func (s *Scheduler) Pending() int { return len(s.pending) }
