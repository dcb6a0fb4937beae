package assistant

import (
	"context"
	"errors"
	"io"
	"strings"

	"myassist/internal/intent"
)

// Run drives the session loop until the Exit intent or a top-level
// cancellation. Every iteration polls the reminder scheduler before the next
// blocking acquisition, so reminder latency is bounded by the acquisition
// timeout. Acquisition, routing and dispatch all happen on this goroutine.
func (s *Session) Run(ctx context.Context) error {
	s.say(greetingText)
	for {
		s.fireDueReminders()

		if ctx.Err() != nil {
			s.say(shutdownText)
			return nil
		}

		var keepGoing bool
		if s.state == TextWaiting {
			keepGoing = s.textCycle(ctx)
		} else {
			keepGoing = s.voiceCycle(ctx)
		}
		if !keepGoing {
			return nil
		}
	}
}

// textCycle blocks on one typed line. Ctrl-C demotes to voice mode; EOF and
// cancellation terminate. Reports whether the loop should continue.
func (s *Session) textCycle(ctx context.Context) bool {
	line, err := s.text.ReadCommand(ctx)
	switch {
	case errors.Is(err, ErrInterrupted):
		s.state = VoiceWaiting
		s.say(backToVoiceText)
		return true
	case errors.Is(err, io.EOF), errors.Is(err, context.Canceled):
		s.say(shutdownText)
		return false
	case err != nil:
		s.log.Error("text acquisition failed", "err", err)
		return true
	}

	cmd := intent.Normalize(line, s.cfg.WakePhrases)
	if cmd == "" {
		return true
	}
	if cmd == "switch mode" {
		s.state = VoiceWaiting
		s.say(toVoiceText)
		return true
	}
	return s.dispatch(ctx, cmd)
}

// voiceCycle blocks until a wake phrase is heard, then dispatches either the
// command text captured alongside the wake phrase or one follow-up capture.
func (s *Session) voiceCycle(ctx context.Context) bool {
	heard, err := s.voice.ListenForWakePhrase(ctx)
	if err != nil {
		if ctx.Err() != nil {
			s.say(shutdownText)
			return false
		}
		s.log.Warn("wake phrase acquisition failed", "err", err)
		return true
	}

	s.state = VoiceListening
	defer func() {
		if s.state == VoiceListening {
			s.state = VoiceWaiting
		}
	}()

	if s.chime != nil {
		if err := s.chime.Chime(); err != nil {
			s.log.Debug("chime failed", "err", err)
		}
	}

	cmd := intent.Normalize(heard, s.cfg.WakePhrases)
	if strings.Contains(cmd, "switch mode") {
		s.state = TextWaiting
		s.say(toTextText)
		return true
	}

	if cmd == "" {
		raw, err := s.voice.ListenForCommand(ctx)
		if err != nil {
			if ctx.Err() != nil {
				s.say(shutdownText)
				return false
			}
			s.log.Warn("command acquisition failed", "err", err)
			return true
		}
		if raw == "" {
			s.say("Sorry, I didn't catch that.")
			return true
		}
		cmd = intent.Normalize(raw, s.cfg.WakePhrases)
		if cmd == "" {
			return true
		}
	}

	return s.dispatch(ctx, cmd)
}

func (s *Session) fireDueReminders() {
	for _, r := range s.reminders.PollDue(s.now()) {
		s.say("Reminder: " + r.Text)
	}
}

func (s *Session) say(text string) {
	s.log.Info("assistant", "say", text)
	if err := s.out.Speak(text); err != nil {
		s.log.Error("speech output failed", "err", err)
	}
}
