// Package assistant owns the session loop: it acquires utterances from the
// active input mode, routes them through the intent table, dispatches to the
// action collaborators, and polls the reminder scheduler every cycle. All
// session state (mode, history, reminders) is mutated from this one loop.
package assistant

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"myassist/internal/intent"
	"myassist/internal/reminder"
)

// ErrInterrupted is returned by a TextInput when the user pressed Ctrl-C at
// the prompt. The session demotes to voice mode instead of terminating.
var ErrInterrupted = errors.New("input interrupted")

// State is the session controller's position in its input cycle.
// VoiceListening is transient: it only exists between wake-phrase detection
// and dispatch.
type State int

const (
	VoiceWaiting State = iota
	VoiceListening
	TextWaiting
)

func (s State) String() string {
	switch s {
	case VoiceWaiting:
		return "voice-waiting"
	case VoiceListening:
		return "voice-listening"
	case TextWaiting:
		return "text-waiting"
	}
	return "unknown"
}

// VoiceInput acquires utterances from the microphone. Both calls block with a
// bounded per-attempt timeout; ListenForCommand returns an empty string when
// nothing intelligible was captured.
type VoiceInput interface {
	ListenForWakePhrase(ctx context.Context) (string, error)
	ListenForCommand(ctx context.Context) (string, error)
}

// TextInput acquires one line of typed input.
type TextInput interface {
	ReadCommand(ctx context.Context) (string, error)
}

// Speaker voices every user-visible response, synchronously.
type Speaker interface {
	Speak(text string) error
}

// Chime plays the short cue after wake-phrase detection.
type Chime interface {
	Chime() error
}

type WeatherService interface {
	Weather(ctx context.Context, city string) (string, error)
}

type NewsService interface {
	Headlines(ctx context.Context, n int) ([]string, error)
}

type LookupService interface {
	Summary(ctx context.Context, topic string) (string, error)
}

// Launcher opens a URL or URI in the user's browser.
type Launcher interface {
	OpenURL(target string) error
}

// VolumeControl adjusts the OS master volume: "up", "down" or "mute".
type VolumeControl interface {
	Volume(direction string) error
}

type Config struct {
	// StartInTextMode selects the initial input state.
	StartInTextMode bool
	// DefaultCity is the weather fallback when no location slot is present.
	DefaultCity string
	// MusicService is "youtube" or "spotify".
	MusicService string
	// WakePhrases in priority order; see intent.DefaultWakePhrases.
	WakePhrases []string
}

// Deps are the external collaborators the session dispatches to. Voice, Text
// and Out are required; the rest may be nil, in which case the matching
// intents answer with their fixed apology.
type Deps struct {
	Voice   VoiceInput
	Text    TextInput
	Out     Speaker
	Chime   Chime
	Weather WeatherService
	News    NewsService
	Lookup  LookupService
	Launch  Launcher
	Volume  VolumeControl
	Now     func() time.Time
	Log     *slog.Logger
}

type Session struct {
	cfg   Config
	state State

	history   *History
	reminders *reminder.Scheduler

	voice   VoiceInput
	text    TextInput
	out     Speaker
	chime   Chime
	weather WeatherService
	news    NewsService
	lookup  LookupService
	launch  Launcher
	volume  VolumeControl

	now func() time.Time
	log *slog.Logger
}

func New(cfg Config, deps Deps) *Session {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	if len(cfg.WakePhrases) == 0 {
		cfg.WakePhrases = append([]string(nil), intent.DefaultWakePhrases...)
	}
	state := VoiceWaiting
	if cfg.StartInTextMode {
		state = TextWaiting
	}
	return &Session{
		cfg:       cfg,
		state:     state,
		history:   NewHistory(),
		reminders: reminder.NewScheduler(deps.Now),
		voice:     deps.Voice,
		text:      deps.Text,
		out:       deps.Out,
		chime:     deps.Chime,
		weather:   deps.Weather,
		news:      deps.News,
		lookup:    deps.Lookup,
		launch:    deps.Launch,
		volume:    deps.Volume,
		now:       deps.Now,
		log:       deps.Log,
	}
}

// State reports the controller's current input state.
func (s *Session) State() State { return s.state }

// History exposes the command ring, for the repeat handler and tests.
func (s *Session) History() *History { return s.history }

// Reminders exposes the scheduler, for tests.
func (s *Session) Reminders() *reminder.Scheduler { return s.reminders }
