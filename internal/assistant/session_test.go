package assistant

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myassist/internal/webapi"
)

// textStep is one scripted ReadCommand result. An optional hook runs before
// the result is returned, e.g. to advance the session clock mid-run.
type textStep struct {
	line   string
	err    error
	before func()
}

type scriptedText struct {
	steps []textStep
	i     int
}

func (s *scriptedText) ReadCommand(ctx context.Context) (string, error) {
	if s.i >= len(s.steps) {
		return "", io.EOF
	}
	st := s.steps[s.i]
	s.i++
	if st.before != nil {
		st.before()
	}
	return st.line, st.err
}

func lines(cmds ...string) *scriptedText {
	s := &scriptedText{}
	for _, c := range cmds {
		s.steps = append(s.steps, textStep{line: c})
	}
	return s
}

type scriptedVoice struct {
	t     *testing.T
	wakes []string
	cmds  []string
	wi    int
	ci    int
}

func (v *scriptedVoice) ListenForWakePhrase(ctx context.Context) (string, error) {
	if v.wi >= len(v.wakes) {
		v.t.Fatal("wake phrase script exhausted; session did not terminate")
	}
	heard := v.wakes[v.wi]
	v.wi++
	return heard, nil
}

func (v *scriptedVoice) ListenForCommand(ctx context.Context) (string, error) {
	if v.ci >= len(v.cmds) {
		v.t.Fatal("command script exhausted")
	}
	heard := v.cmds[v.ci]
	v.ci++
	return heard, nil
}

type spySpeaker struct {
	said []string
}

func (s *spySpeaker) Speak(text string) error {
	s.said = append(s.said, text)
	return nil
}

type spyLauncher struct {
	opened []string
}

func (l *spyLauncher) OpenURL(target string) error {
	l.opened = append(l.opened, target)
	return nil
}

type stubWeather struct {
	city   string
	report string
	err    error
}

func (w *stubWeather) Weather(ctx context.Context, city string) (string, error) {
	w.city = city
	return w.report, w.err
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

var sessionStart = time.Date(2025, 6, 1, 15, 4, 0, 0, time.UTC)

func discardLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTextSession(t *testing.T, text TextInput, extra func(*Config, *Deps)) (*Session, *spySpeaker, *spyLauncher) {
	t.Helper()
	out := &spySpeaker{}
	launch := &spyLauncher{}
	clock := &fakeClock{t: sessionStart}
	cfg := Config{StartInTextMode: true, DefaultCity: "london", MusicService: "youtube"}
	deps := Deps{
		Voice:  &scriptedVoice{t: t},
		Text:   text,
		Out:    out,
		Launch: launch,
		Now:    clock.Now,
		Log:    discardLog(),
	}
	if extra != nil {
		extra(&cfg, &deps)
	}
	return New(cfg, deps), out, launch
}

func TestRunGreetsThenExitsOnFarewell(t *testing.T) {
	sess, out, _ := newTextSession(t, lines("alexa stop"), nil)
	require.NoError(t, sess.Run(context.Background()))

	require.NotEmpty(t, out.said)
	assert.Equal(t, greetingText, out.said[0])

	n := 0
	for _, s := range out.said {
		if s == farewellText {
			n++
		}
	}
	assert.Equal(t, 1, n, "farewell spoken exactly once")
	assert.NotContains(t, out.said, shutdownText)
}

func TestTextSwitchModeIsControlInputNotACommand(t *testing.T) {
	voice := &scriptedVoice{t: t, wakes: []string{"alexa stop"}}
	sess, out, launch := newTextSession(t, lines("switch mode"), func(cfg *Config, deps *Deps) {
		deps.Voice = voice
	})
	require.NoError(t, sess.Run(context.Background()))

	assert.Contains(t, out.said, toVoiceText)
	assert.Empty(t, launch.opened, "mode switch must have no dispatch side effect")
	// only the exit command reaches history; "switch mode" is not recorded
	assert.Equal(t, []string{"stop"}, sess.History().Entries())
}

func TestTextInterruptDemotesToVoice(t *testing.T) {
	voice := &scriptedVoice{t: t, wakes: []string{"alexa stop"}}
	text := &scriptedText{steps: []textStep{{err: ErrInterrupted}}}
	sess, out, _ := newTextSession(t, text, func(cfg *Config, deps *Deps) {
		deps.Voice = voice
	})
	require.NoError(t, sess.Run(context.Background()))

	assert.Contains(t, out.said, backToVoiceText)
	assert.Contains(t, out.said, farewellText)
}

func TestTextEOFShutsDown(t *testing.T) {
	sess, out, _ := newTextSession(t, lines(), nil)
	require.NoError(t, sess.Run(context.Background()))

	assert.Equal(t, []string{greetingText, shutdownText}, out.said)
}

func TestReminderAnnouncedExactlyOnce(t *testing.T) {
	clock := &fakeClock{t: sessionStart}
	text := &scriptedText{steps: []textStep{
		{line: "remind me to call mom in 2 hours"},
		// advance past the deadline before the next line is served; the
		// reminder fires at the top of the following iteration
		{line: "thanks", before: func() { clock.Advance(121 * time.Minute) }},
		{line: "what time is it"},
		{line: "goodbye"},
	}}
	sess, out, _ := newTextSession(t, text, func(cfg *Config, deps *Deps) {
		deps.Now = clock.Now
	})
	require.NoError(t, sess.Run(context.Background()))

	assert.Contains(t, out.said, "I'll remind you to call mom in 2 hours.")

	n := 0
	for _, s := range out.said {
		if s == "Reminder: call mom" {
			n++
		}
	}
	assert.Equal(t, 1, n, "reminder fires exactly once")
	assert.Equal(t, 0, sess.Reminders().Pending())
}

func TestReminderWithoutTimeClause(t *testing.T) {
	sess, out, _ := newTextSession(t, lines("remind me to stretch", "goodbye"), nil)
	require.NoError(t, sess.Run(context.Background()))

	assert.Contains(t, out.said, "I couldn't understand when to set the reminder. Please try again.")
	assert.Equal(t, 0, sess.Reminders().Pending())
}

func TestTellTime(t *testing.T) {
	sess, out, _ := newTextSession(t, lines("what time is it", "goodbye"), nil)
	require.NoError(t, sess.Run(context.Background()))

	assert.Contains(t, out.said, "The time is 03:04 PM")
}

func TestTellDate(t *testing.T) {
	sess, out, _ := newTextSession(t, lines("what's the date today", "goodbye"), nil)
	require.NoError(t, sess.Run(context.Background()))

	assert.Contains(t, out.said, "Today is Sunday, June 01, 2025")
}

func TestRepeatLastReportsPrecedingCommand(t *testing.T) {
	sess, out, _ := newTextSession(t, lines("what time is it", "what was my last command", "goodbye"), nil)
	require.NoError(t, sess.Run(context.Background()))

	assert.Contains(t, out.said, "Your last command was: what time is it")
}

func TestRepeatLastWithEmptyHistory(t *testing.T) {
	sess, out, _ := newTextSession(t, lines("repeat that", "goodbye"), nil)
	require.NoError(t, sess.Run(context.Background()))

	assert.Contains(t, out.said, "You haven't given any commands yet.")
}

func TestCalculateAnswerFollowsAcknowledgement(t *testing.T) {
	sess, out, _ := newTextSession(t, lines("calculate square root of 16", "goodbye"), nil)
	require.NoError(t, sess.Run(context.Background()))

	idx := -1
	for i, s := range out.said {
		if s == "The answer is 4" {
			idx = i
		}
	}
	require.GreaterOrEqual(t, idx, 1, "answer spoken")
	assert.Contains(t, acknowledgements, out.said[idx-1])
}

func TestUnknownCommandFallsBackToWebSearch(t *testing.T) {
	sess, out, launch := newTextSession(t, lines("flibbertigibbet widgets", "goodbye"), nil)
	require.NoError(t, sess.Run(context.Background()))

	assert.Contains(t, out.said, "I'm searching for information about that")
	assert.Equal(t, []string{"https://www.google.com/search?q=flibbertigibbet+widgets"}, launch.opened)
}

func TestPlayMusicOpensMusicService(t *testing.T) {
	sess, out, launch := newTextSession(t, lines("play shape of you by ed sheeran", "goodbye"), nil)
	require.NoError(t, sess.Run(context.Background()))

	require.Len(t, launch.opened, 1)
	assert.Equal(t, "https://music.youtube.com/search?q=shape+of+you+ed+sheeran", launch.opened[0])
	assert.Contains(t, out.said, "Playing shape of you by ed sheeran")
}

func TestWeatherUsesDefaultCityWhenNoLocation(t *testing.T) {
	weather := &stubWeather{report: "In london, it's 18.0°C (64.4°F) with light rain."}
	sess, out, _ := newTextSession(t, lines("what's the weather", "goodbye"), func(cfg *Config, deps *Deps) {
		deps.Weather = weather
	})
	require.NoError(t, sess.Run(context.Background()))

	assert.Equal(t, "london", weather.city)
	assert.Contains(t, out.said, weather.report)
}

func TestWeatherCityFromUtterance(t *testing.T) {
	weather := &stubWeather{report: "In paris, it's 21.0°C (69.8°F) with clear sky."}
	sess, _, _ := newTextSession(t, lines("what's the weather in paris", "goodbye"), func(cfg *Config, deps *Deps) {
		deps.Weather = weather
	})
	require.NoError(t, sess.Run(context.Background()))

	assert.Equal(t, "paris", weather.city)
}

func TestWeatherMissingKeyApology(t *testing.T) {
	weather := &stubWeather{err: webapi.ErrNoAPIKey}
	sess, out, _ := newTextSession(t, lines("what's the weather", "goodbye"), func(cfg *Config, deps *Deps) {
		deps.Weather = weather
	})
	require.NoError(t, sess.Run(context.Background()))

	assert.Contains(t, out.said, "Sorry, I need an API key to check the weather.")
}

func newVoiceSession(t *testing.T, voice *scriptedVoice, text TextInput) (*Session, *spySpeaker) {
	t.Helper()
	out := &spySpeaker{}
	clock := &fakeClock{t: sessionStart}
	if text == nil {
		text = lines()
	}
	sess := New(Config{DefaultCity: "london"}, Deps{
		Voice:  voice,
		Text:   text,
		Out:    out,
		Launch: &spyLauncher{},
		Now:    clock.Now,
		Log:    discardLog(),
	})
	return sess, out
}

func TestVoiceWakePhraseWithTrailingCommand(t *testing.T) {
	voice := &scriptedVoice{t: t, wakes: []string{"alexa what time is it", "alexa stop"}}
	sess, out := newVoiceSession(t, voice, nil)
	require.NoError(t, sess.Run(context.Background()))

	assert.Contains(t, out.said, "The time is 03:04 PM")
	assert.Equal(t, []string{"what time is it", "stop"}, sess.History().Entries())
}

func TestVoiceBareWakePhraseTriggersFollowUpCapture(t *testing.T) {
	voice := &scriptedVoice{
		t:     t,
		wakes: []string{"hey alexa", "alexa stop"},
		cmds:  []string{"tell me a joke"},
	}
	sess, out := newVoiceSession(t, voice, nil)
	require.NoError(t, sess.Run(context.Background()))

	told := false
	for _, s := range out.said {
		for _, j := range jokes {
			if s == j {
				told = true
			}
		}
	}
	assert.True(t, told, "a joke was spoken")
	assert.Equal(t, 1, voice.ci, "one follow-up capture")
}

func TestVoiceEmptyCaptureApologizes(t *testing.T) {
	voice := &scriptedVoice{
		t:     t,
		wakes: []string{"computer", "alexa stop"},
		cmds:  []string{""},
	}
	sess, out := newVoiceSession(t, voice, nil)
	require.NoError(t, sess.Run(context.Background()))

	assert.Contains(t, out.said, "Sorry, I didn't catch that.")
}

func TestVoiceSwitchModePromotesToText(t *testing.T) {
	voice := &scriptedVoice{t: t, wakes: []string{"alexa switch mode"}}
	sess, out := newVoiceSession(t, voice, lines("goodbye"))
	require.NoError(t, sess.Run(context.Background()))

	assert.Contains(t, out.said, toTextText)
	assert.Contains(t, out.said, farewellText)
	// only the typed exit command is recorded; the switch phrase is not
	assert.Equal(t, []string{"goodbye"}, sess.History().Entries())
}

func TestCancelledContextShutsDown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sess, out, _ := newTextSession(t, lines("what time is it"), nil)
	require.NoError(t, sess.Run(ctx))

	assert.Equal(t, []string{greetingText, shutdownText}, out.said)
}
