package speech

import (
	"context"
	"log/slog"
	"time"

	"myassist/internal/intent"
)

const (
	wakeWindow    = 3 * time.Second
	commandWindow = 10 * time.Second
	retryDelay    = 2 * time.Second
)

// Recognizer converts captured PCM into text.
type Recognizer interface {
	Transcribe(ctx context.Context, pcm []float32) (string, error)
}

// Listener pairs the recorder with a recognizer and implements the session's
// voice acquisition contract.
type Listener struct {
	rec         *Recorder
	recog       Recognizer
	wakePhrases []string
	log         *slog.Logger
}

func NewListener(rec *Recorder, recog Recognizer, wakePhrases []string) *Listener {
	if len(wakePhrases) == 0 {
		wakePhrases = intent.DefaultWakePhrases
	}
	return &Listener{
		rec:         rec,
		recog:       recog,
		wakePhrases: wakePhrases,
		log:         slog.Default(),
	}
}

// ListenForWakePhrase captures short windows of audio until one transcribes
// to something containing a wake phrase, and returns that transcript (which
// may carry trailing command text). Transient capture or recognition failures
// are retried after a short delay; only cancellation ends the wait.
func (l *Listener) ListenForWakePhrase(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		pcm, err := l.rec.Record(wakeWindow)
		if err != nil {
			l.log.Warn("wake capture failed", "err", err)
			if err := sleep(ctx, retryDelay); err != nil {
				return "", err
			}
			continue
		}
		if len(pcm) == 0 {
			continue
		}

		text, err := l.recog.Transcribe(ctx, pcm)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			l.log.Warn("wake recognition failed", "err", err)
			if err := sleep(ctx, retryDelay); err != nil {
				return "", err
			}
			continue
		}

		if intent.ContainsWakePhrase(text, l.wakePhrases) {
			l.log.Debug("wake phrase detected", "text", text)
			return text, nil
		}
	}
}

// ListenForCommand performs a single bounded capture. Recognition failure is
// reported as an empty transcript, not an error; the session reprompts.
func (l *Listener) ListenForCommand(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	pcm, err := l.rec.Record(commandWindow)
	if err != nil {
		l.log.Warn("command capture failed", "err", err)
		return "", nil
	}
	if len(pcm) == 0 {
		return "", nil
	}

	text, err := l.recog.Transcribe(ctx, pcm)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		l.log.Warn("command recognition failed", "err", err)
		return "", nil
	}
	return text, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
