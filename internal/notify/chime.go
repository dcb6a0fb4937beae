// Package notify plays the short audio cue that tells the user the wake
// phrase was heard and the assistant is listening.
package notify

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

type Player struct {
	Path string // mp3 cue file

	initOnce sync.Once
	initErr  error
}

func NewPlayer(path string) *Player {
	return &Player{Path: path}
}

// Chime decodes and plays the cue, blocking until it finished so the
// follow-up capture does not record the cue itself.
func (p *Player) Chime() error {
	f, err := os.Open(p.Path)
	if err != nil {
		return fmt.Errorf("open chime: %w", err)
	}

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode chime: %w", err)
	}
	defer streamer.Close()

	p.initOnce.Do(func() {
		p.initErr = speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10))
	})
	if p.initErr != nil {
		return fmt.Errorf("init speaker: %w", p.initErr)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		close(done)
	})))
	<-done
	return nil
}
