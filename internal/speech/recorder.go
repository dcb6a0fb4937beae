// Package speech is the voice acquisition collaborator: microphone capture
// with a simple energy-based voice activity detector, plus pluggable
// transcription backends (local whisper.cpp or the OpenAI API).
package speech

import (
	"math"
	"time"

	"github.com/gordonklaus/portaudio"
)

const (
	// SampleRate is fixed at 16 kHz mono, the rate whisper expects.
	SampleRate = 16000

	frameSize        = 320 // 20ms
	silenceThreshRMS = 0.015
	silenceDuration  = 600 * time.Millisecond
)

type Recorder struct{}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// Record captures mono float32 PCM until the speaker falls silent for 600ms
// or maxDur elapses. Returns an empty slice when no speech crossed the energy
// threshold at all, so callers can skip transcribing silence.
func (r *Recorder) Record(maxDur time.Duration) ([]float32, error) {
	if maxDur <= 0 {
		maxDur = 10 * time.Second
	}

	buf := make([]float32, frameSize)
	out := make([]float32, 0, SampleRate*3)

	stream, err := portaudio.OpenDefaultStream(1, 0, SampleRate, len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	var (
		speaking      bool
		silenceFrames int
	)

	frameDur := time.Second * frameSize / SampleRate
	maxFrames := int(maxDur / frameDur)

	for i := 0; i < maxFrames; i++ {
		if err := stream.Read(); err != nil {
			return nil, err
		}

		rms := frameRMS(buf)

		if rms > silenceThreshRMS {
			speaking = true
			silenceFrames = 0
			out = append(out, buf...)
		} else if speaking {
			silenceFrames++
			if time.Duration(silenceFrames)*frameDur >= silenceDuration {
				break
			}
			out = append(out, buf...)
		}
	}

	return out, nil
}

func frameRMS(f []float32) float64 {
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
