// Package tts voices responses through espeak-ng. Synthesis is synchronous:
// Speak returns once playback finished, which is what the session loop
// expects from its output collaborator.
package tts

/*
#cgo LDFLAGS: -lespeak-ng
#include <stdlib.h>
#include <espeak-ng/speak_lib.h>

int
assist_say(const char *text, int rate)
{
	if (!text)
	{ return -1; }

	espeak_Initialize(AUDIO_OUTPUT_SYNCH_PLAYBACK, 500, NULL, 0);
	espeak_VOICE specs = { .languages = "en" };
	espeak_SetVoiceByProperties(&specs);
	espeak_SetParameter(espeakRATE, rate, 0);

	espeak_Synth(text, 500, 0, 0, 0, espeakCHARS_AUTO, NULL, NULL);
	espeak_Synchronize();
	espeak_Terminate();

	return 0;
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

const defaultRate = 150

type Engine struct {
	Rate int // words per minute
}

func NewEngine() *Engine {
	return &Engine{Rate: defaultRate}
}

func (e *Engine) Speak(text string) error {
	if text == "" {
		return nil
	}

	rate := e.Rate
	if rate <= 0 {
		rate = defaultRate
	}

	ctext := C.CString(text)
	defer C.free(unsafe.Pointer(ctext))

	rc := C.assist_say(ctext, C.int(rate))
	if rc != 0 {
		return fmt.Errorf("assist_say failed: %d", int(rc))
	}

	return nil
}
