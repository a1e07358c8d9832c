package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Output is the device the alert plays through.
type Output interface {
	// Init acquires the device. It is called before every alert and must be
	// cheap once the device is ready; a failed attempt may be retried later.
	Init() error
	Play(s beep.Streamer)
	// Clear silences whatever is currently sounding.
	Clear() error
}

// SpeakerOutput plays through the beep speaker, initialised on first use.
type SpeakerOutput struct {
	mu         sync.Mutex
	sampleRate beep.SampleRate
	ready      bool
}

// NewSpeakerOutput creates an output at the given sample rate.
func NewSpeakerOutput(sampleRate int) *SpeakerOutput {
	return &SpeakerOutput{sampleRate: beep.SampleRate(sampleRate)}
}

// Init initialises the speaker once.
func (o *SpeakerOutput) Init() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.ready {
		return nil
	}
	if err := speaker.Init(o.sampleRate, o.sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("initialize speaker: %w", err)
	}
	o.ready = true
	return nil
}

// Play mixes s into the speaker output.
func (o *SpeakerOutput) Play(s beep.Streamer) {
	speaker.Play(s)
}

// Clear removes all playing streamers.
func (o *SpeakerOutput) Clear() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.ready {
		return nil
	}
	speaker.Clear()
	return nil
}

// Close releases the audio device.
func (o *SpeakerOutput) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.ready {
		speaker.Close()
		o.ready = false
	}
}
