package audio

import (
	"fmt"
	"os"

	"Countdowns/config"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/vorbis"
)

// Source produces a fresh streamer for one beep.
type Source func() (beep.Streamer, error)

// envelope shapes a streamer with a linear rise to peak over attack samples
// followed by a linear fall to silence at total samples, then ends.
type envelope struct {
	s      beep.Streamer
	pos    int
	attack int
	total  int
	peak   float64
}

func newEnvelope(s beep.Streamer, attack, total int, peak float64) *envelope {
	if attack > total {
		attack = total
	}
	return &envelope{s: s, attack: attack, total: total, peak: peak}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	if e.pos >= e.total {
		return 0, false
	}
	if rest := e.total - e.pos; len(samples) > rest {
		samples = samples[:rest]
	}
	n, ok = e.s.Stream(samples)
	for i := 0; i < n; i++ {
		g := e.gain(e.pos + i)
		samples[i][0] *= g
		samples[i][1] *= g
	}
	e.pos += n
	return n, ok || n > 0
}

func (e *envelope) Err() error { return e.s.Err() }

func (e *envelope) gain(p int) float64 {
	if p < e.attack {
		return e.peak * float64(p) / float64(e.attack)
	}
	decay := e.total - e.attack
	if decay <= 0 {
		return 0
	}
	return e.peak * float64(e.total-p) / float64(decay)
}

// ToneSource returns a source of sine beeps shaped by the alert settings.
func ToneSource(cfg config.AlertConfig) Source {
	sr := beep.SampleRate(cfg.SampleRate)
	return func() (beep.Streamer, error) {
		sine, err := generators.SineTone(sr, cfg.FrequencyHz)
		if err != nil {
			return nil, fmt.Errorf("create sine tone: %w", err)
		}
		return newEnvelope(sine, sr.N(cfg.Attack()), sr.N(cfg.Tone()), cfg.Volume), nil
	}
}

// LoadSound decodes an Ogg Vorbis file into memory.
func LoadSound(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sound %s: %w", path, err)
	}

	streamer, format, err := vorbis.Decode(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decode sound %s: %w", path, err)
	}
	defer streamer.Close()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	return buffer, nil
}

// BufferSource plays the whole buffer on every beep, resampled to the output
// rate when needed.
func BufferSource(b *beep.Buffer, sampleRate int) Source {
	out := beep.SampleRate(sampleRate)
	return func() (beep.Streamer, error) {
		var s beep.Streamer = b.Streamer(0, b.Len())
		if b.Format().SampleRate != out {
			s = beep.Resample(4, b.Format().SampleRate, out, s)
		}
		return s, nil
	}
}

// SourceFor picks the configured sound file, falling back to the synthesized
// tone when none is set.
func SourceFor(cfg config.AlertConfig) (Source, error) {
	if cfg.SoundFile == "" {
		return ToneSource(cfg), nil
	}
	b, err := LoadSound(cfg.SoundFile)
	if err != nil {
		return ToneSource(cfg), err
	}
	return BufferSource(b, cfg.SampleRate), nil
}
