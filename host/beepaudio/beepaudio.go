// Package beepaudio plays queued sounds on the system speaker. Sounds are
// synthesized tones rather than decoded assets, so a scene only needs a name
// for each effect.
package beepaudio

import (
	"math"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/plus3/stagecraft/host"
)

const sampleRate = beep.SampleRate(48000)

// Tone describes the sound synthesized for an effect.
type Tone struct {
	Freq     float64
	Duration time.Duration
	Volume   float64
}

// DefaultTone derives a stable tone from a sound name so unknown effects are
// still distinguishable.
func DefaultTone(s host.Sound) Tone {
	h := xxhash.Sum64String(string(s))
	return Tone{
		Freq:     220 + float64(h%660),
		Duration: 120 * time.Millisecond,
		Volume:   0.3,
	}
}

// Sink mixes tones into a single speaker stream.
type Sink struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	tones       map[host.Sound]Tone
	log         *zap.Logger
	initialized bool
}

// New initializes the speaker. Tones overrides the synthesized tone for
// specific sounds.
func New(log *zap.Logger, tones map[host.Sound]Tone) (*Sink, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Sink{
		mixer: &beep.Mixer{},
		tones: tones,
		log:   log,
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return nil, err
	}
	speaker.Play(s.mixer)
	s.initialized = true
	return s, nil
}

func (s *Sink) tone(sound host.Sound) Tone {
	if t, ok := s.tones[sound]; ok {
		return t
	}
	return DefaultTone(sound)
}

func (s *Sink) Play(sound host.Sound) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}

	t := s.tone(sound)
	streamer := beep.Take(sampleRate.N(t.Duration), NewToneGenerator(sampleRate, t))

	speaker.Lock()
	s.mixer.Add(streamer)
	speaker.Unlock()

	s.log.Debug("sound", zap.String("sound", string(sound)), zap.Float64("freq", t.Freq))
}

// Close silences the mixer and releases the speaker.
func (s *Sink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}

	speaker.Clear()
	speaker.Close()
	s.initialized = false
}

// ToneGenerator is a sine wave with a linear fade-out over its duration.
type ToneGenerator struct {
	sr     beep.SampleRate
	tone   Tone
	pos    int
	length int
}

func NewToneGenerator(sr beep.SampleRate, t Tone) *ToneGenerator {
	return &ToneGenerator{
		sr:     sr,
		tone:   t,
		length: sr.N(t.Duration),
	}
}

func (g *ToneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		var v float64
		if g.pos < g.length {
			fade := 1 - float64(g.pos)/float64(g.length)
			phase := 2 * math.Pi * g.tone.Freq * float64(g.pos) / float64(g.sr)
			v = math.Sin(phase) * g.tone.Volume * fade
		}
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *ToneGenerator) Err() error {
	return nil
}
