package beepaudio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
)

func TestDefaultToneStable(t *testing.T) {
	a := DefaultTone("pop.ogg")
	b := DefaultTone("pop.ogg")
	assert.Equal(t, a, b)
	assert.GreaterOrEqual(t, a.Freq, 220.0)
	assert.Less(t, a.Freq, 880.0)
}

func TestToneGenerator(t *testing.T) {
	sr := beep.SampleRate(1000)
	tone := Tone{Freq: 100, Duration: 100 * time.Millisecond, Volume: 0.5}
	streamer := beep.Take(sr.N(tone.Duration), NewToneGenerator(sr, tone))

	buf := make([][2]float64, 64)
	total := 0
	peak := 0.0
	for {
		n, ok := streamer.Stream(buf)
		for _, s := range buf[:n] {
			assert.Equal(t, s[0], s[1])
			peak = max(peak, s[0])
		}
		total += n
		if !ok {
			break
		}
	}

	assert.Equal(t, 100, total)
	assert.LessOrEqual(t, peak, 0.5)
	assert.Greater(t, peak, 0.0)
}
