package host

import (
	"sync"

	"go.uber.org/zap"
)

// Sound names an audio clip, usually an asset path.
type Sound string

// AudioQueue is the fire-and-forget audio trigger resource. Play is safe for
// concurrent use, so systems only need shared access to the queue. Drivers
// drain it into an AudioSink after every tick.
type AudioQueue struct {
	mu      sync.Mutex
	pending []Sound
}

// Play requests that s is played. There is no ordering guarantee relative to
// other requests.
func (q *AudioQueue) Play(s Sound) {
	q.mu.Lock()
	q.pending = append(q.pending, s)
	q.mu.Unlock()
}

// Drain returns and clears the pending requests.
func (q *AudioQueue) Drain() []Sound {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

// AudioSink plays sounds for a driver.
type AudioSink interface {
	Play(s Sound)
}

// LogSink logs every sound instead of playing it.
type LogSink struct {
	Log *zap.Logger
}

func (s LogSink) Play(sound Sound) {
	s.Log.Debug("play sound", zap.String("sound", string(sound)))
}

// RecordingSink keeps every played sound. Used by headless runs and tests.
type RecordingSink struct {
	mu     sync.Mutex
	Played []Sound
}

func (s *RecordingSink) Play(sound Sound) {
	s.mu.Lock()
	s.Played = append(s.Played, sound)
	s.mu.Unlock()
}

// Sounds returns a copy of the sounds played so far.
func (s *RecordingSink) Sounds() []Sound {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Sound(nil), s.Played...)
}

// MultiSink fans every sound out to several sinks.
type MultiSink []AudioSink

func (m MultiSink) Play(sound Sound) {
	for _, sink := range m {
		sink.Play(sound)
	}
}
