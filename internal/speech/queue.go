package speech

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	// ErrStopped resolves speech that was queued or playing when Stop was called.
	ErrStopped = errors.New("speech stopped")
	ErrClosed  = errors.New("speaker closed")
)

type SpeakerOptions struct {
	Synth    Synthesizer
	Local    LocalSynth
	Player   Player
	VoiceID  string
	MaxChars int
	Timeout  time.Duration
	Logger   zerolog.Logger
}

// Speaker plays text one utterance at a time in FIFO order. Each utterance goes to
// the hosted synthesizer first; on any failure it falls back to the local
// synthesizer, and when neither is available it completes as a no-op.
type Speaker struct {
	opts SpeakerOptions

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []*utterance
	gen    uint64
	cancel context.CancelFunc
	closed bool
	done   chan struct{}
}

type utterance struct {
	text   string
	gen    uint64
	result chan error
}

func NewSpeaker(opts SpeakerOptions) *Speaker {
	if opts.Player == nil {
		opts.Player = discardPlayer{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	s := &Speaker{opts: opts, done: make(chan struct{})}
	s.cond = sync.NewCond(&s.mu)
	go s.run()
	return s
}

// Speak queues text and returns a channel that receives the outcome once the
// utterance finished playing, fell back or was stopped.
func (s *Speaker) Speak(text string) <-chan error {
	u := &utterance{text: text, result: make(chan error, 1)}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		u.result <- ErrClosed
		return u.result
	}
	u.gen = s.gen
	s.queue = append(s.queue, u)
	s.cond.Signal()
	return u.result
}

// Stop drops queued speech and interrupts the current utterance. Audio of a fetch
// that is still in flight is discarded when it arrives.
func (s *Speaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Speaker) stopLocked() {
	s.gen++
	for _, u := range s.queue {
		u.result <- ErrStopped
	}
	s.queue = nil
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Speaker) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.stopLocked()
	s.cond.Broadcast()
	s.mu.Unlock()
	<-s.done
}

func (s *Speaker) run() {
	defer close(s.done)
	for {
		u, ok := s.next()
		if !ok {
			return
		}
		u.result <- s.play(u)
	}
}

func (s *Speaker) next() (*utterance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.queue) == 0 && !s.closed {
		s.cond.Wait()
	}
	if s.closed {
		return nil, false
	}
	u := s.queue[0]
	s.queue = s.queue[1:]
	return u, true
}

func (s *Speaker) play(u *utterance) error {
	text := PrepareText(u.text, s.opts.MaxChars)
	if text == "" {
		return nil
	}

	s.mu.Lock()
	if u.gen != s.gen {
		s.mu.Unlock()
		return ErrStopped
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.cancel = nil
		s.mu.Unlock()
		cancel()
	}()

	if s.opts.Synth != nil {
		err := s.playHosted(ctx, u, text)
		if err == nil || errors.Is(err, ErrStopped) {
			return err
		}
		s.opts.Logger.Warn().Err(err).Msg("hosted speech failed, falling back to local synthesis")
	}

	if s.opts.Local == nil {
		return nil
	}
	if err := s.opts.Local.Speak(ctx, text); err != nil {
		if ctx.Err() != nil {
			return ErrStopped
		}
		s.opts.Logger.Warn().Err(err).Msg("local speech failed")
	}
	return nil
}

func (s *Speaker) playHosted(ctx context.Context, u *utterance, text string) error {
	// The fetch is not tied to ctx: Stop discards its audio instead of aborting it.
	fetchCtx, cancel := context.WithTimeout(context.Background(), s.opts.Timeout)
	audio, err := s.opts.Synth.Synthesize(fetchCtx, text, s.opts.VoiceID)
	cancel()
	if s.stale(u) {
		return ErrStopped
	}
	if err != nil {
		return err
	}
	if err := s.opts.Player.Play(ctx, audio); err != nil {
		if ctx.Err() != nil {
			return ErrStopped
		}
		return err
	}
	return nil
}

func (s *Speaker) stale(u *utterance) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return u.gen != s.gen
}
