package speech

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPlayer struct {
	mu     sync.Mutex
	events []string
	hold   time.Duration
}

func (p *recordingPlayer) Play(ctx context.Context, audio []byte) error {
	p.record("start " + string(audio))
	select {
	case <-time.After(p.hold):
	case <-ctx.Done():
		return ctx.Err()
	}
	p.record("end " + string(audio))
	return nil
}

func (p *recordingPlayer) record(e string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPlayer) Events() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

type recordingLocal struct {
	mu    sync.Mutex
	texts []string
}

func (l *recordingLocal) Speak(ctx context.Context, text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.texts = append(l.texts, text)
	return nil
}

type blockingSynth struct {
	entered chan struct{}
	release chan struct{}
}

func (b blockingSynth) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	close(b.entered)
	<-b.release
	return []byte(text), nil
}

func wait(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for speech")
		return nil
	}
}

func TestSpeakerPlaysInOrder(t *testing.T) {
	player := &recordingPlayer{hold: 20 * time.Millisecond}
	s := NewSpeaker(SpeakerOptions{Synth: MockSynthesizer{}, Player: player})
	defer s.Close()

	a := s.Speak("A")
	b := s.Speak("B")
	require.NoError(t, wait(t, a))
	require.NoError(t, wait(t, b))

	assert.Equal(t, []string{"start A", "end A", "start B", "end B"}, player.Events())
}

func TestSpeakerCleansText(t *testing.T) {
	player := &recordingPlayer{}
	s := NewSpeaker(SpeakerOptions{Synth: MockSynthesizer{}, Player: player, MaxChars: 1000})
	defer s.Close()

	require.NoError(t, wait(t, s.Speak("**Hello** [world](https://x.test)")))
	assert.Equal(t, []string{"start Hello world", "end Hello world"}, player.Events())
}

func TestSpeakerFallsBackToLocal(t *testing.T) {
	local := &recordingLocal{}
	s := NewSpeaker(SpeakerOptions{Synth: MockSynthesizer{Err: errors.New("vendor down")}, Local: local})
	defer s.Close()

	require.NoError(t, wait(t, s.Speak("**Hi**")))
	assert.Equal(t, []string{"Hi"}, local.texts)
}

func TestSpeakerNoBackendIsNoop(t *testing.T) {
	s := NewSpeaker(SpeakerOptions{Synth: MockSynthesizer{Err: errors.New("vendor down")}})
	defer s.Close()
	assert.NoError(t, wait(t, s.Speak("hello")))

	bare := NewSpeaker(SpeakerOptions{})
	defer bare.Close()
	assert.NoError(t, wait(t, bare.Speak("hello")))
}

func TestSpeakerStopClearsQueue(t *testing.T) {
	player := &recordingPlayer{hold: time.Minute}
	s := NewSpeaker(SpeakerOptions{Synth: MockSynthesizer{}, Player: player})
	defer s.Close()

	a := s.Speak("A")
	b := s.Speak("B")
	require.Eventually(t, func() bool { return len(player.Events()) == 1 }, time.Second, 5*time.Millisecond)

	s.Stop()
	assert.ErrorIs(t, wait(t, a), ErrStopped)
	assert.ErrorIs(t, wait(t, b), ErrStopped)
	assert.Equal(t, []string{"start A"}, player.Events())

	player.hold = 0
	assert.NoError(t, wait(t, s.Speak("C")))
}

func TestSpeakerStopDiscardsInFlightAudio(t *testing.T) {
	synth := blockingSynth{entered: make(chan struct{}), release: make(chan struct{})}
	player := &recordingPlayer{}
	s := NewSpeaker(SpeakerOptions{Synth: synth, Player: player})
	defer s.Close()

	a := s.Speak("A")
	<-synth.entered
	s.Stop()
	close(synth.release)

	assert.ErrorIs(t, wait(t, a), ErrStopped)
	assert.Empty(t, player.Events())
}

func TestSpeakAfterClose(t *testing.T) {
	s := NewSpeaker(SpeakerOptions{})
	s.Close()
	assert.ErrorIs(t, wait(t, s.Speak("late")), ErrClosed)
}
