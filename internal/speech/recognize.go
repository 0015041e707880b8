package speech

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strings"
)

type EventKind int

const (
	EventStart EventKind = iota
	EventInterim
	EventFinal
	EventError
	EventEnd
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventInterim:
		return "interim"
	case EventFinal:
		return "final"
	case EventError:
		return "error"
	case EventEnd:
		return "end"
	}
	return "unknown"
}

type Event struct {
	Kind EventKind
	Text string
	Err  error
}

// Segment is one hypothesis from a recognizer. Final segments end the utterance.
type Segment struct {
	Text  string
	Final bool
}

// TranscriptSource yields segments for the current utterance. It returns io.EOF
// when no more input will arrive.
type TranscriptSource interface {
	Next(ctx context.Context) (Segment, error)
}

var ErrNoSpeech = errors.New("no speech detected")

// Listen runs one recognition session. The returned channel delivers start, zero
// or more interim events, exactly one final or error event, then end, and is closed
// afterwards; callers drain it until it is closed. Errors are not retried.
func Listen(ctx context.Context, src TranscriptSource) <-chan Event {
	out := make(chan Event, 4)
	go func() {
		defer close(out)
		out <- Event{Kind: EventStart}
		out <- listen(ctx, src, out)
		out <- Event{Kind: EventEnd}
	}()
	return out
}

func listen(ctx context.Context, src TranscriptSource, out chan<- Event) Event {
	for {
		if err := ctx.Err(); err != nil {
			return Event{Kind: EventError, Err: err}
		}
		seg, err := src.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = ErrNoSpeech
			}
			return Event{Kind: EventError, Err: err}
		}
		if seg.Final {
			return Event{Kind: EventFinal, Text: strings.TrimSpace(seg.Text)}
		}
		select {
		case out <- Event{Kind: EventInterim, Text: seg.Text}:
		case <-ctx.Done():
			return Event{Kind: EventError, Err: ctx.Err()}
		}
	}
}

// LineSource treats every non-empty line of r as a final transcript.
type LineSource struct {
	lines chan string
	err   chan error
}

func NewLineSource(r io.Reader) *LineSource {
	s := &LineSource{lines: make(chan string), err: make(chan error, 1)}
	go func() {
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			s.lines <- sc.Text()
		}
		if err := sc.Err(); err != nil {
			s.err <- err
			return
		}
		s.err <- io.EOF
	}()
	return s
}

func NewStdinSource() *LineSource {
	return NewLineSource(os.Stdin)
}

func (s *LineSource) Next(ctx context.Context) (Segment, error) {
	for {
		select {
		case line := <-s.lines:
			if strings.TrimSpace(line) == "" {
				continue
			}
			return Segment{Text: line, Final: true}, nil
		case err := <-s.err:
			s.err <- err
			return Segment{}, err
		case <-ctx.Done():
			return Segment{}, ctx.Err()
		}
	}
}

// TranscriberSource transcribes one recorded clip and yields it as a single final
// segment.
type TranscriberSource struct {
	Transcriber Transcriber
	Audio       io.Reader
	Filename    string
	done        bool
}

func (s *TranscriberSource) Next(ctx context.Context) (Segment, error) {
	if s.done {
		return Segment{}, io.EOF
	}
	s.done = true
	text, err := s.Transcriber.Transcribe(ctx, s.Audio, s.Filename)
	if err != nil {
		return Segment{}, err
	}
	if strings.TrimSpace(text) == "" {
		return Segment{}, ErrNoSpeech
	}
	return Segment{Text: text, Final: true}, nil
}
