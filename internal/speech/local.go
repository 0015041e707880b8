package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync/atomic"
)

// LocalSynth speaks text without the hosted vendor.
type LocalSynth interface {
	Speak(ctx context.Context, text string) error
}

// CommandSynth runs a local text-to-speech program such as espeak or say with the
// text as its last argument.
type CommandSynth struct {
	Path string
	Args []string
}

// LookupCommandSynth returns the first of names found on PATH, or nil when none is
// installed.
func LookupCommandSynth(names ...string) LocalSynth {
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return CommandSynth{Path: path}
		}
	}
	return nil
}

func (c CommandSynth) Speak(ctx context.Context, text string) error {
	args := append(append([]string(nil), c.Args...), text)
	out, err := exec.CommandContext(ctx, c.Path, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", filepath.Base(c.Path), err, out)
	}
	return nil
}

type Player interface {
	Play(ctx context.Context, audio []byte) error
}

// DirPlayer "plays" audio by writing each clip to a numbered file in Dir.
type DirPlayer struct {
	Dir string
	seq atomic.Int64
}

func (p *DirPlayer) Play(ctx context.Context, audio []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return err
	}
	name := filepath.Join(p.Dir, fmt.Sprintf("reply-%04d.mp3", p.seq.Add(1)))
	return os.WriteFile(name, audio, 0o644)
}

type discardPlayer struct{}

func (discardPlayer) Play(ctx context.Context, audio []byte) error {
	return ctx.Err()
}
