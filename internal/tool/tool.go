// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tool implements detection and execution of the external
// binaries the pipeline shells out to: speech engines and MP3 encoders.
package tool

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

const (
	binEspeakNG = "espeak-ng"
	binEspeak   = "espeak"
	binFFmpeg   = "ffmpeg"
	binLame     = "lame"
)

// Tool is a located external binary ready to run.
type Tool interface {
	// Name returns the binary name (e.g. "espeak-ng" or "ffmpeg").
	Name() string

	// Available reports whether the binary exists on PATH and responds
	// to its probe command.
	Available() bool

	// Run executes the binary with its base arguments followed by args,
	// piping stdin and stdout. Stderr is captured and folded into the
	// returned error.
	Run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (o *osExecutor) RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// tool implements Tool for a specific binary. All supported binaries
// share the same logic; they differ in name, the probe used to check
// they are operational, and any arguments that always precede the
// call-site ones.
type tool struct {
	bin       string
	baseArgs  []string
	probeArgs []string
	exec      executor
}

func (t *tool) Name() string { return t.bin }

func (t *tool) Available() bool {
	if _, err := t.exec.LookPath(t.bin); err != nil {
		return false
	}
	if len(t.probeArgs) == 0 {
		return true
	}
	return t.exec.RunSilent(t.bin, t.probeArgs...) == nil
}

func (t *tool) Run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	full := make([]string, 0, len(t.baseArgs)+len(args))
	full = append(full, t.baseArgs...)
	full = append(full, args...)

	if err := t.exec.RunPiped(ctx, t.bin, full, stdin, stdout); err != nil {
		return fmt.Errorf("running %s: %w", t.bin, err)
	}
	return nil
}

func newEspeakNG(exec executor) *tool {
	return &tool{bin: binEspeakNG, probeArgs: []string{"--version"}, exec: exec}
}

func newEspeak(exec executor) *tool {
	return &tool{bin: binEspeak, probeArgs: []string{"--version"}, exec: exec}
}

func newFFmpeg(exec executor) *tool {
	return &tool{bin: binFFmpeg, probeArgs: []string{"-version"}, exec: exec}
}

func newLame(exec executor) *tool {
	return &tool{bin: binLame, probeArgs: []string{"--version"}, exec: exec}
}

var defaultExec = &osExecutor{}

// DetectSpeechEngine tries espeak-ng first, falls back to espeak.
// Returns an error if neither engine is available.
func DetectSpeechEngine() (Tool, error) {
	return detectSpeechEngine(defaultExec)
}

func detectSpeechEngine(exec executor) (Tool, error) {
	ng := newEspeakNG(exec)
	if ng.Available() {
		return ng, nil
	}

	es := newEspeak(exec)
	if es.Available() {
		return es, nil
	}

	return nil, fmt.Errorf(
		"no speech engine available: neither %s nor %s found or operational",
		binEspeakNG, binEspeak,
	)
}

// DetectEncoder tries ffmpeg first, falls back to lame. Returns an
// error if neither encoder is available.
func DetectEncoder() (Tool, error) {
	return detectEncoder(defaultExec)
}

func detectEncoder(exec executor) (Tool, error) {
	ff := newFFmpeg(exec)
	if ff.Available() {
		return ff, nil
	}

	lm := newLame(exec)
	if lm.Available() {
		return lm, nil
	}

	return nil, fmt.Errorf(
		"no MP3 encoder available: neither %s nor %s found or operational",
		binFFmpeg, binLame,
	)
}

// FromCommand builds a Tool from a user-supplied argv. The first element
// is the binary; the rest always precede any call-site arguments. The
// binary must exist on PATH, but no probe is run against it.
func FromCommand(argv []string) (Tool, error) {
	return fromCommand(argv, defaultExec)
}

func fromCommand(argv []string, exec executor) (Tool, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("command is empty")
	}
	t := &tool{bin: argv[0], baseArgs: argv[1:], exec: exec}
	if _, err := exec.LookPath(t.bin); err != nil {
		return nil, fmt.Errorf("command binary %s not found: %w", t.bin, err)
	}
	return t, nil
}
