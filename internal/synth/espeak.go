// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synth

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	shellwords "github.com/mattn/go-shellwords"

	"github.com/pdiddy/pdfspeech/internal/tool"
	"github.com/pdiddy/pdfspeech/pkg/types"
)

// espeakMaxSegmentLen caps the text handed to the offline engine in one
// invocation. eSpeak has no hard input limit; the cap keeps individual
// runs short so a cancelled conversion stops quickly.
const espeakMaxSegmentLen = 1024

// defaultRate is the eSpeak default speaking rate in words per minute.
const defaultRate = 175

// detectSpeechEngine is swapped in tests.
var detectSpeechEngine = tool.DetectSpeechEngine

// ESpeak synthesizes speech by piping text through a local eSpeak NG
// process, falling back to classic eSpeak or a user-supplied command.
// The engine writes WAV to stdout.
type ESpeak struct {
	engine tool.Tool
	args   []string
	custom bool
}

// NewESpeak builds the offline backend from cfg. When cfg.Command is
// set it names the synthesis binary and its flags verbatim; otherwise
// the engine is detected on PATH and driven with the standard flags.
func NewESpeak(cfg types.SynthConfig) (*ESpeak, error) {
	if cfg.Command != "" {
		argv, err := shellwords.NewParser().Parse(cfg.Command)
		if err != nil {
			return nil, fail(types.EngineUnavailableError, fmt.Errorf("parsing synthesis command: %w", err))
		}
		if len(argv) == 0 {
			return nil, fail(types.EngineUnavailableError, fmt.Errorf("synthesis command %q is empty", cfg.Command))
		}
		t, err := tool.FromCommand(argv)
		if err != nil {
			return nil, fail(types.EngineUnavailableError, err)
		}
		return &ESpeak{engine: t, custom: true}, nil
	}

	t, err := detectSpeechEngine()
	if err != nil {
		return nil, fail(types.EngineUnavailableError, err)
	}
	voice := cfg.Voice
	if voice == "" {
		voice = cfg.Language
	}
	if voice == "" || voice == types.LanguageAuto {
		voice = "en"
	}
	rate := cfg.Rate
	if rate <= 0 {
		rate = defaultRate
	}
	args := []string{"--stdin", "--stdout", "-v", voice, "-s", strconv.Itoa(rate)}
	return &ESpeak{engine: t, args: args}, nil
}

// Name returns the backend identifier.
func (e *ESpeak) Name() string { return string(types.EngineOffline) }

func (e *ESpeak) MaxSegmentLen() int { return espeakMaxSegmentLen }

// Synthesize runs the engine once for seg and captures the WAV written
// to stdout. WAV streamed to a pipe carries bogus chunk sizes, which
// are patched before the fragment is returned.
func (e *ESpeak) Synthesize(ctx context.Context, seg types.Segment) (types.Fragment, error) {
	var out bytes.Buffer
	stdin := strings.NewReader(seg.Text + "\n")
	if err := e.engine.Run(ctx, e.args, stdin, &out); err != nil {
		return types.Fragment{}, fail(types.EngineUnavailableError, fmt.Errorf("segment %d: %w", seg.Index, err))
	}
	if out.Len() == 0 {
		return types.Fragment{}, fail(types.EngineUnavailableError,
			fmt.Errorf("segment %d: %s produced no audio", seg.Index, e.engine.Name()))
	}
	data := out.Bytes()
	fixWAVSizes(data)
	return types.Fragment{Index: seg.Index, Format: types.FormatWAV, Data: data}, nil
}

// fixWAVSizes rewrites the RIFF and data chunk sizes in place. An
// engine writing to a pipe cannot seek back to fill them in, so the
// header typically claims zero or maximal length.
func fixWAVSizes(data []byte) {
	if len(data) < 44 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return
	}
	binary.LittleEndian.PutUint32(data[4:8], uint32(len(data)-8))
	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		if id == "data" {
			binary.LittleEndian.PutUint32(data[pos+4:pos+8], uint32(len(data)-pos-8))
			return
		}
		pos += 8 + size
		if size%2 == 1 {
			pos++
		}
	}
}

// Voice is one row of the engine's voice listing.
type Voice struct {
	Language string
	Name     string
}

// Voices lists the voices the detected engine offers.
func (e *ESpeak) Voices(ctx context.Context) ([]Voice, error) {
	if e.custom {
		return nil, fail(types.EngineUnavailableError,
			fmt.Errorf("%s: custom synthesis commands do not list voices", e.engine.Name()))
	}
	var out bytes.Buffer
	if err := e.engine.Run(ctx, []string{"--voices"}, nil, &out); err != nil {
		return nil, fail(types.EngineUnavailableError, fmt.Errorf("listing voices: %w", err))
	}
	return parseVoices(out.String()), nil
}

// parseVoices reads the tabular --voices output. The first line is a
// header; data rows carry the language tag in column 2 and the voice
// name in column 4.
func parseVoices(listing string) []Voice {
	var voices []Voice
	for i, line := range strings.Split(listing, "\n") {
		if i == 0 {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		voices = append(voices, Voice{Language: fields[1], Name: fields[3]})
	}
	return voices
}
