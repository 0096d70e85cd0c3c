// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package synth turns text segments into audio fragments through one of
// two interchangeable backends: a cloud TTS endpoint or a locally
// installed speech engine.
package synth

import (
	"context"
	"fmt"

	"github.com/abadojack/whatlanggo"

	"github.com/pdiddy/pdfspeech/pkg/types"
)

// Synthesizer converts one text segment into one audio fragment.
type Synthesizer interface {
	// Name returns the backend name ("cloud" or "offline").
	Name() string

	// MaxSegmentLen returns the longest segment text, in runes, the
	// backend accepts in one request.
	MaxSegmentLen() int

	// Synthesize converts seg into an audio fragment carrying the same
	// index. A segment is never dropped: the result is one fragment or
	// an error.
	Synthesize(ctx context.Context, seg types.Segment) (types.Fragment, error)
}

// New selects the backend for cfg.Engine. cfg.Language should already be
// resolved; "auto" falls back to English rather than failing.
func New(cfg types.SynthConfig) (Synthesizer, error) {
	switch cfg.Engine {
	case types.EngineCloud:
		return NewGoogle(cfg), nil
	case types.EngineOffline:
		return NewESpeak(cfg)
	default:
		return nil, types.NewStageError(types.InvalidArguments, "synthesize",
			fmt.Errorf("unknown engine %q (want %s or %s)", cfg.Engine, types.EngineCloud, types.EngineOffline))
	}
}

// Engines lists the selectable backend names for help text and
// validation messages.
func Engines() []string {
	return []string{string(types.EngineCloud), string(types.EngineOffline)}
}

// DetectLanguage returns the ISO 639-1 code for text, or fallback when
// detection is not confident enough to act on.
func DetectLanguage(text, fallback string) string {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return fallback
	}
	if code := info.Lang.Iso6391(); code != "" {
		return code
	}
	return fallback
}

// fail classifies err as a synthesis failure of the given kind.
func fail(kind types.ErrorKind, err error) error {
	return types.NewStageError(kind, "synthesize", err)
}
