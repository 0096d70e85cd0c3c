// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline wires extraction, segmentation, synthesis and
// assembly into one conversion run.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdfspeech/internal/assemble"
	"github.com/pdiddy/pdfspeech/internal/extract"
	"github.com/pdiddy/pdfspeech/internal/segment"
	"github.com/pdiddy/pdfspeech/internal/synth"
	"github.com/pdiddy/pdfspeech/pkg/types"
)

// Result summarizes a completed conversion. It is what the metadata
// sidecar records next to the output file.
type Result struct {
	InputPath  string `yaml:"input" json:"input"`
	OutputPath string `yaml:"output" json:"output"`
	Engine     string `yaml:"engine" json:"engine"`
	Language   string `yaml:"language" json:"language"`
	Pages      int    `yaml:"pages" json:"pages"`
	Segments   int    `yaml:"segments" json:"segments"`
	Bytes      int64  `yaml:"bytes" json:"bytes"`
	CreatedAt  string `yaml:"created_at" json:"created_at"`
}

// assembler joins fragments into the output file.
type assembler interface {
	Assemble(ctx context.Context, frags []types.Fragment, outPath string) (int64, error)
}

// Pipeline runs a conversion end to end. The stages are fields so
// tests can substitute them.
type Pipeline struct {
	cfg types.ConvertConfig
	log *slog.Logger
	out io.Writer

	extract  func(path string) (types.Document, error)
	newSynth func(cfg types.SynthConfig) (synth.Synthesizer, error)
	asm      assembler
}

// New builds a production pipeline. Progress lines for the user go to
// out; diagnostic entries go to log.
func New(cfg types.ConvertConfig, log *slog.Logger, out io.Writer) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		log:      log,
		out:      out,
		extract:  extract.Extract,
		newSynth: synth.New,
		asm:      assemble.NewAssembler(),
	}
}

// Run converts the PDF at inPath into an MP3 at outPath. Stages run in
// order and the first failure aborts the conversion; outPath is never
// left holding a partial file.
func (p *Pipeline) Run(ctx context.Context, inPath, outPath string) (Result, error) {
	doc, err := p.extract(inPath)
	if err != nil {
		return Result{}, err
	}
	for _, page := range doc.Pages {
		p.log.Info("page extracted", "page", page.Number, "chars", len(page.Text))
	}
	fmt.Fprintf(p.out, "extracted: %d pages from %s\n", len(doc.Pages), inPath)

	text := segment.Normalize(doc.Pages)
	lang := p.resolveLanguage(text)

	scfg := p.cfg.Synth
	scfg.Language = lang
	syn, err := p.newSynth(scfg)
	if err != nil {
		return Result{}, err
	}

	segs := segment.Split(text, syn.MaxSegmentLen())
	p.log.Info("text segmented", "segments", len(segs), "limit", syn.MaxSegmentLen())

	frags := make([]types.Fragment, 0, len(segs))
	for _, seg := range segs {
		frag, err := syn.Synthesize(ctx, seg)
		if err != nil {
			return Result{}, err
		}
		p.log.Debug("segment synthesized", "segment", seg.Index, "bytes", len(frag.Data))
		frags = append(frags, frag)
	}
	fmt.Fprintf(p.out, "synthesized: %d segments with %s backend\n", len(frags), syn.Name())

	size, err := p.asm.Assemble(ctx, frags, outPath)
	if err != nil {
		return Result{}, err
	}
	fmt.Fprintf(p.out, "wrote: %s (%s)\n", outPath, humanize.Bytes(uint64(size)))
	p.log.Info("conversion complete", "output", outPath, "bytes", size)

	return Result{
		InputPath:  inPath,
		OutputPath: outPath,
		Engine:     syn.Name(),
		Language:   lang,
		Pages:      len(doc.Pages),
		Segments:   len(segs),
		Bytes:      size,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// resolveLanguage settles the synthesis language before the backend is
// built. An explicit configuration wins; otherwise the document text is
// classified, with English as the fallback.
func (p *Pipeline) resolveLanguage(text string) string {
	lang := p.cfg.Synth.Language
	if lang != "" && lang != types.LanguageAuto {
		return lang
	}
	detected := synth.DetectLanguage(text, "en")
	p.log.Info("language detected", "language", detected)
	return detected
}

// Sidecar writes res as YAML next to the output file.
func Sidecar(res Result) error {
	data, err := yaml.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	path := res.OutputPath + ".yaml"
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}
	return nil
}
