// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract reads the text layer of a PDF document.
package extract

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/pdfspeech/pkg/types"
)

// fail classifies err as an extraction failure.
func fail(err error) error {
	return types.NewStageError(types.ExtractionError, "extract", err)
}

// Extract reads the PDF at path and returns its ordered non-empty page
// texts. It fails when the file is missing, is not a PDF, cannot be
// parsed (corrupt or password-protected), or contains no extractable
// text. Image-only pages have no text layer and are skipped; a document
// made entirely of them fails.
func Extract(path string) (types.Document, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return types.Document{}, fail(fmt.Errorf("read %s: %w", path, err))
	}
	if !mtype.Is("application/pdf") {
		return types.Document{}, fail(fmt.Errorf("%s is not a PDF (detected %s)", path, mtype.String()))
	}

	pages, err := readPages(path)
	if err != nil {
		return types.Document{}, fail(err)
	}
	if len(pages) == 0 {
		return types.Document{}, fail(fmt.Errorf("%s contains no extractable text", path))
	}
	return types.Document{Path: path, Pages: pages}, nil
}

// readPages walks the page tree in order. The parser panics on some
// malformed files; the recover turns that into an ordinary error.
func readPages(path string) (pages []types.Page, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			pages, err = nil, fmt.Errorf("parse %s: %v", path, rec)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	total := r.NumPage()
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d of %s: %w", i, path, err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		pages = append(pages, types.Page{Number: i, Text: text})
	}
	return pages, nil
}
