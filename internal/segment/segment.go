// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment normalizes extracted text and splits it into
// synthesis-sized chunks.
package segment

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/pdfspeech/pkg/types"
)

// Normalize joins page texts into one string with every whitespace run,
// newlines included, collapsed to a single space.
func Normalize(pages []types.Page) string {
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		parts = append(parts, p.Text)
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// Split chunks text into segments of at most limit runes, preferring
// paragraph breaks, then sentence breaks, then spaces. Words are kept
// whole except when a single word is itself longer than limit, in which
// case it is cut at the limit. Chunks that are empty after trimming are
// dropped and the result is indexed densely from 0.
//
// Split is a pure function: the same text and limit always produce the
// same segments. A non-positive limit yields no segments.
func Split(text string, limit int) []types.Segment {
	if limit <= 0 {
		return nil
	}

	var segs []types.Segment
	add := func(chunk string) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			return
		}
		segs = append(segs, types.Segment{Index: len(segs), Text: chunk})
	}

	for _, para := range strings.Split(text, "\n\n") {
		var cur strings.Builder
		curLen := 0
		for _, piece := range pieces(para, limit) {
			n := utf8.RuneCountInString(piece)
			switch {
			case curLen == 0:
				cur.WriteString(piece)
				curLen = n
			case curLen+1+n <= limit:
				cur.WriteByte(' ')
				cur.WriteString(piece)
				curLen += 1 + n
			default:
				add(cur.String())
				cur.Reset()
				cur.WriteString(piece)
				curLen = n
			}
		}
		add(cur.String())
	}
	return segs
}

// pieces cuts para into spans that each fit within limit: whole
// sentences where possible, single words otherwise, rune-cut words as a
// last resort.
func pieces(para string, limit int) []string {
	var out []string
	for _, sentence := range splitSentences(para) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		if utf8.RuneCountInString(sentence) <= limit {
			out = append(out, sentence)
			continue
		}
		for _, word := range strings.Fields(sentence) {
			for utf8.RuneCountInString(word) > limit {
				r := []rune(word)
				out = append(out, string(r[:limit]))
				word = string(r[limit:])
			}
			out = append(out, word)
		}
	}
	return out
}

// splitSentences cuts text after runs of sentence-ending punctuation
// followed by whitespace. The terminators stay with their sentence.
// Periods inside a word, as in "3.14" or "v1.2.0", do not end a
// sentence.
func splitSentences(text string) []string {
	runes := []rune(text)
	var out []string
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) {
			continue
		}
		for i+1 < len(runes) && isTerminator(runes[i+1]) {
			i++
		}
		if i+1 >= len(runes) || unicode.IsSpace(runes[i+1]) {
			out = append(out, string(runes[start:i+1]))
			start = i + 1
		}
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
