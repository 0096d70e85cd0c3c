// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Page holds the extracted text of one PDF page.
type Page struct {
	// Number is the 1-based page number in the source document.
	Number int `json:"number" yaml:"number"`

	// Text is the page text with surrounding whitespace trimmed.
	Text string `json:"text" yaml:"text"`
}

// Document is the extraction result for one input PDF: the pages that
// carry text, in reading order. Pages that extract to nothing are not
// represented.
type Document struct {
	// Path is the local filesystem path the document was read from.
	Path string `json:"path" yaml:"path"`

	// Pages lists the non-empty pages in reading order.
	Pages []Page `json:"pages" yaml:"pages"`
}

// Segment is one bounded chunk of text sized for a single synthesis
// request. Indexes are dense and start at 0.
type Segment struct {
	// Index is the position of the segment in reading order.
	Index int `json:"index" yaml:"index"`

	// Text is the segment text.
	Text string `json:"text" yaml:"text"`
}

// FragmentFormat identifies the container format of synthesized audio.
type FragmentFormat string

const (
	FormatMP3 FragmentFormat = "mp3"
	FormatWAV FragmentFormat = "wav"
)

// Fragment holds the audio produced for one segment. The fragment at
// index n always corresponds to the segment at index n.
type Fragment struct {
	// Index matches the index of the segment this audio was produced from.
	Index int

	// Format is the container format of Data.
	Format FragmentFormat

	// Data is the raw audio bytes.
	Data []byte
}
