package extract

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/pdfspeech/pkg/types"
)

// buildPDF writes a minimal PDF with one line of text per page and
// returns its path. Pages with an empty string get an empty content
// stream, which is how a scanned page with no text layer reads.
func buildPDF(t *testing.T, pageTexts []string) string {
	t.Helper()
	return writeFixture(t, pdfBytes(pageTexts, ""))
}

// buildEncryptedPDF writes a PDF whose trailer references a standard
// security handler with junk key material, so any password check fails.
func buildEncryptedPDF(t *testing.T) string {
	t.Helper()
	junk := strings.Repeat("x", 32)
	encrypt := fmt.Sprintf("<< /Filter /Standard /V 1 /R 2 /O (%s) /U (%s) /P -44 >>", junk, junk)
	return writeFixture(t, pdfBytes([]string{"Secret text."}, encrypt))
}

func writeFixture(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

// pdfBytes assembles the cross-reference table by hand so the fixture is
// a structurally valid PDF, not an approximation.
func pdfBytes(pageTexts []string, encryptDict string) []byte {
	var buf bytes.Buffer
	offsets := []int{0}
	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets)-1, body)
	}

	buf.WriteString("%PDF-1.4\n")

	kids := make([]string, len(pageTexts))
	for i := range pageTexts {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	writeObj("<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>",
		strings.Join(kids, " "), len(pageTexts)))
	writeObj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	for i, text := range pageTexts {
		content := ""
		if text != "" {
			content = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		}
		writeObj(fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			5+2*i))
		writeObj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	encryptRef := ""
	if encryptDict != "" {
		writeObj(encryptDict)
		encryptRef = fmt.Sprintf(" /Encrypt %d 0 R /ID [<4142434445464748> <4142434445464748>]", len(offsets)-1)
	}

	xrefOff := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets))
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets[1:] {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R%s >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets), encryptRef, xrefOff)

	return buf.Bytes()
}

// --- Extract: happy paths ---

func TestExtractSinglePage(t *testing.T) {
	path := buildPDF(t, []string{"Hello world from page one."})

	doc, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if doc.Path != path {
		t.Errorf("Path = %q, want %q", doc.Path, path)
	}
	if len(doc.Pages) != 1 {
		t.Fatalf("len(Pages) = %d, want 1", len(doc.Pages))
	}
	if doc.Pages[0].Number != 1 {
		t.Errorf("page number = %d, want 1", doc.Pages[0].Number)
	}
	if !strings.Contains(doc.Pages[0].Text, "Hello world from page one") {
		t.Errorf("page text = %q, should contain the fixture text", doc.Pages[0].Text)
	}
}

func TestExtractPreservesPageOrder(t *testing.T) {
	path := buildPDF(t, []string{
		"First page text.",
		"Second page text.",
		"Third page text.",
	})

	doc, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(doc.Pages) != 3 {
		t.Fatalf("len(Pages) = %d, want 3", len(doc.Pages))
	}
	wantWords := []string{"First", "Second", "Third"}
	for i, page := range doc.Pages {
		if page.Number != i+1 {
			t.Errorf("Pages[%d].Number = %d, want %d", i, page.Number, i+1)
		}
		if !strings.Contains(page.Text, wantWords[i]) {
			t.Errorf("Pages[%d].Text = %q, should contain %q", i, page.Text, wantWords[i])
		}
	}
}

func TestExtractSkipsBlankPages(t *testing.T) {
	path := buildPDF(t, []string{"Real content here.", "", "More content."})

	doc, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(doc.Pages) != 2 {
		t.Fatalf("len(Pages) = %d, want 2", len(doc.Pages))
	}
	// Original page numbers survive the skip.
	if doc.Pages[0].Number != 1 || doc.Pages[1].Number != 3 {
		t.Errorf("page numbers = %d, %d, want 1, 3", doc.Pages[0].Number, doc.Pages[1].Number)
	}
}

// --- Extract: failure paths ---

func TestExtractFailures(t *testing.T) {
	tests := []struct {
		name       string
		path       func(t *testing.T) string
		wantSubstr string
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "nope.pdf")
			},
		},
		{
			name: "not a PDF",
			path: func(t *testing.T) string {
				p := filepath.Join(t.TempDir(), "notes.pdf")
				if err := os.WriteFile(p, []byte("just some plain text\n"), 0o644); err != nil {
					t.Fatal(err)
				}
				return p
			},
			wantSubstr: "not a PDF",
		},
		{
			name: "corrupt PDF",
			path: func(t *testing.T) string {
				p := filepath.Join(t.TempDir(), "broken.pdf")
				if err := os.WriteFile(p, []byte("%PDF-1.4\ngarbage with no xref table"), 0o644); err != nil {
					t.Fatal(err)
				}
				return p
			},
		},
		{
			name: "password protected",
			path: buildEncryptedPDF,
		},
		{
			name: "no extractable text",
			path: func(t *testing.T) string {
				return buildPDF(t, []string{"", ""})
			},
			wantSubstr: "no extractable text",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.path(t))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if kind := types.KindOf(err); kind != types.ExtractionError {
				t.Errorf("error kind = %q, want %q", kind, types.ExtractionError)
			}
			if tt.wantSubstr != "" && !strings.Contains(err.Error(), tt.wantSubstr) {
				t.Errorf("error = %q, should contain %q", err.Error(), tt.wantSubstr)
			}
		})
	}
}
