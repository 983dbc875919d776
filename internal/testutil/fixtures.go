// Package testutil provides shared fixtures for backend tests.
package testutil

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
)

// TB is the subset of *testing.T the fixture builders need. Declared here so
// the package does not import "testing" outside of test binaries.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

// DocxBytes returns an in-memory DOCX archive whose document body contains
// one paragraph per argument, each as a single text run.
func DocxBytes(t TB, paragraphs ...string) []byte {
	t.Helper()

	var body strings.Builder
	for _, p := range paragraphs {
		fmt.Fprintf(&body, "<w:p><w:r><w:t>%s</w:t></w:r></w:p>", p)
	}
	doc := `<?xml version="1.0" encoding="UTF-8"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:body>` + body.String() + `</w:body></w:document>`
	return DocxFromXML(t, doc)
}

// DocxFromXML wraps a raw word/document.xml payload in a minimal DOCX
// archive, for tests that need full control over the markup.
func DocxFromXML(t TB, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create document.xml: %v", err)
	}
	if _, err := f.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write document.xml: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close docx archive: %v", err)
	}
	return buf.Bytes()
}
