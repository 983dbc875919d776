// Package docparse extracts text from uploaded PDF and DOCX files and
// renders it as simple HTML for in-browser preview.
package docparse

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrUnsupportedFormat is returned for extensions other than .pdf and .docx.
var ErrUnsupportedFormat = fmt.Errorf("unsupported document format")

// Result holds the extracted document content.
type Result struct {
	HTML       string
	Paragraphs int
}

// Parse dispatches on the file extension. The caller is responsible for
// enforcing size limits before handing the bytes over.
func Parse(filename string, data []byte) (*Result, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return parsePDF(data)
	case ".docx":
		return parseDOCX(data)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func parsePDF(data []byte) (*Result, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("reading pdf: %w", err)
	}

	var paragraphs []string
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Pages with broken content streams are skipped rather than
			// failing the whole document.
			continue
		}
		for _, line := range strings.Split(text, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				paragraphs = append(paragraphs, line)
			}
		}
	}
	if len(paragraphs) == 0 {
		return nil, fmt.Errorf("pdf contains no extractable text")
	}
	return render(paragraphs), nil
}

func parseDOCX(data []byte) (*Result, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("reading docx archive: %w", err)
	}

	var docXML []byte
	for _, f := range archive.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening document.xml: %w", err)
		}
		docXML, err = io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading document.xml: %w", err)
		}
		break
	}
	if docXML == nil {
		return nil, fmt.Errorf("docx has no word/document.xml")
	}

	paragraphs, err := extractDocxParagraphs(docXML)
	if err != nil {
		return nil, err
	}
	if len(paragraphs) == 0 {
		return nil, fmt.Errorf("docx contains no extractable text")
	}
	return render(paragraphs), nil
}

// extractDocxParagraphs walks document.xml with a streaming decoder, joining
// the <w:t> runs inside each <w:p> paragraph.
func extractDocxParagraphs(docXML []byte) ([]string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(docXML))

	var paragraphs []string
	var current strings.Builder
	inText := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if text := strings.TrimSpace(current.String()); text != "" {
					paragraphs = append(paragraphs, text)
				}
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	if text := strings.TrimSpace(current.String()); text != "" {
		paragraphs = append(paragraphs, text)
	}
	return paragraphs, nil
}

func render(paragraphs []string) *Result {
	var b strings.Builder
	b.WriteString("<article>\n")
	for _, p := range paragraphs {
		b.WriteString("  <p>")
		b.WriteString(html.EscapeString(p))
		b.WriteString("</p>\n")
	}
	b.WriteString("</article>\n")
	return &Result{HTML: b.String(), Paragraphs: len(paragraphs)}
}
