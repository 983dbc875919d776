package docparse

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"paceup/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_UnsupportedFormat(t *testing.T) {
	t.Parallel()
	_, err := Parse("notes.txt", []byte("hello"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Parse("photo.PNG", nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParse_Docx(t *testing.T) {
	t.Parallel()
	doc := testutil.DocxFromXML(t, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Training plan</w:t></w:r></w:p>
    <w:p><w:r><w:t>Week 1: </w:t></w:r><w:r><w:t>easy 5k &amp; strides</w:t></w:r></w:p>
    <w:p></w:p>
  </w:body>
</w:document>`)

	result, err := Parse("plan.docx", doc)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Paragraphs)
	assert.Contains(t, result.HTML, "<p>Training plan</p>")
	// Runs in a paragraph are joined, and HTML is escaped.
	assert.Contains(t, result.HTML, "<p>Week 1: easy 5k &amp; strides</p>")
	assert.True(t, strings.HasPrefix(result.HTML, "<article>"))
}

func TestParse_DocxWithoutText(t *testing.T) {
	t.Parallel()
	doc := testutil.DocxFromXML(t, `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body></w:body></w:document>`)
	_, err := Parse("empty.docx", doc)
	require.Error(t, err)
}

func TestParse_DocxMissingDocumentXML(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	_, err := w.Create("word/styles.xml")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = Parse("broken.docx", buf.Bytes())
	require.Error(t, err)
}

func TestParse_CorruptPDF(t *testing.T) {
	t.Parallel()
	_, err := Parse("bad.pdf", []byte("not a pdf at all"))
	require.Error(t, err)
}

func TestRenderEscapesHTML(t *testing.T) {
	t.Parallel()
	result := render([]string{`<script>alert("x")</script>`})
	assert.NotContains(t, result.HTML, "<script>")
	assert.Contains(t, result.HTML, "&lt;script&gt;")
}
