package pdf

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePage(t *testing.T) []byte {
	t.Helper()
	c := NewContent()
	c.FillColor(12, 35, 64)
	c.Rect(0, 780, A4Width, 61.89)
	c.Text(HelveticaBold, 20, 40, 800, "INVOICE")
	c.Text(Helvetica, 10, 40, 700, "Café (draft) \\ total")
	doc, err := SinglePage(A4Width, A4Height, c, Helvetica, HelveticaBold)
	require.NoError(t, err)
	return doc
}

func TestSinglePageHeaderAndTrailer(t *testing.T) {
	doc := samplePage(t)

	assert.Equal(t, "%PDF-1.4", string(doc[:8]))
	assert.True(t, bytes.HasSuffix(doc, []byte("%%EOF")))
	assert.Contains(t, string(doc), "trailer\n<< /Size 7 /Root 1 0 R >>")
	assert.Contains(t, string(doc), "1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>")
	assert.Contains(t, string(doc), "/BaseFont /Helvetica ")
	assert.Contains(t, string(doc), "/BaseFont /Helvetica-Bold ")
}

func TestStreamLengthMatchesData(t *testing.T) {
	doc := samplePage(t)

	m := regexp.MustCompile(`<< /Length (\d+) >>\nstream\n`).FindSubmatchIndex(doc)
	require.NotNil(t, m)
	declared, err := strconv.Atoi(string(doc[m[2]:m[3]]))
	require.NoError(t, err)

	start := m[1]
	end := bytes.Index(doc[start:], []byte("\nendstream"))
	require.GreaterOrEqual(t, end, 0)
	assert.Equal(t, declared, end)
}

func TestXrefOffsetsPointAtObjects(t *testing.T) {
	doc := samplePage(t)

	startxref := regexp.MustCompile(`startxref\n(\d+)\n%%EOF$`).FindSubmatch(doc)
	require.NotNil(t, startxref)
	xrefAt, err := strconv.Atoi(string(startxref[1]))
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(doc[xrefAt:], []byte("xref\n0 7\n")))

	entries := regexp.MustCompile(`(\d{10}) 00000 n \n`).FindAllSubmatch(doc[xrefAt:], -1)
	require.Len(t, entries, 6)
	for i, e := range entries {
		off, err := strconv.Atoi(string(e[1]))
		require.NoError(t, err)
		want := fmt.Sprintf("%d 0 obj\n", i+1)
		assert.Equal(t, want, string(doc[off:off+len(want)]), "object %d", i+1)
	}
}

func TestBytesFailsOnUnsetObject(t *testing.T) {
	w := NewWriter()
	root := w.Reserve()
	_, err := w.Bytes(root)
	assert.Error(t, err)
}

func TestEscape(t *testing.T) {
	assert.Equal(t, `Smith \(Jr.\) \\ Co`, Escape(`Smith (Jr.) \ Co`))
	assert.Equal(t, "a b", Escape("a\nb"))
	assert.Equal(t, "\xe9", Escape("é"))
	assert.Equal(t, "?", Escape("→"))
}

func TestTextWidthAndTruncate(t *testing.T) {
	assert.InDelta(t, 5.56, TextWidth(Helvetica, 10, "0"), 0.001)
	assert.InDelta(t, 6.11, TextWidth(HelveticaBold, 10, "b"), 0.001)

	long := "a-very-long-document-name-that-does-not-fit.docx"
	short := Truncate(Helvetica, 9, 80, long)
	assert.LessOrEqual(t, TextWidth(Helvetica, 9, short), 80.0)
	assert.Contains(t, short, "...")
	assert.Equal(t, "fits.pdf", Truncate(Helvetica, 9, 80, "fits.pdf"))
}

func TestNum(t *testing.T) {
	assert.Equal(t, "595.28", num(595.28))
	assert.Equal(t, "40", num(40))
	assert.Equal(t, "0.5", num(0.5))
	assert.Equal(t, "0", num(-0.001))
}

func TestWrap(t *testing.T) {
	lines := Wrap(Helvetica, 10, 100, "Certified translation of birth certificate and marriage record for IRCC")
	require.Greater(t, len(lines), 1)
	for _, l := range lines {
		assert.LessOrEqual(t, TextWidth(Helvetica, 10, l), 100.0)
	}
	assert.Empty(t, Wrap(Helvetica, 10, 100, "   "))
}
