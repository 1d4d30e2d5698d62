package pdf

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Content acumula los operadores de dibujo de una página. Las coordenadas
// son las nativas de PDF: origen abajo a la izquierda.
type Content struct {
	buf bytes.Buffer
}

// NewContent crea un stream de contenido vacío
func NewContent() *Content {
	return &Content{}
}

// Bytes retorna los operadores acumulados
func (c *Content) Bytes() []byte {
	return c.buf.Bytes()
}

// Len retorna el largo en bytes del stream
func (c *Content) Len() int {
	return c.buf.Len()
}

// FillColor fija el color de relleno RGB (0-255)
func (c *Content) FillColor(r, g, b uint8) {
	fmt.Fprintf(&c.buf, "%s %s %s rg\n", channel(r), channel(g), channel(b))
}

// StrokeColor fija el color de trazo RGB (0-255)
func (c *Content) StrokeColor(r, g, b uint8) {
	fmt.Fprintf(&c.buf, "%s %s %s RG\n", channel(r), channel(g), channel(b))
}

// Rect rellena un rectángulo
func (c *Content) Rect(x, y, width, height float64) {
	fmt.Fprintf(&c.buf, "%s %s %s %s re f\n", num(x), num(y), num(width), num(height))
}

// Line traza una línea recta
func (c *Content) Line(x1, y1, x2, y2, lineWidth float64) {
	fmt.Fprintf(&c.buf, "%s w %s %s m %s %s l S\n", num(lineWidth), num(x1), num(y1), num(x2), num(y2))
}

// Text escribe s con la línea base en (x, y)
func (c *Content) Text(font Font, size, x, y float64, s string) {
	fmt.Fprintf(&c.buf, "BT /%s %s Tf %s %s Td (%s) Tj ET\n", font.Name, num(size), num(x), num(y), Escape(s))
}

// TextRight escribe s terminando en x
func (c *Content) TextRight(font Font, size, x, y float64, s string) {
	c.Text(font, size, x-TextWidth(font, size, s), y, s)
}

// Escape codifica s en WinAnsi y escapa los caracteres reservados de un
// string literal: barra invertida y paréntesis. Los caracteres sin
// representación se reemplazan por '?' y los de control por espacios.
func Escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
			continue
		case '(':
			b.WriteString(`\(`)
			continue
		case ')':
			b.WriteString(`\)`)
			continue
		}
		if r < 0x20 || r == 0x7f {
			b.WriteByte(' ')
			continue
		}
		if enc, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteByte(enc)
		} else {
			b.WriteByte('?')
		}
	}
	return b.String()
}

// num formatea un número sin ceros sobrantes
func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

func channel(v uint8) string {
	return strconv.FormatFloat(float64(v)/255, 'f', 3, 64)
}
