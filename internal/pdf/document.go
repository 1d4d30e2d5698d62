package pdf

import (
	"fmt"
	"strings"
)

// Dimensiones de A4 en puntos
const (
	A4Width  = 595.28
	A4Height = 841.89
)

// Font es una de las fuentes Type1 estándar referenciadas por el contenido
type Font struct {
	Name     string // nombre del recurso, p. ej. F1
	BaseFont string // p. ej. Helvetica-Bold
}

// Fuentes usadas por los documentos de la agencia
var (
	Helvetica     = Font{Name: "F1", BaseFont: "Helvetica"}
	HelveticaBold = Font{Name: "F2", BaseFont: "Helvetica-Bold"}
)

// SinglePage arma el grafo mínimo Catalog -> Pages -> Page -> contenido + fuentes
func SinglePage(width, height float64, content *Content, fonts ...Font) ([]byte, error) {
	w := NewWriter()

	catalog := w.Reserve()
	pages := w.Reserve()
	page := w.Reserve()
	stream := w.AddStream(content.Bytes())

	var resources strings.Builder
	for _, f := range fonts {
		ref := w.Add(fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /%s /Encoding /WinAnsiEncoding >>", f.BaseFont))
		fmt.Fprintf(&resources, " /%s %s", f.Name, ref)
	}

	w.Set(catalog, fmt.Sprintf("<< /Type /Catalog /Pages %s >>", pages))
	w.Set(pages, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count 1 >>", page))
	w.Set(page, fmt.Sprintf(
		"<< /Type /Page /Parent %s /MediaBox [0 0 %s %s] /Resources << /Font <<%s >> >> /Contents %s >>",
		pages, num(width), num(height), resources.String(), stream,
	))

	return w.Bytes(catalog)
}
