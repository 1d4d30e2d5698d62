// Package pdf escribe documentos PDF 1.4 mínimos sin dependencias de render.
//
// Los objetos se guardan como cuerpos ya serializados y las posiciones de la
// tabla xref se calculan en Bytes a partir de los bytes reales escritos.
package pdf

import (
	"bytes"
	"fmt"
	"strconv"
)

const header = "%PDF-1.4\n%\xe2\xe3\xcf\xd3\n"

// Ref es el número de un objeto indirecto
type Ref int

// String retorna la referencia indirecta "N 0 R"
func (r Ref) String() string {
	return strconv.Itoa(int(r)) + " 0 R"
}

// Writer acumula los objetos de un documento
type Writer struct {
	objects [][]byte
}

// NewWriter crea un documento vacío
func NewWriter() *Writer {
	return &Writer{}
}

// Reserve asigna un número de objeto cuyo cuerpo se define después con Set
func (w *Writer) Reserve() Ref {
	w.objects = append(w.objects, nil)
	return Ref(len(w.objects))
}

// Add agrega un objeto y retorna su referencia
func (w *Writer) Add(body string) Ref {
	ref := w.Reserve()
	w.objects[ref-1] = []byte(body)
	return ref
}

// Set define el cuerpo de un objeto reservado
func (w *Writer) Set(ref Ref, body string) {
	w.objects[ref-1] = []byte(body)
}

// AddStream agrega un stream sin filtros; /Length es el largo exacto de data
func (w *Writer) AddStream(data []byte) Ref {
	var b bytes.Buffer
	fmt.Fprintf(&b, "<< /Length %d >>\nstream\n", len(data))
	b.Write(data)
	b.WriteString("\nendstream")

	ref := w.Reserve()
	w.objects[ref-1] = b.Bytes()
	return ref
}

// Bytes serializa el documento con root como /Root del trailer
func (w *Writer) Bytes(root Ref) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(header)

	offsets := make([]int, len(w.objects))
	for i, body := range w.objects {
		if body == nil {
			return nil, fmt.Errorf("pdf object %d reserved but never set", i+1)
		}
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n", i+1)
		b.Write(body)
		b.WriteString("\nendobj\n")
	}

	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(w.objects)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}

	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root %s >>\n", len(w.objects)+1, root)
	fmt.Fprintf(&b, "startxref\n%d\n%%%%EOF", xref)

	return b.Bytes(), nil
}
