package pdf

import "strings"

// Anchos AFM (milésimas de em) de los caracteres 32-126
var helveticaWidths = [95]int{
	278, 278, 355, 556, 556, 889, 667, 191, 333, 333, 389, 584, 278, 333, 278, 278,
	556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 278, 278, 584, 584, 584, 556,
	1015, 667, 667, 722, 722, 667, 611, 778, 722, 278, 500, 667, 556, 833, 722, 778,
	667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 278, 278, 278, 469, 556,
	333, 556, 556, 500, 556, 556, 278, 556, 556, 222, 222, 500, 222, 833, 556, 556,
	556, 556, 333, 500, 278, 556, 500, 722, 500, 500, 500, 334, 260, 334, 584,
}

var helveticaBoldWidths = [95]int{
	278, 333, 474, 556, 556, 889, 722, 238, 333, 333, 389, 584, 278, 333, 278, 278,
	556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 333, 333, 584, 584, 584, 611,
	975, 722, 722, 722, 722, 667, 611, 778, 722, 278, 556, 722, 611, 833, 722, 778,
	667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 333, 278, 333, 584, 556,
	333, 556, 611, 556, 611, 556, 333, 611, 611, 278, 278, 556, 278, 889, 611, 611,
	611, 611, 389, 556, 333, 611, 556, 778, 556, 556, 500, 389, 280, 389, 584,
}

const defaultWidth = 556

// TextWidth retorna el ancho en puntos de s
func TextWidth(font Font, size float64, s string) float64 {
	widths := &helveticaWidths
	if font.BaseFont == HelveticaBold.BaseFont {
		widths = &helveticaBoldWidths
	}

	total := 0
	for _, r := range s {
		if r >= 32 && r <= 126 {
			total += widths[r-32]
		} else {
			total += defaultWidth
		}
	}
	return float64(total) * size / 1000
}

// Truncate acorta s con "..." para que quepa en maxWidth
func Truncate(font Font, size, maxWidth float64, s string) string {
	if TextWidth(font, size, s) <= maxWidth {
		return s
	}

	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "..."
		if TextWidth(font, size, candidate) <= maxWidth {
			return candidate
		}
	}
	return ""
}

// Wrap parte s en líneas de a lo sumo maxWidth, cortando por palabras
func Wrap(font Font, size, maxWidth float64, s string) []string {
	var lines []string
	var current string
	for _, word := range strings.Fields(s) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if TextWidth(font, size, candidate) <= maxWidth {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		current = Truncate(font, size, maxWidth, word)
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
