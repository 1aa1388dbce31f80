package render

import (
	"golang.org/x/text/unicode/bidi"
)

// HasRTL reports whether text contains right-to-left script characters
// (Hebrew, Arabic, Syriac, and their presentation-form blocks).
func HasRTL(text string) bool {
	for _, r := range text {
		if (r >= 0x0590 && r <= 0x08FF) || (r >= 0xFB1D && r <= 0xFEFF) {
			return true
		}
	}
	return false
}

// bidiRun is one directional segment of a line. Text stays in logical rune
// order; runs are returned left to right in display order.
type bidiRun struct {
	text string
	rtl  bool
}

// bidiRuns splits a logical line into directional runs using the Unicode
// bidi algorithm. Lines without RTL characters come back as a single run.
func bidiRuns(line string) []bidiRun {
	if !HasRTL(line) {
		return []bidiRun{{text: line}}
	}
	var p bidi.Paragraph
	p.SetString(line)
	ordering, err := p.Order()
	if err != nil {
		return []bidiRun{{text: line}}
	}
	runs := make([]bidiRun, 0, ordering.NumRuns())
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		runs = append(runs, bidiRun{
			text: run.String(),
			rtl:  run.Direction() == bidi.RightToLeft,
		})
	}
	return runs
}

// visualOrder reorders one logical line into visual order. It is the
// fallback used when no embeddable font is available and the PDF core font
// must draw the raw characters left to right.
func visualOrder(line string) string {
	if !HasRTL(line) {
		return line
	}
	var out []byte
	for _, run := range bidiRuns(line) {
		s := run.text
		if run.rtl {
			s = bidi.ReverseString(s)
		}
		out = append(out, s...)
	}
	return string(out)
}
