package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Page geometry and type scale for the referral layout (A4 portrait,
// points). Coordinates follow PDF convention: origin bottom-left, y grows
// upward.
const (
	pageWidth  = 595.28
	pageHeight = 841.89

	marginX      = 50.0
	topStart     = pageHeight - 60
	bottomMargin = 60.0

	titleSize = 16.0
	h1Size    = 12.0
	bodySize  = 11.0

	lineHeight    = 14.0
	ruleWidth     = 1.0
	ruleGapBefore = 10.0
	ruleGapAfter  = 16.0
	headingGap    = 8.0
	sectionGap    = 22.0
	bulletIndent  = 14.0

	wrapBody    = 100
	wrapBullets = 96
)

// pdfFont is one of the two faces available to the layout: an embedded
// TrueType font drawn as Identity-H glyph strings, or the built-in
// Helvetica core font when no TTF could be loaded.
type pdfFont struct {
	res string // content-stream resource name, e.g. "F1"
	ttf *TTF   // nil selects the Helvetica fallback
}

// pdfDoc lays out referral pages top to bottom and assembles the final
// document. Draw methods record the first failure and become no-ops after
// it; Bytes reports it.
type pdfDoc struct {
	title   string
	clinic  pdfFont
	patient pdfFont
	now     time.Time

	pages []*bytes.Buffer
	buf   *bytes.Buffer
	y     float64
	err   error
}

func newPDF(title string, clinic, patient *TTF, now time.Time) *pdfDoc {
	d := &pdfDoc{
		title:   title,
		clinic:  pdfFont{res: "F1", ttf: clinic},
		patient: pdfFont{res: "F2", ttf: patient},
		now:     now,
	}
	d.newPage()
	return d
}

func (d *pdfDoc) newPage() {
	d.buf = &bytes.Buffer{}
	d.pages = append(d.pages, d.buf)
	d.y = topStart
}

// ensureSpace breaks to a fresh page, header included, when fewer than min
// points remain above the bottom margin.
func (d *pdfDoc) ensureSpace(min float64) {
	if d.y < bottomMargin+min {
		d.newPage()
		d.header()
	}
}

func (d *pdfDoc) header() {
	d.y = topStart
	d.drawCentered(d.clinic, titleSize, d.title)
	d.y -= 16
	d.drawCentered(d.clinic, 10, "Generated "+d.now.Format("2006-01-02"))
	d.y -= 8
	d.rule()
}

func (d *pdfDoc) rule() {
	d.y -= ruleGapBefore
	fmt.Fprintf(d.buf, "%s w %s %s m %s %s l S\n",
		num(ruleWidth), num(marginX), num(d.y), num(pageWidth-marginX), num(d.y))
	d.y -= ruleGapAfter
}

func (d *pdfDoc) heading(text string, f pdfFont) {
	if strings.Contains(text, "Key Risks") {
		d.y -= sectionGap
	}
	d.ensureSpace(h1Size + headingGap + lineHeight)
	d.drawText(f, h1Size, marginX, d.y, text)
	d.y -= h1Size + headingGap
}

func (d *pdfDoc) paragraph(text string, f pdfFont) {
	d.ensureSpace(lineHeight)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		for _, seg := range wrapLine(line, wrapBody) {
			d.drawText(f, bodySize, marginX, d.y, seg)
			d.y -= lineHeight
			d.ensureSpace(lineHeight)
		}
	}
	d.y -= 4
}

func (d *pdfDoc) bullets(items []string, f pdfFont) {
	for _, item := range items {
		segs := wrapLine(item, wrapBullets)
		d.ensureSpace(lineHeight)
		d.drawText(f, bodySize, marginX, d.y, "• "+segs[0])
		d.y -= lineHeight
		for _, cont := range segs[1:] {
			d.ensureSpace(lineHeight)
			d.drawText(f, bodySize, marginX+bulletIndent, d.y, cont)
			d.y -= lineHeight
		}
		d.y -= 4
	}
}

// drawText draws one line at the given baseline. Embedded fonts go through
// HarfBuzz shaping into an Identity-H glyph string; the core fallback draws
// Latin-1 bytes after bidi reordering.
func (d *pdfDoc) drawText(f pdfFont, size, x, y float64, text string) {
	if d.err != nil {
		return
	}
	if f.ttf != nil {
		shaped, err := shapeLine(f.ttf.Data, text)
		if err != nil {
			d.err = err
			return
		}
		fmt.Fprintf(d.buf, "BT /%s %s Tf %s %s Td <", f.res, num(size), num(x), num(y))
		for _, gid := range shaped.GlyphIDs {
			fmt.Fprintf(d.buf, "%04X", gid)
		}
		d.buf.WriteString("> Tj ET\n")
		return
	}
	fmt.Fprintf(d.buf, "BT /%s %s Tf %s %s Td (%s) Tj ET\n",
		f.res, num(size), num(x), num(y), escapeText(encodeCoreText(visualOrder(text))))
}

func (d *pdfDoc) drawCentered(f pdfFont, size float64, text string) {
	x := (pageWidth - d.textWidth(f, size, text)) / 2
	d.drawText(f, size, x, d.y, text)
}

// textWidth measures a line in points. The core fallback has no metrics on
// hand, so it uses a rough average Helvetica glyph width.
func (d *pdfDoc) textWidth(f pdfFont, size float64, text string) float64 {
	if f.ttf != nil {
		shaped, err := shapeLine(f.ttf.Data, text)
		if err == nil {
			return shaped.Width / 1000 * size
		}
	}
	return 0.5 * size * float64(utf8.RuneCountInString(text))
}

// wrapLine greedily wraps a line at width runes, keeping long words whole.
// Empty lines come back as a single empty segment so they still advance the
// cursor.
func wrapLine(line string, width int) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{""}
	}
	var (
		segs   []string
		cur    strings.Builder
		curLen int
	)
	for _, w := range words {
		wlen := utf8.RuneCountInString(w)
		switch {
		case curLen == 0:
			cur.WriteString(w)
			curLen = wlen
		case curLen+1+wlen <= width:
			cur.WriteByte(' ')
			cur.WriteString(w)
			curLen += 1 + wlen
		default:
			segs = append(segs, cur.String())
			cur.Reset()
			cur.WriteString(w)
			curLen = wlen
		}
	}
	return append(segs, cur.String())
}

// Bytes assembles the document: catalog, page tree, pages and content
// streams, the two font objects, info dictionary, then xref and trailer.
func (d *pdfDoc) Bytes() ([]byte, error) {
	if d.err != nil {
		return nil, d.err
	}

	n := len(d.pages)
	fontBase := 3 + 2*n
	clinicID := fontBase
	patientID := fontBase + fontObjCount(d.clinic)
	infoID := patientID + fontObjCount(d.patient)

	var buf bytes.Buffer
	write := func(s string) { buf.WriteString(s) }
	offsets := make([]int, 0, infoID)
	xref := func() { offsets = append(offsets, buf.Len()) }

	write("%PDF-1.4\n")

	// Catalog
	xref()
	write("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	// Pages
	xref()
	write(fmt.Sprintf("2 0 obj\n<< /Type /Pages /Count %d /Kids [", n))
	for i := 0; i < n; i++ {
		write(fmt.Sprintf(" %d 0 R", 3+i))
	}
	write(" ] >>\nendobj\n")

	// Page objects
	for i := 0; i < n; i++ {
		xref()
		write(fmt.Sprintf("%d 0 obj\n", 3+i))
		write(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %s %s] ", num(pageWidth), num(pageHeight)))
		write(fmt.Sprintf("/Resources << /Font << /F1 %d 0 R /F2 %d 0 R >> >> ", clinicID, patientID))
		write(fmt.Sprintf("/Contents %d 0 R >>\nendobj\n", 3+n+i))
	}

	// Content streams
	for i, page := range d.pages {
		xref()
		write(fmt.Sprintf("%d 0 obj\n<< /Length %d >>\nstream\n", 3+n+i, page.Len()))
		_, _ = buf.Write(page.Bytes())
		write("endstream\nendobj\n")
	}

	writeFont(&buf, xref, clinicID, d.clinic)
	writeFont(&buf, xref, patientID, d.patient)

	// Info
	xref()
	write(fmt.Sprintf("%d 0 obj\n<< /Title (%s) >>\nendobj\n", infoID, escapeText(encodeCoreText(d.title))))

	// XRef
	xrefStart := buf.Len()
	write("xref\n")
	write(fmt.Sprintf("0 %d\n", len(offsets)+1))
	write("0000000000 65535 f \n")
	for _, off := range offsets {
		write(fmt.Sprintf("%010d 00000 n \n", off))
	}
	write("trailer\n")
	write(fmt.Sprintf("<< /Size %d /Root 1 0 R /Info %d 0 R >>\n", len(offsets)+1, infoID))
	write("startxref\n")
	write(fmt.Sprintf("%d\n", xrefStart))
	write("%%EOF\n")

	return buf.Bytes(), nil
}

// fontObjCount is the number of PDF objects a font slot occupies: one for
// the core fallback, four for an embedded font (Type0, CIDFont, descriptor,
// font file).
func fontObjCount(f pdfFont) int {
	if f.ttf == nil {
		return 1
	}
	return 4
}

func writeFont(buf *bytes.Buffer, xref func(), id int, f pdfFont) {
	write := func(s string) { buf.WriteString(s) }

	if f.ttf == nil {
		xref()
		write(fmt.Sprintf("%d 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>\nendobj\n", id))
		return
	}

	t := f.ttf
	name := pdfName(t.Name)
	cidID, descID, fileID := id+1, id+2, id+3

	// Type0 wrapper
	xref()
	write(fmt.Sprintf("%d 0 obj\n<< /Type /Font /Subtype /Type0 /BaseFont /%s /Encoding /Identity-H /DescendantFonts [%d 0 R] >>\nendobj\n",
		id, name, cidID))

	// CIDFontType2 with the full width array
	xref()
	write(fmt.Sprintf("%d 0 obj\n<< /Type /Font /Subtype /CIDFontType2 /BaseFont /%s ", cidID, name))
	write("/CIDSystemInfo << /Registry (Adobe) /Ordering (Identity) /Supplement 0 >> ")
	write(fmt.Sprintf("/FontDescriptor %d 0 R /DW %d /CIDToGIDMap /Identity /W [0 [", descID, t.DefaultWidth))
	for i, w := range t.Widths {
		if i > 0 && i%20 == 0 {
			write("\n")
		}
		write(fmt.Sprintf(" %d", w))
	}
	write(" ]] >>\nendobj\n")

	// FontDescriptor
	xref()
	write(fmt.Sprintf("%d 0 obj\n<< /Type /FontDescriptor /FontName /%s /Flags 4 ", descID, name))
	write(fmt.Sprintf("/FontBBox [%s %s %s %s] /ItalicAngle %s ",
		num(t.BBox[0]), num(t.BBox[1]), num(t.BBox[2]), num(t.BBox[3]), num(t.ItalicAngle)))
	write(fmt.Sprintf("/Ascent %s /Descent %s /CapHeight %s /StemV 80 /FontFile2 %d 0 R >>\nendobj\n",
		num(t.Ascent), num(t.Descent), num(t.CapHeight), fileID))

	// FontFile2 stream
	xref()
	write(fmt.Sprintf("%d 0 obj\n<< /Length %d /Length1 %d >>\nstream\n", fileID, len(t.Data), len(t.Data)))
	_, _ = buf.Write(t.Data)
	write("\nendstream\nendobj\n")
}

// num renders a coordinate with at most two decimals and no trailing zeros.
func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

// pdfName strips characters that are not valid in a PDF name object.
func pdfName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '!' && r <= '~' && !strings.ContainsRune("()<>[]{}/%#", r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "EmbeddedTT"
	}
	return b.String()
}

// escapeText escapes backslashes and parentheses in a PDF literal string.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "(", `\(`)
	s = strings.ReplaceAll(s, ")", `\)`)
	return s
}

// encodeCoreText downgrades text to Latin-1 for the core-font fallback;
// anything outside renders as '?'.
func encodeCoreText(s string) string {
	var b []byte
	for _, r := range s {
		switch {
		case r < 0x80:
			b = append(b, byte(r))
		case r >= 0xA0 && r <= 0xFF:
			b = append(b, byte(r))
		default:
			b = append(b, '?')
		}
	}
	return string(b)
}
