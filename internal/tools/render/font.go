package render

import (
	"fmt"
	"math"
	"os"
	"strings"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// TTF is a parsed TrueType font together with the metrics needed to embed
// it in a PDF as a Type0 / Identity-H font with a FontFile2 stream. The
// full font is embedded; no subsetting.
type TTF struct {
	Name         string
	Data         []byte
	Widths       []int // glyph ID -> advance width in 1/1000 em
	DefaultWidth int
	Ascent       float64
	Descent      float64
	CapHeight    float64
	ItalicAngle  float64
	BBox         [4]float64
}

// LoadTTF reads and parses a TrueType font file.
func LoadTTF(path string) (*TTF, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	return ParseTTF(path, data)
}

// ParseTTF parses raw TrueType font data. The name is a fallback used when
// the font carries no PostScript name.
func ParseTTF(name string, data []byte) (*TTF, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("font data is empty")
	}
	font, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse truetype: %w", err)
	}
	unitsPerEm := font.UnitsPerEm()
	if unitsPerEm == 0 {
		return nil, fmt.Errorf("invalid unitsPerEm")
	}
	buf := &sfnt.Buffer{}
	ppem := fixed.Int26_6(unitsPerEm << 6)

	baseName := strings.TrimSpace(name)
	if ps, _ := font.Name(buf, sfnt.NameIDPostScript); len(ps) > 0 {
		baseName = ps
	}
	if baseName == "" {
		baseName = "EmbeddedTT"
	}

	widths := glyphWidths(font, buf, unitsPerEm, ppem)
	defaultWidth := 1000
	if len(widths) > 0 && widths[0] != 0 {
		defaultWidth = widths[0]
	}

	metrics, _ := font.Metrics(buf, ppem, xfont.HintingNone)
	bounds, _ := font.Bounds(buf, ppem, xfont.HintingNone)

	return &TTF{
		Name:         baseName,
		Data:         data,
		Widths:       widths,
		DefaultWidth: defaultWidth,
		Ascent:       scaleFixed(metrics.Ascent, unitsPerEm),
		Descent:      scaleFixed(metrics.Descent, unitsPerEm),
		CapHeight:    scaleFixed(metrics.Ascent, unitsPerEm),
		ItalicAngle:  italicAngle(font),
		BBox: [4]float64{
			scaleFixed(bounds.Min.X, unitsPerEm),
			scaleFixed(bounds.Min.Y, unitsPerEm),
			scaleFixed(bounds.Max.X, unitsPerEm),
			scaleFixed(bounds.Max.Y, unitsPerEm),
		},
	}, nil
}

func glyphWidths(font *sfnt.Font, buf *sfnt.Buffer, unitsPerEm sfnt.Units, ppem fixed.Int26_6) []int {
	glyphs := font.NumGlyphs()
	widths := make([]int, glyphs)
	for i := 0; i < glyphs; i++ {
		adv, err := font.GlyphAdvance(buf, sfnt.GlyphIndex(i), ppem, xfont.HintingNone)
		if err != nil {
			continue
		}
		widths[i] = int(math.Round(scaleFixed(adv, unitsPerEm)))
	}
	return widths
}

func italicAngle(font *sfnt.Font) float64 {
	post := font.PostTable()
	if post == nil {
		return 0
	}
	return post.ItalicAngle
}

// scaleFixed converts a 26.6 fixed-point value at unitsPerEm ppem into
// 1/1000 em text-space units.
func scaleFixed(val fixed.Int26_6, unitsPerEm sfnt.Units) float64 {
	return float64(val) * 1000.0 / (64.0 * float64(unitsPerEm))
}
