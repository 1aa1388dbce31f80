package render

import (
	"bytes"
	"fmt"
	"unicode"

	"github.com/go-text/typesetting/di"
	gofont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// shapedLine is the glyph form of one visual line: glyph IDs in left-to-right
// drawing order and the total advance in 1/1000 em units.
type shapedLine struct {
	GlyphIDs []uint16
	Width    float64
}

// shapeLine turns a logical line into positioned glyphs using HarfBuzz
// shaping. The line is split into bidi runs first so mixed-direction text
// (Latin drug names inside Arabic prose) comes out in correct visual order.
func shapeLine(fontData []byte, line string) (shapedLine, error) {
	face, err := gofont.ParseTTF(bytes.NewReader(fontData))
	if err != nil {
		return shapedLine{}, fmt.Errorf("parse font for shaping: %w", err)
	}

	shaper := &shaping.HarfbuzzShaper{}
	var shaped shapedLine
	for _, run := range bidiRuns(line) {
		runes := []rune(run.text)
		if len(runes) == 0 {
			continue
		}
		dir := di.DirectionLTR
		if run.rtl {
			dir = di.DirectionRTL
		}
		// Shaping at size 1000*64 makes the 26.6 fixed-point advances come
		// out in 1/1000 em once divided by 64.
		out := shaper.Shape(shaping.Input{
			Text:      runes,
			RunStart:  0,
			RunEnd:    len(runes),
			Direction: dir,
			Face:      face,
			Size:      fixed.Int26_6(1000 * 64),
			Script:    detectScript(runes),
			Language:  language.DefaultLanguage(),
		})
		for _, g := range out.Glyphs {
			shaped.GlyphIDs = append(shaped.GlyphIDs, uint16(g.GlyphID))
			shaped.Width += float64(g.XAdvance) / 64.0
		}
	}
	return shaped, nil
}

// detectScript picks the dominant script of a run.
func detectScript(runes []rune) language.Script {
	counts := make(map[language.Script]int)
	maxCount := 0
	best := language.Latin
	for _, r := range runes {
		script := scriptFromRune(r)
		if script == language.Unknown {
			continue
		}
		counts[script]++
		if counts[script] > maxCount {
			maxCount = counts[script]
			best = script
		}
	}
	return best
}

func scriptFromRune(r rune) language.Script {
	switch {
	case unicode.Is(unicode.Arabic, r):
		return language.Arabic
	case unicode.Is(unicode.Hebrew, r):
		return language.Hebrew
	case unicode.Is(unicode.Latin, r):
		return language.Latin
	case unicode.Is(unicode.Cyrillic, r):
		return language.Cyrillic
	case unicode.Is(unicode.Greek, r):
		return language.Greek
	case unicode.Is(unicode.Devanagari, r):
		return language.Devanagari
	case unicode.Is(unicode.Bengali, r):
		return language.Bengali
	case unicode.Is(unicode.Thai, r):
		return language.Thai
	case unicode.Is(unicode.Han, r):
		return language.Han
	case unicode.Is(unicode.Hiragana, r):
		return language.Hiragana
	case unicode.Is(unicode.Katakana, r):
		return language.Katakana
	case unicode.Is(unicode.Hangul, r):
		return language.Hangul
	}
	return language.Unknown
}
