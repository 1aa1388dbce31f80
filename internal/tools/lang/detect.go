// Package lang implements deterministic language detection for the
// detect_language tool: a script histogram over Unicode ranges, with small
// stop-word sets to split Latin-script languages. No network, no model.
package lang

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Undetermined is returned for empty or undecidable input.
const Undetermined = "und"

// Alternate is one detection candidate.
type Alternate struct {
	Lang string  `json:"lang"`
	Prob float64 `json:"prob"`
}

// Detection is the detect_language tool result.
type Detection struct {
	Lang       string      `json:"lang"`
	Confidence float64     `json:"confidence"`
	Alternates []Alternate `json:"alternates"`
}

var scriptLangs = []struct {
	table *unicode.RangeTable
	lang  string
}{
	{unicode.Arabic, "ar"},
	{unicode.Hebrew, "he"},
	{unicode.Cyrillic, "ru"},
	{unicode.Greek, "el"},
	{unicode.Devanagari, "hi"},
	{unicode.Bengali, "bn"},
	{unicode.Thai, "th"},
	{unicode.Han, "zh"},
	{unicode.Hiragana, "ja"},
	{unicode.Katakana, "ja"},
	{unicode.Hangul, "ko"},
	{unicode.Latin, "latin"},
}

var latinStopwords = map[string][]string{
	"en": {"the", "and", "of", "to", "in", "is", "was", "for", "with", "on", "patient", "has"},
	"es": {"el", "la", "los", "las", "una", "que", "para", "por", "con", "del", "fue", "es"},
	"fr": {"le", "les", "des", "une", "est", "dans", "pour", "avec", "sur", "pas", "du", "au"},
	"de": {"der", "die", "das", "und", "ist", "nicht", "mit", "ein", "eine", "für", "von", "dem"},
	"pt": {"os", "uma", "não", "são", "com", "em", "mais", "foi", "dos", "das", "ao", "pelo"},
	"it": {"il", "gli", "di", "che", "non", "per", "una", "sono", "alla", "degli", "nel", "più"},
}

// Detect classifies the dominant language of text. Empty input and input
// with no letters yield Undetermined with zero confidence.
func Detect(text string) Detection {
	text = strings.TrimSpace(text)
	if text == "" {
		return Detection{Lang: Undetermined, Alternates: []Alternate{}}
	}

	counts := make(map[string]int)
	total := 0
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		for _, s := range scriptLangs {
			if unicode.Is(s.table, r) {
				counts[s.lang]++
				total++
				break
			}
		}
	}
	if total == 0 {
		return Detection{Lang: Undetermined, Alternates: []Alternate{}}
	}

	candidates := make([]Alternate, 0, len(counts))
	for code, n := range counts {
		if code == "latin" {
			continue
		}
		candidates = append(candidates, Alternate{Lang: code, Prob: float64(n) / float64(total)})
	}

	if latin := counts["latin"]; latin > 0 {
		latinShare := float64(latin) / float64(total)
		code, share := classifyLatin(text)
		candidates = append(candidates, Alternate{Lang: code, Prob: round3(latinShare * share)})
	}

	// Ties break on the language code so map iteration order never leaks
	// into the result.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Prob != candidates[j].Prob {
			return candidates[i].Prob > candidates[j].Prob
		}
		return candidates[i].Lang < candidates[j].Lang
	})
	if len(candidates) > 5 {
		candidates = candidates[:5]
	}
	for i := range candidates {
		candidates[i].Prob = round3(candidates[i].Prob)
	}

	top := candidates[0]
	return Detection{
		Lang:       top.Lang,
		Confidence: round3(top.Prob),
		Alternates: candidates,
	}
}

// classifyLatin splits Latin-script text by stop-word frequency. Text with no
// stop-word hits defaults to English with low confidence rather than failing,
// since the pipeline's working language is English.
func classifyLatin(text string) (string, float64) {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if len(words) == 0 {
		return "en", 0.1
	}

	hits := make(map[string]int)
	for _, w := range words {
		for code, stops := range latinStopwords {
			for _, s := range stops {
				if w == s {
					hits[code]++
					break
				}
			}
		}
	}

	best, bestHits := "en", 0
	codes := make([]string, 0, len(hits))
	for code := range hits {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		if hits[code] > bestHits {
			best, bestHits = code, hits[code]
		}
	}
	if bestHits == 0 {
		return "en", 0.1
	}

	share := float64(bestHits) / float64(len(words))
	if share > 1 {
		share = 1
	}
	// A handful of stop-word hits is already a strong signal.
	confidence := math.Min(0.5+share*2, 0.99)
	return best, confidence
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
