package render

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// riskHeadingPhrases are lines that are only a "key risks" heading, in the
// languages the summarizer is known to emit. The list is a fixed rendering
// policy; matching is done on the normalized form.
var riskHeadingPhrases = []string{
	// English
	"key risks", "risks", "main risks", "risk factors",
	// Spanish
	"riesgos clave", "riesgos", "principales riesgos", "factores de riesgo",
	// French
	"risques clés", "risques", "principaux risques", "facteurs de risque",
	// Portuguese
	"riscos principais", "riscos chave", "riscos", "fatores de risco",
	// Italian
	"rischi chiave", "rischi principali", "rischi", "fattori di rischio",
	// German
	"zentrale risiken", "wichtige risiken", "haupt­risiken", "risiken", "risikofaktoren",
	// Turkish
	"ana riskler", "önemli riskler", "riskler", "risk faktörleri",
	// Russian
	"ключевые риски", "основные риски", "риски", "факторы риска",
	// Arabic
	"المخاطر الرئيسية", "المخاطر",
	// Farsi
	"ریسک‌های کلیدی", "ریسک‌های اصلی", "ریسک‌ها", "عوامل خطر",
	// Urdu
	"اہم خطرات", "بنیادی خطرات", "خطرات", "خطر کے عوامل",
	// Hindi
	"मुख्य जोखिम", "प्रमुख जोखिम", "जोखिम", "जोखिम कारक",
	// Bengali
	"মূল ঝুঁকি", "প্রধান ঝুঁকি", "ঝুঁকি", "ঝুঁকির কারণ",
	// Chinese (Simplified)
	"关键风险", "主要风险", "风险", "风险因素",
	// Chinese (Traditional)
	"關鍵風險", "主要風險", "風險", "風險因素",
	// Indonesian / Malay
	"risiko utama", "risiko kunci", "risiko", "faktor risiko",
	// Swahili
	"hatari kuu", "hatari muhimu", "hatari", "vichocheo vya hatari",
	// Filipino
	"mahahalagang panganib", "pangunahing panganib", "mga panganib", "mga salik ng panganib",
}

var riskHeadings = buildHeadingSet()

func buildHeadingSet() map[string]struct{} {
	set := make(map[string]struct{}, len(riskHeadingPhrases))
	for _, p := range riskHeadingPhrases {
		set[normalizeHeading(p)] = struct{}{}
	}
	return set
}

// StripRiskHeadings removes lines that are nothing but a "key risks" heading.
// Matching is robust to case, surrounding spaces, ASCII and fullwidth colons,
// and diacritics; all other lines pass through unchanged.
func StripRiskHeadings(text string) string {
	if text == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, drop := riskHeadings[normalizeHeading(line)]; drop {
			continue
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

var diacriticFold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

func normalizeHeading(s string) string {
	s = strings.ToLower(norm.NFKC.String(s))
	s = strings.TrimSpace(s)
	s = strings.Trim(s, ":：")
	s = strings.Join(strings.Fields(s), " ")
	if folded, _, err := transform.String(diacriticFold, s); err == nil {
		s = folded
	}
	return s
}
