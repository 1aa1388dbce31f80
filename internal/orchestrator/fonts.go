package orchestrator

import "path/filepath"

// fontFiles maps patient language codes to packaged fonts. Codes without an
// entry render with the default Latin font.
var fontFiles = map[string]string{
	"ar": "NotoNaskhArabic-Regular.ttf",
	"es": "NotoSans-Regular.ttf",
	"en": "NotoSans-Regular.ttf",
}

const defaultFontFile = "NotoSans-Regular.ttf"

// ResolveFont returns the font path under dir for a language code.
func ResolveFont(dir, lang string) string {
	file, ok := fontFiles[lang]
	if !ok {
		file = defaultFontFile
	}
	return filepath.Join(dir, file)
}
