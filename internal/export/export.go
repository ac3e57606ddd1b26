// Package export renders the download content contracts: the plain-text
// download carries the raw content verbatim, and the "PDF" export is a
// structured text block with ORIGINAL TEXT / TRANSLATED TEXT sections. Exact
// PDF rendering is left to the presentation layer; the section order here is
// the contract other tooling depends on.
package export

import (
	"fmt"
	"strings"

	"github.com/Vickydmt/ocrtxt/internal/models"
)

// languageNames maps the supported ISO codes to display names.
var languageNames = map[string]string{
	"en":   "English",
	"hi":   "Hindi",
	"bn":   "Bengali",
	"ta":   "Tamil",
	"te":   "Telugu",
	"mr":   "Marathi",
	"gu":   "Gujarati",
	"kn":   "Kannada",
	"ml":   "Malayalam",
	"pa":   "Punjabi",
	"ur":   "Urdu",
	"auto": "Auto-detected",
}

// LanguageName returns the display name for a language code, or the code
// itself when unknown.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

// PlainText returns the content of the .txt download: the raw text, exactly.
func PlainText(content string) string { return content }

// TranslationDocument builds the section block for the translation export:
// the original text under its language header, then the translation under
// its own. Section order is fixed.
func TranslationDocument(originalText string, tr models.TranslationResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ORIGINAL TEXT (%s)\n", LanguageName(tr.SourceLanguage))
	sb.WriteString("------------------------\n")
	sb.WriteString(originalText)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "TRANSLATED TEXT (%s)\n", LanguageName(tr.TargetLanguage))
	sb.WriteString("------------------------\n")
	sb.WriteString(tr.TranslatedText)
	sb.WriteString("\n")
	return sb.String()
}

// TranslationFilename names the translation download, without extension.
func TranslationFilename(sourceLang, targetLang string) string {
	return fmt.Sprintf("translation-%s-to-%s", sourceLang, targetLang)
}
