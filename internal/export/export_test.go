package export

import (
	"strings"
	"testing"

	"github.com/Vickydmt/ocrtxt/internal/models"
)

func TestTranslationDocument_SectionOrder(t *testing.T) {
	doc := TranslationDocument("original body", models.TranslationResult{
		TranslatedText: "translated body",
		SourceLanguage: "hi",
		TargetLanguage: "en",
	})

	origIdx := strings.Index(doc, "ORIGINAL TEXT (Hindi)")
	transIdx := strings.Index(doc, "TRANSLATED TEXT (English)")
	if origIdx < 0 || transIdx < 0 {
		t.Fatalf("missing section headers:\n%s", doc)
	}
	if origIdx > transIdx {
		t.Error("original section must precede translated section")
	}
	if strings.Index(doc, "original body") > strings.Index(doc, "translated body") {
		t.Error("section bodies out of order")
	}
}

func TestLanguageName(t *testing.T) {
	if got := LanguageName("ta"); got != "Tamil" {
		t.Errorf("LanguageName(ta) = %q", got)
	}
	if got := LanguageName("zz"); got != "zz" {
		t.Errorf("unknown code should pass through, got %q", got)
	}
}

func TestTranslationFilename(t *testing.T) {
	if got := TranslationFilename("hi", "en"); got != "translation-hi-to-en" {
		t.Errorf("filename = %q", got)
	}
}
