package i18n

import "testing"

func TestNormalize(t *testing.T) {
	if Normalize("en-US") != "en" {
		t.Fatalf("expected en")
	}
	if Normalize("EN_gb") != "en" {
		t.Fatalf("expected en for EN_gb")
	}
	if Normalize("fr-FR") != DefaultLanguage {
		t.Fatalf("expected default fallback")
	}
	if Normalize("") != DefaultLanguage {
		t.Fatalf("expected default for empty")
	}
}

func TestTranslations(t *testing.T) {
	if T("en", CartLoadFailed) != "Failed to load cart" {
		t.Fatalf("expected english cart message")
	}
	if T("ru", CartLoadFailed) != "Ошибка при загрузке корзины" {
		t.Fatalf("expected russian cart message")
	}
	// unknown code -> fallback to code
	if T("en", "__nope__") != "__nope__" {
		t.Fatalf("expected fallback to code")
	}
	// unknown language -> default language
	if T("es", LoginFailed) != "Ошибка авторизации" {
		t.Fatalf("expected default fallback for es")
	}
}

func TestEveryCodeTranslated(t *testing.T) {
	for code := range messages[DefaultLanguage] {
		for lang, table := range messages {
			if _, ok := table[code]; !ok {
				t.Errorf("%s missing in %s", code, lang)
			}
		}
	}
}
