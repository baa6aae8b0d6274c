//go:build !integration

package i18n

import (
	"strings"
	"testing"
)

func TestTranslator(t *testing.T) {
	translator, err := newTranslatorFromBytes([]byte("greeting: Hello\nwelcome_user: Hello %s"))
	if err != nil {
		t.Fatalf("newTranslatorFromBytes failed: %v", err)
	}

	t.Run("should translate a simple key", func(t *testing.T) {
		if got := translator.T("greeting"); got != "Hello" {
			t.Errorf("wanted 'Hello', got '%s'", got)
		}
	})

	t.Run("should return key if not found", func(t *testing.T) {
		if got := translator.T("nonexistent_key"); got != "nonexistent_key" {
			t.Errorf("wanted 'nonexistent_key', got '%s'", got)
		}
	})

	t.Run("should format arguments correctly", func(t *testing.T) {
		if got := translator.T("welcome_user", "Asha"); got != "Hello Asha" {
			t.Errorf("wanted 'Hello Asha', got '%s'", got)
		}
	})
}

func TestEmbeddedLocales(t *testing.T) {
	for _, lang := range []string{"en", "hi"} {
		t.Run(lang, func(t *testing.T) {
			tr, err := NewTranslator(LocalesFS, lang)
			if err != nil {
				t.Fatalf("NewTranslator(%s): %v", lang, err)
			}
			for _, key := range []string{"sms_birthday", "sms_anniversary"} {
				if !tr.Has(key) {
					t.Fatalf("%s missing %s", lang, key)
				}
				if got := tr.T(key, "Asha"); !strings.Contains(got, "Asha") {
					t.Errorf("%s %s did not include the name: %q", lang, key, got)
				}
			}
		})
	}

	if _, err := NewTranslator(LocalesFS, "xx"); err == nil {
		t.Fatal("unknown language loaded")
	}
}
