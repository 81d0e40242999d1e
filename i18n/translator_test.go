package i18n_test

import (
	"testing"

	"github.com/reoring/anyskema/i18n"
)

func TestT_DefaultEnglish(t *testing.T) {
	if got := i18n.T("validation_failed", nil); got != "validation failed" {
		t.Fatalf("unexpected message: %q", got)
	}
	// unknown codes fall back to the code itself
	if got := i18n.T("no_such_code", nil); got != "no_such_code" {
		t.Fatalf("expected code passthrough, got %q", got)
	}
}

func TestSetLanguage(t *testing.T) {
	i18n.SetLanguage("ja")
	defer i18n.SetLanguage("en")
	if got := i18n.T("unknown_vendor", nil); got == "unknown_vendor" || got == "no adapter matched the schema" {
		t.Fatalf("expected japanese message, got %q", got)
	}
}

type upperTranslator struct{}

func (upperTranslator) Message(code string, _ map[string]string) string { return "X:" + code }

func TestSetTranslator(t *testing.T) {
	i18n.SetTranslator(upperTranslator{})
	defer i18n.SetTranslator(nil)
	if got := i18n.T("unsupported", nil); got != "X:unsupported" {
		t.Fatalf("custom translator not used: %q", got)
	}
}
