package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "vendor" or "type").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "validation_failed":
			return "検証に失敗しました"
		case "invalid_type":
			return "型が不正です"
		case "unsupported":
			return "この操作はサポートされていません"
		case "unknown_vendor":
			return "対応するアダプタが見つかりません"
		case "native_panic":
			return "ネイティブバリデータが異常終了しました"
		}
	default: // "en"
		switch code {
		case "validation_failed":
			return "validation failed"
		case "invalid_type":
			return "invalid type"
		case "unsupported":
			return "operation not supported"
		case "unknown_vendor":
			return "no adapter matched the schema"
		case "native_panic":
			return "native validator panicked"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator with a caller-provided implementation.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	currentTranslator = tr
}

// T translates the given code using the current Translator.
func T(code string, data map[string]string) string {
	return currentTranslator.Message(code, data)
}
