package language

import "testing"

func TestContainsCJK(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"han", "翻譯", true},
		{"hiragana", "ひらがな", true},
		{"katakana", "カタカナ", true},
		{"hangul", "안녕하세요", true},
		{"fullwidth", "ｈｅｌｌｏ", true},
		{"cjk punctuation", "。", true},
		{"mixed latin and han", "hello 世界", true},
		{"plain english", "hello world", false},
		{"cyrillic", "привет", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsCJK(tt.text); got != tt.want {
				t.Errorf("ContainsCJK(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestEstimateSourceHintWins(t *testing.T) {
	if got := EstimateSource("hello", "fr"); got != "fr" {
		t.Errorf("hint should win, got %q", got)
	}
	if got := EstimateSource("hello", Unknown); got != "en" {
		t.Errorf("unknown hint should fall through to ladder, got %q", got)
	}
	if got := EstimateSource("hello", ""); got != "en" {
		t.Errorf("empty hint should fall through to ladder, got %q", got)
	}
}

func TestEstimateSourceLadder(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"devanagari", "नमस्ते", "hi"},
		{"arabic", "مرحبا", "ar"},
		{"bengali", "হ্যালো", "bn"},
		{"hangul", "안녕하세요", "ko"},
		{"hiragana", "こんにちは", "ja"},
		{"han", "你好世界", "zh"},
		{"cyrillic", "привет мир", "ru"},
		{"french accents", "ça va très bien", "fr"},
		{"german umlaut", "schön grüße", "de"},
		{"german eszett", "straße", "de"},
		{"spanish", "mañana", "es"},
		{"spanish inverted", "¿dónde?", "es"},
		{"portuguese tilde", "não", "pt"},
		{"plain english", "hello world", "en"},
		{"english with punctuation", "it's done, right?", "en"},
		{"symbols only", "☃☃☃", Unknown},
		{"whitespace only", "   ", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateSource(tt.text, ""); got != tt.want {
				t.Errorf("EstimateSource(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

// Mixed-script text must resolve by ladder order, not by rune position.
func TestEstimateSourceOrdering(t *testing.T) {
	// Hangul outranks the ideograph range even when Han appears first.
	if got := EstimateSource("世界 안녕", ""); got != "ko" {
		t.Errorf("hangul should outrank han, got %q", got)
	}
	// Kana outranks the ideograph range (typical Japanese text carries both).
	if got := EstimateSource("日本語のテキスト", ""); got != "ja" {
		t.Errorf("kana should outrank han, got %q", got)
	}
	// The French set is checked first but omits umlauts, so ü stays German.
	if got := EstimateSource("über", ""); got != "de" {
		t.Errorf("lone umlaut should be German, got %q", got)
	}
}

func TestEstimateSourceDeterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		if got := EstimateSource("ça va", ""); got != "fr" {
			t.Fatalf("ladder is not deterministic, got %q", got)
		}
	}
}

type fixedDetector struct {
	lang string
	ok   bool
}

func (d fixedDetector) Detect(string) (string, bool) { return d.lang, d.ok }

func TestEstimateSourceWith(t *testing.T) {
	if got := EstimateSourceWith(fixedDetector{"ru", true}, "hello"); got != "ru" {
		t.Errorf("detector hint should win, got %q", got)
	}
	if got := EstimateSourceWith(fixedDetector{"", false}, "hello"); got != "en" {
		t.Errorf("declined detector should fall back to ladder, got %q", got)
	}
	if got := EstimateSourceWith(nil, "hello"); got != "en" {
		t.Errorf("nil detector should fall back to ladder, got %q", got)
	}
}
