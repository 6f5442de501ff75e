package routing

import (
	"strings"
	"testing"
)

func TestDecideForcedModes(t *testing.T) {
	long := strings.Repeat("word ", 50)

	d := Decide(long, ModeGoogle, "gemini-1.5-flash-latest")
	if d.Engine != EngineGoogle || d.Model != "" {
		t.Errorf("forced google: got %+v", d)
	}

	d = Decide("hi", ModeGemini, "gemini-1.5-flash-latest")
	if d.Engine != EngineGemini || d.Model != "gemini-1.5-flash-latest" {
		t.Errorf("forced gemini: got %+v", d)
	}
}

func TestDecideCJK(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Engine
	}{
		{"one char", "字", EngineGoogle},
		{"five chars", "五個字元喔", EngineGoogle},
		{"six chars", "超過五個字元", EngineGemini},
		{"long sentence", "這是一個需要完整翻譯的長句子", EngineGemini},
		// Rune count, not byte count: five CJK runes are fifteen bytes.
		{"five runes many bytes", "漢字五個字", EngineGoogle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.text, ModeSmart, "m")
			if d.Engine != tt.want {
				t.Errorf("Decide(%q) engine = %q, want %q", tt.text, d.Engine, tt.want)
			}
		})
	}
}

func TestDecideNonCJK(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Engine
	}{
		{"single word", "hello", EngineGoogle},
		{"three short words", "a be sea", EngineGoogle},
		{"four words", "one two three four", EngineGemini},
		{"three words 29 chars", "abcdefghi abcdefghi abcdefghi", EngineGoogle},
		{"three words 30 chars", "abcdefghi abcdefghi abcdefghi1", EngineGemini},
		{"long sentence", "this sentence clearly needs the model", EngineGemini},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.text, ModeSmart, "m")
			if d.Engine != tt.want {
				t.Errorf("Decide(%q) engine = %q, want %q", tt.text, d.Engine, tt.want)
			}
		})
	}
}

// Surrounding whitespace must not count as words or characters.
func TestDecideTrimsBeforeCounting(t *testing.T) {
	d := Decide("  hello  ", ModeSmart, "m")
	if d.Engine != EngineGoogle {
		t.Errorf("padded single word should route to google, got %q", d.Engine)
	}
}

func TestDecideModelOnlyOnGemini(t *testing.T) {
	d := Decide("a much longer phrase that needs context", ModeSmart, "gemini-1.5-pro")
	if d.Engine != EngineGemini {
		t.Fatalf("expected gemini, got %q", d.Engine)
	}
	if d.Model != "gemini-1.5-pro" {
		t.Errorf("model = %q, want gemini-1.5-pro", d.Model)
	}

	d = Decide("hello", ModeSmart, "gemini-1.5-pro")
	if d.Engine != EngineGoogle || d.Model != "" {
		t.Errorf("google decision must not carry a model, got %+v", d)
	}
}
