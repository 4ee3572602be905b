package security

import "testing"

// TestSanitize_PlainText は通常の商品名が変更されないことを検証する。
func TestSanitize_PlainText(t *testing.T) {
	s := NewProductSanitizer()

	for _, input := range []string{"Lait", "Pommes de terre", "Café 500g"} {
		if got := s.Sanitize(input); got != input {
			t.Errorf("Sanitize(%q) = %q, want unchanged", input, got)
		}
	}
}

// TestSanitize_StripsHTML はHTMLタグが除去されることを検証する。
func TestSanitize_StripsHTML(t *testing.T) {
	s := NewProductSanitizer()

	tests := []struct {
		input string
		want  string
	}{
		{"<script>alert(1)</script>Lait", "Lait"},
		{"<b>Pain</b>", "Pain"},
		{"<img src=x onerror=alert(1)>Beurre", "Beurre"},
		{"  Fromage  ", "Fromage"},
	}

	for _, tc := range tests {
		if got := s.Sanitize(tc.input); got != tc.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

// TestSanitize_Idempotent は2回適用しても結果が変わらないことを検証する。
func TestSanitize_Idempotent(t *testing.T) {
	s := NewProductSanitizer()

	input := "<em>Œufs</em> bio"
	once := s.Sanitize(input)
	twice := s.Sanitize(once)
	if once != twice {
		t.Errorf("Sanitize not idempotent: %q -> %q", once, twice)
	}
}
