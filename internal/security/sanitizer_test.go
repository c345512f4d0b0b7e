package security

import (
	"strings"
	"testing"
)

func TestTextSanitizer_Sanitize(t *testing.T) {
	s := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"プレーンテキストはそのまま", "Dossier non conforme", "Dossier non conforme"},
		{"タグを除去する", "<b>Non</b> conforme", "Non conforme"},
		{"エスケープを戻す", "Plan &amp; schéma", "Plan & schéma"},
		{"空文字列", "", ""},
		{"改行は残す", "ligne 1\nligne 2", "ligne 1\nligne 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTextSanitizer_RemovesScript(t *testing.T) {
	s := NewTextSanitizer()
	got := s.Sanitize(`Commentaire<script>alert("x")</script>`)
	if strings.Contains(got, "script") || strings.Contains(got, "alert") {
		t.Errorf("script should be removed, got %q", got)
	}
	if !strings.Contains(got, "Commentaire") {
		t.Errorf("text should remain, got %q", got)
	}
}

// TestTextSanitizer_RemovesTerminalEscapes は端末のエスケープシーケンスの起点となる制御文字が除去されることを検証する。
func TestTextSanitizer_RemovesTerminalEscapes(t *testing.T) {
	s := NewTextSanitizer()
	got := s.Sanitize("\x1b[2Jrouge\x07")
	if strings.ContainsAny(got, "\x1b\x07") {
		t.Errorf("control characters should be removed, got %q", got)
	}
}
