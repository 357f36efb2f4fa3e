package textproc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain text unchanged", "The euro gained ground.", "The euro gained ground."},
		{"bold stripped", "The **euro** gained", "The euro gained"},
		{"italic stripped", "a *moderately* bullish bias", "a moderately bullish bias"},
		{"underscore emphasis stripped", "the __dollar__ and _yen_", "the dollar and yen"},
		{"heading markers stripped", "## Market Recap\nThe session opened", "Market Recap\nThe session opened"},
		{"numbered list markers stripped", "1. First point\n2) Second point", "First point\nSecond point"},
		{"bullet markers stripped", "- point one\n• point two\n* point three", "point one\npoint two\npoint three"},
		{"brackets removed", "see [reference] here", "see reference here"},
		{"space runs collapsed", "too   many\t\tspaces", "too many spaces"},
		{"crlf normalized", "line one\r\nline two", "line one\nline two"},
		{"blank runs collapsed to paragraph break", "para one\n\n\n\npara two", "para one\n\npara two"},
		{"surrounding whitespace trimmed", "  \n text \n  ", "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizePreservesParagraphBreaks(t *testing.T) {
	got := Normalize("**Summary:** markets rallied.\n\nRisk appetite improved.")
	assert.Equal(t, "Summary: markets rallied.\n\nRisk appetite improved.", got)
}

func TestTruncate(t *testing.T) {
	t.Run("short input untouched", func(t *testing.T) {
		assert.Equal(t, "short", Truncate("short", 20))
	})

	t.Run("cuts at word boundary", func(t *testing.T) {
		got := Truncate("the quick brown fox jumps over the lazy dog", 20)
		assert.Equal(t, "the quick brown fox...", got)
	})

	t.Run("appends ellipsis", func(t *testing.T) {
		got := Truncate(strings.Repeat("a", 50), 10)
		assert.True(t, strings.HasSuffix(got, "..."))
		assert.LessOrEqual(t, len([]rune(got)), 13)
	})

	t.Run("strips trailing punctuation before ellipsis", func(t *testing.T) {
		got := Truncate("hold steady, but watch the upcoming releases", 13)
		assert.Equal(t, "hold steady...", got)
	})

	t.Run("rune safe", func(t *testing.T) {
		got := Truncate("évaluation détaillée des marchés européens aujourd'hui", 20)
		assert.True(t, strings.HasSuffix(got, "..."))
	})
}
