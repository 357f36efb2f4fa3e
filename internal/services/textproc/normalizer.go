// Package textproc turns free-form AI responses into structured
// display fields: a markdown normalizer followed by labeled-section
// extraction with layered fallbacks.
package textproc

import (
	"regexp"
	"strings"
)

var (
	boldRe     = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRe   = regexp.MustCompile(`\*([^*\n]+)\*`)
	boldAltRe  = regexp.MustCompile(`__([^_]+)__`)
	emphAltRe  = regexp.MustCompile(`_([^_\n]+)_`)
	headingRe  = regexp.MustCompile(`(?m)^#{1,6}\s*`)
	numListRe  = regexp.MustCompile(`(?m)^\s*\d+[.)]\s+`)
	bulletRe   = regexp.MustCompile(`(?m)^\s*[-•*]\s+`)
	bracketRe  = regexp.MustCompile(`[\[\]]`)
	spaceRunRe = regexp.MustCompile(`[ \t]+`)
	lineEdgeRe = regexp.MustCompile(` *\n *`)
	blankRunRe = regexp.MustCompile(`\n{3,}`)
)

// Normalize strips markdown and formatting artifacts from free-form AI
// text, leaving plain prose. Word content, punctuation, and paragraph
// breaks (a single blank line) survive. Pure and deterministic; an
// empty input returns an empty string.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	text := strings.ReplaceAll(raw, "\r\n", "\n")

	text = boldRe.ReplaceAllString(text, "$1")
	text = italicRe.ReplaceAllString(text, "$1")
	text = boldAltRe.ReplaceAllString(text, "$1")
	text = emphAltRe.ReplaceAllString(text, "$1")

	text = headingRe.ReplaceAllString(text, "")
	text = numListRe.ReplaceAllString(text, "")
	text = bulletRe.ReplaceAllString(text, "")
	text = bracketRe.ReplaceAllString(text, "")

	text = spaceRunRe.ReplaceAllString(text, " ")
	text = lineEdgeRe.ReplaceAllString(text, "\n")
	text = blankRunRe.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

// Truncate caps s at max runes, appending an ellipsis marker when
// content was dropped. Cuts at the last space before the limit when
// one exists so words stay whole.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}

	cut := string(runes[:max])
	if idx := strings.LastIndex(cut, " "); idx > max/2 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ,;:") + "..."
}
