package tui

import (
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "Heat", 10, "Heat"},
		{"cut", "The Good, the Bad and the Ugly", 10, "The Good,…"},
		{"whitespace collapsed", "Paris,\n  Texas", 20, "Paris, Texas"},
		{"wide runes", "千と千尋の神隠し", 7, "千と千…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.in, tt.width)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, runewidth.StringWidth(got), tt.width)
		})
	}
}

func TestCell(t *testing.T) {
	assert.Equal(t, "Heat      ", Cell("Heat", 10))
	assert.Equal(t, 10, runewidth.StringWidth(Cell("千と千尋の神隠し", 10)))
}

func TestStars(t *testing.T) {
	assert.Equal(t, "☆☆☆☆☆", Stars(0))
	assert.Equal(t, "★★★☆☆", Stars(3))
	assert.Equal(t, "★★★★★", Stars(9))
	assert.Equal(t, "☆☆☆☆☆", Stars(-1))
}
