package colors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorize(t *testing.T) {
	prev := Enabled()
	defer SetEnabled(prev)
	SetEnabled(true)

	cases := []struct {
		name  string
		color string
		want  string
	}{
		{"no color", "", "hello"},
		{"unknown", "chartreuse", "hello"},
		{"red", "red", "\x1b[31mhello\x1b[0m"},
		{"case insensitive", "YELLOW", "\x1b[33mhello\x1b[0m"},
		{"light", "light_cyan", "\x1b[96mhello\x1b[0m"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Colorize("hello", c.color))
		})
	}
}

func TestColorizeDisabled(t *testing.T) {
	prev := Enabled()
	defer SetEnabled(prev)
	SetEnabled(false)

	assert.Equal(t, "hello", Colorize("hello", "green"))
	assert.True(t, Known("green"))
	assert.False(t, Known("plaid"))
}
