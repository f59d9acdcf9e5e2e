// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package shield

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeEnabled(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1", "1"},
		{"on", "1"},
		{"true", "1"},
		{"YES", "1"},
		{"7", "1"},
		{"0", "0"},
		{"", "0"},
		{"false", "0"},
		{"off", "0"},
		{"banana", "0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeEnabled(tt.in), "input %q", tt.in)
	}
}

func TestSanitizeColor(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"valid lowercase", "#a1b2c3", "#a1b2c3"},
		{"valid uppercase", "#FF00AA", "#FF00AA"},
		{"surrounding space", "  #123456 ", "#123456"},
		{"shorthand expands", "#abc", "#aabbcc"},
		{"missing hash", "ff0000", DefaultColor},
		{"named color", "blue", DefaultColor},
		{"too long", "#12345678", DefaultColor},
		{"non hex", "#12345g", DefaultColor},
		{"empty", "", DefaultColor},
		{"injection", "#fff;}</style>", DefaultColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeColor(tt.in))
		})
	}
}

func TestSettingsRegistered(t *testing.T) {
	settings := Settings()
	if assert.Len(t, settings, 2) {
		assert.Equal(t, OptionEnabled, settings[0].Name)
		assert.Equal(t, "0", settings[0].Default)
		assert.Equal(t, OptionColor, settings[1].Name)
		assert.Equal(t, DefaultColor, settings[1].Default)

		// An unchecked checkbox submits nothing.
		assert.Equal(t, "0", settings[0].Sanitize(""))
		assert.Equal(t, DefaultColor, settings[1].Sanitize("nope"))
	}
}
