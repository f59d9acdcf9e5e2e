// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package shield

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared; validator.Validate caches struct and tag metadata and
// is safe for concurrent use.
var validate = validator.New()

// Setting describes one registered option: its storage key, the value used
// when nothing is stored, and the sanitizer applied on every write.
type Setting struct {
	Name     string
	Default  string
	Sanitize func(raw string) string
}

// Settings returns the options registered under OptionGroup.
func Settings() []Setting {
	return []Setting{
		{Name: OptionEnabled, Default: "0", Sanitize: SanitizeEnabled},
		{Name: OptionColor, Default: DefaultColor, Sanitize: SanitizeColor},
	}
}

// SanitizeEnabled coerces a submitted value to "1" or "0". Checkbox values,
// booleans and positive integers count as enabled.
func SanitizeEnabled(raw string) string {
	raw = strings.TrimSpace(strings.ToLower(raw))
	switch raw {
	case "on", "yes":
		return "1"
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		if b {
			return "1"
		}
		return "0"
	}
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return "1"
	}
	return "0"
}

// SanitizeColor returns raw when it is a #rrggbb color, expands the #rgb
// shorthand, and falls back to DefaultColor for anything else. It never
// rejects a write.
func SanitizeColor(raw string) string {
	raw = strings.TrimSpace(raw)
	if validColor(raw) {
		return raw
	}
	if len(raw) == 4 && validate.Var(raw, "hexcolor") == nil {
		return string([]byte{'#', raw[1], raw[1], raw[2], raw[2], raw[3], raw[3]})
	}
	return DefaultColor
}

// validColor reports whether c is exactly '#' followed by six hex digits.
func validColor(c string) bool {
	return validate.Var(c, "required,len=7,hexcolor") == nil
}
