// Copyright (C) 2025 Mono Technologies Inc.
//
// This program is free software; you can redistribute it and/or
// modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; version 2.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.

package defaults

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrUnsupportedType is returned for config values the defaults tool
// cannot store through a single write, such as arrays and tables.
var ErrUnsupportedType = errors.New("unsupported type")

// Type flags understood by defaults(1) write.
const (
	FlagBool   = "-bool"
	FlagInt    = "-int"
	FlagFloat  = "-float"
	FlagString = "-string"
)

// Normalize renders a config value in the comparison form defaults(1)
// read reports: booleans become "1"/"0", numbers decimal, strings stay
// verbatim. It is total; unsupported values still get a best-effort
// rendering so they can be compared, even though ToFlag rejects them.
func Normalize(value interface{}) string {
	switch v := value.(type) {
	case bool:
		if v {
			return "1"
		}
		return "0"
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToFlag renders a config value as the (type flag, argument) pair for
// a defaults write call. Booleans are spelled "true"/"false" here, not
// the "1"/"0" of Normalize: the write tool wants the literal words
// while read reports digits.
func ToFlag(value interface{}) (string, string, error) {
	switch v := value.(type) {
	case bool:
		if v {
			return FlagBool, "true", nil
		}
		return FlagBool, "false", nil
	case int:
		return FlagInt, strconv.Itoa(v), nil
	case int64:
		return FlagInt, strconv.FormatInt(v, 10), nil
	case float64:
		return FlagFloat, strconv.FormatFloat(v, 'f', -1, 64), nil
	case string:
		return FlagString, v, nil
	default:
		return "", "", fmt.Errorf("%w %T in configuration: %v", ErrUnsupportedType, value, value)
	}
}

// FromFlag guesses the type flag for a previously recorded value
// string, used when restoring originals that carry no type tag. The
// value itself is passed through unchanged. Classification order:
// boolean literals first, then integers, then floats, else string.
// A stored integer that happens to be 0 or 1 restores as a boolean;
// the snapshot does not record enough to tell them apart.
func FromFlag(value string) (string, string) {
	switch value {
	case "1", "0", "true", "false":
		return FlagBool, value
	}
	if _, err := strconv.ParseInt(value, 10, 64); err == nil {
		return FlagInt, value
	}
	if _, err := strconv.ParseFloat(value, 64); err == nil {
		return FlagFloat, value
	}
	return FlagString, value
}
