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
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestNormalize verifies the comparison form for every scalar kind.
func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{name: "true is 1", value: true, want: "1"},
		{name: "false is 0", value: false, want: "0"},
		{name: "string verbatim", value: "Kind", want: "Kind"},
		{name: "int64 decimal", value: int64(48), want: "48"},
		{name: "int decimal", value: 7, want: "7"},
		{name: "negative int", value: int64(-3), want: "-3"},
		{name: "fractional float", value: 0.5, want: "0.5"},
		{name: "whole float drops the point", value: 3.0, want: "3"},
		{name: "empty string stays empty", value: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.value))
		})
	}
}

// TestToFlag verifies write-form rendering and type-flag selection.
func TestToFlag(t *testing.T) {
	tests := []struct {
		name      string
		value     interface{}
		wantFlag  string
		wantValue string
	}{
		{name: "true", value: true, wantFlag: FlagBool, wantValue: "true"},
		{name: "false", value: false, wantFlag: FlagBool, wantValue: "false"},
		{name: "int64", value: int64(50), wantFlag: FlagInt, wantValue: "50"},
		{name: "int", value: 50, wantFlag: FlagInt, wantValue: "50"},
		{name: "float", value: 0.25, wantFlag: FlagFloat, wantValue: "0.25"},
		{name: "string", value: "left", wantFlag: FlagString, wantValue: "left"},
		{name: "numeric-looking string stays a string", value: "42", wantFlag: FlagString, wantValue: "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag, value, err := ToFlag(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFlag, flag)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

// TestToFlagUnsupported verifies arrays and tables are rejected.
func TestToFlagUnsupported(t *testing.T) {
	for _, value := range []interface{}{
		[]interface{}{"a", "b"},
		map[string]interface{}{"k": 1},
		nil,
	} {
		_, _, err := ToFlag(value)
		assert.ErrorIs(t, err, ErrUnsupportedType, "value %v", value)
	}
}

// TestNormalizeAndToFlagDiffer pins down that the comparison form and
// the write form of a boolean are different on purpose: read reports
// digits while write wants words. Conflating them breaks change
// detection.
func TestNormalizeAndToFlagDiffer(t *testing.T) {
	norm := Normalize(true)
	assert.Equal(t, "1", norm)

	flag, value, err := ToFlag(true)
	require.NoError(t, err)
	assert.Equal(t, FlagBool, flag)
	assert.Equal(t, "true", value)

	assert.NotEqual(t, norm, value)
}

// TestFromFlag verifies the restore-time type heuristic.
func TestFromFlag(t *testing.T) {
	tests := []struct {
		value    string
		wantFlag string
	}{
		{value: "1", wantFlag: FlagBool},
		{value: "0", wantFlag: FlagBool},
		{value: "true", wantFlag: FlagBool},
		{value: "false", wantFlag: FlagBool},
		{value: "42", wantFlag: FlagInt},
		{value: "-17", wantFlag: FlagInt},
		{value: "0.5", wantFlag: FlagFloat},
		{value: "48.0", wantFlag: FlagFloat},
		{value: "1e3", wantFlag: FlagFloat},
		{value: "hello", wantFlag: FlagString},
		{value: "", wantFlag: FlagString},
		{value: "10 items", wantFlag: FlagString},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			flag, value := FromFlag(tt.value)
			assert.Equal(t, tt.wantFlag, flag)
			assert.Equal(t, tt.value, value, "the value must pass through unchanged")
		})
	}
}

// TestFromFlagProperties verifies the heuristic over random inputs:
// the value always passes through, and integers classify as boolean
// only for 0 and 1.
func TestFromFlagProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.Int64().Draw(t, "n")
		s := strconv.FormatInt(n, 10)

		flag, value := FromFlag(s)
		assert.Equal(t, s, value)

		if n == 0 || n == 1 {
			assert.Equal(t, FlagBool, flag)
		} else {
			assert.Equal(t, FlagInt, flag)
		}

		word := rapid.StringMatching(`[a-zA-Z][a-zA-Z ]{0,10}`).Draw(t, "word")
		flag, value = FromFlag(word)
		assert.Equal(t, word, value)

		// ParseFloat accepts spellings like Inf and NaN, which count as
		// floats here too.
		_, floatErr := strconv.ParseFloat(word, 64)
		if floatErr != nil && word != "true" && word != "false" {
			assert.Equal(t, FlagString, flag)
		}
	})
}
