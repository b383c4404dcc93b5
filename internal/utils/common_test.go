package utils

import "testing"

func TestJSONPointerToPath(t *testing.T) {
	tests := []struct {
		ptr  string
		want string
	}{
		{"", ""},
		{"#", ""},
		{"/", ""},
		{"/0", "[0]"},
		{"/0/text", "[0].text"},
		{"#/12/isCompleted", "[12].isCompleted"},
		{"/a~1b/c~0d", "a/b.c~d"},
	}

	for _, tt := range tests {
		t.Run(tt.ptr, func(t *testing.T) {
			if got := JSONPointerToPath(tt.ptr); got != tt.want {
				t.Errorf("JSONPointerToPath(%q): got %q, want %q", tt.ptr, got, tt.want)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := map[string]string{
		"File":       "file",
		" sqlite3 ":  "sqlite3",
		"TIME_STAMP": "time-stamp",
		"":           "",
	}
	for in, want := range tests {
		if got := NormalizeName(in); got != want {
			t.Errorf("NormalizeName(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestBoolFromString(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", " yes ", "on"} {
		if !BoolFromString(v) {
			t.Errorf("BoolFromString(%q) = false, want true", v)
		}
	}
	for _, v := range []string{"", "0", "false", "no", "off", "maybe"} {
		if BoolFromString(v) {
			t.Errorf("BoolFromString(%q) = true, want false", v)
		}
	}
}
