package util

import "testing"

func TestNormalizeNumber(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+15550001234", "+15550001234"},
		{"  +15550001234\n", "+15550001234"},
		{"＋１５５５０００１２３４", "+15550001234"}, // full-width forms
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeNumber(tc.in); got != tc.want {
			t.Errorf("NormalizeNumber(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{5, "00:05"},
		{61, "01:01"},
		{3599, "59:59"},
		{3600, "60:00"},
		{-7, "00:00"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.seconds); got != tc.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}
