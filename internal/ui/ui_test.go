package ui

import "testing"

func TestFormatSize(t *testing.T) {
	cases := map[int64]string{
		0:               "0 B",
		512:             "512 B",
		1536:            "1.5 KB",
		3 * 1024 * 1024: "3.0 MB",
		5368709120:      "5.00 GB",
		-157286400:      "-150.0 MB",
	}
	for in, want := range cases {
		if got := FormatSize(in); got != want {
			t.Errorf("FormatSize(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(99.3377); got != "99.34%" {
		t.Errorf("FormatPercent = %q", got)
	}
	if got := FormatPercent(-0.0001); got != "0.00%" {
		t.Errorf("FormatPercent near zero = %q, want 0.00%%", got)
	}
}
