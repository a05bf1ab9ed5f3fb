package display

import (
	"bytes"
	"strings"
	"testing"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"zero", 0, "0 B"},
		{"small bytes", 512, "512 B"},
		{"exactly 1 KiB", 1024, "1.0 KiB"},
		{"1.5 KiB", 1536, "1.5 KiB"},
		{"1 MiB", 1024 * 1024, "1.0 MiB"},
		{"1 GiB", 1024 * 1024 * 1024, "1.0 GiB"},
		{"one EVT day 700 MiB", 734003200, "700.0 MiB"},
		{"4.7 GiB", 5046586572, "4.7 GiB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatBytes(tt.bytes)
			if got != tt.want {
				t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		part, whole int64
		want        string
	}{
		{25, 100, "25%"},
		{300, 1000, "30%"},
		{150, 100, "150%"},
		{5, 0, "n/a"},
	}
	for _, tt := range tests {
		if got := Percent(tt.part, tt.whole); got != tt.want {
			t.Errorf("Percent(%d, %d) = %q, want %q", tt.part, tt.whole, got, tt.want)
		}
	}
}

func TestPlural(t *testing.T) {
	if got := Plural(1, "archive"); got != "1 archive" {
		t.Errorf("Plural(1) = %q", got)
	}
	if got := Plural(0, "file"); got != "0 files" {
		t.Errorf("Plural(0) = %q", got)
	}
	if got := Plural(12, "cruise"); got != "12 cruises" {
		t.Errorf("Plural(12) = %q", got)
	}
}

func TestPrintBanner_NoColor(t *testing.T) {
	var b bytes.Buffer
	PrintBanner(&b)
	if strings.Contains(b.String(), "\033[") {
		t.Errorf("banner contains color codes with colors disabled: %q", b.String())
	}
	if !strings.Contains(b.String(), "|_|") {
		t.Errorf("banner missing art: %q", b.String())
	}
}
