package language

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "en"},
		{"EN", "en"},
		{"en-US", "en"},
		{"eng", "en"},
		{"spa", "es"},
		{"fre", "fr"},
		{"ger", "de"},
		{"dut", "nl"},
		{"chi", "zh"},
		{"english", "en"},
		{"English", "en"},
		{"GERMAN", "de"},
		{"portuguese", "pt"},
		{"auto", ""},
		{"", ""},
		{"  ", ""},
		{"xyz", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "English"},
		{"english", "English"},
		{"es", "Spanish"},
		{"zh", "Chinese"},
		{"fre", "French"},
		{"uk", "Ukrainian"},
		{"", "Unknown"},
		{"auto", "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := DisplayName(tt.input); got != tt.expected {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDisplayNameUnrecognizedFallsBack(t *testing.T) {
	if got := DisplayName("klingon"); got != "KLINGON" {
		t.Fatalf("DisplayName(klingon) = %q, want KLINGON", got)
	}
}
