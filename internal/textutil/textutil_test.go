package textutil

import "testing"

func TestCollapseWhitespace(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"double spaces", "Stukken  betreffende   de VOC", "Stukken betreffende de VOC"},
		{"newlines and tabs", "Brieven\n\ten papieren", "Brieven en papieren"},
		{"leading and trailing", "  Resoluties ", "Resoluties"},
		{"already clean", "Overgekomen brieven", "Overgekomen brieven"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CollapseWhitespace(tc.input); got != tc.want {
				t.Errorf("CollapseWhitespace(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSanitizeCode(t *testing.T) {
	if got := SanitizeCode("A/B"); got != "A-B" {
		t.Errorf("SanitizeCode(A/B) = %q, want A-B", got)
	}
	if got := SanitizeCode("  1.04.02  HTR "); got != "1.04.02 HTR" {
		t.Errorf("SanitizeCode collapsed = %q, want %q", got, "1.04.02 HTR")
	}
}

func TestStripImageExtension(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"NL-HaNA_1.04.02_1234_0001.tif", "NL-HaNA_1.04.02_1234_0001"},
		{"scan.TIFF", "scan"},
		{"page.jpeg", "page"},
		{"page.jpg", "page"},
		{"page.png", "page.png"},
		{"noextension", "noextension"},
	}

	for _, tc := range cases {
		if got := StripImageExtension(tc.input); got != tc.want {
			t.Errorf("StripImageExtension(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
