package preview

import "testing"

// TestSlugify verifies business names are normalized into stable
// URL-safe slugs.
func TestSlugify(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "multi word name",
			input: "Direct Plumbing Solutions",
			want:  "direct-plumbing-solutions",
		},
		{
			name:  "punctuation collapses to single hyphen",
			input: "Bob's Moving & Storage",
			want:  "bob-s-moving-storage",
		},
		{
			name:  "leading and trailing junk stripped",
			input: "  ACME Movers!  ",
			want:  "acme-movers",
		},
		{
			name:  "digits preserved",
			input: "24/7 Junk Removal",
			want:  "24-7-junk-removal",
		},
		{
			name:  "already clean",
			input: "greenline",
			want:  "greenline",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "only punctuation",
			input: "***",
			want:  "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Slugify(tc.input)
			if got != tc.want {
				t.Errorf("Slugify(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

// TestSlugifyDeterministic verifies repeated calls agree.
func TestSlugifyDeterministic(t *testing.T) {
	first := Slugify("Direct Plumbing Solutions")
	second := Slugify("Direct Plumbing Solutions")
	if first != second {
		t.Errorf("Slugify not deterministic: %q != %q", first, second)
	}
}

// TestInferIndustry verifies keyword matching against name and website.
func TestInferIndustry(t *testing.T) {
	testCases := []struct {
		name     string
		business string
		website  string
		want     string
	}{
		{
			name:     "moving company",
			business: "Acme Movers Moving Co",
			website:  "https://acmemovers.com",
			want:     "moving and storage",
		},
		{
			name:     "keyword from website only",
			business: "Smith Brothers",
			website:  "https://smithplumbing.example.com",
			want:     "plumbing",
		},
		{
			name:     "no match",
			business: "Smith Brothers",
			website:  "https://smithbros.example.com",
			want:     "professional services",
		},
		{
			name:     "case insensitive",
			business: "GREENLINE HVAC",
			website:  "",
			want:     "HVAC",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := InferIndustry(tc.business, tc.website)
			if got != tc.want {
				t.Errorf("InferIndustry(%q, %q) = %q, want %q", tc.business, tc.website, got, tc.want)
			}
		})
	}
}
