package preview

import "strings"

// industryKeywords maps business-name fragments to the service industry
// used in preview copy. Checked in order so more specific fragments win.
var industryKeywords = []struct {
	keyword  string
	industry string
}{
	{"moving", "moving and storage"},
	{"junk", "junk removal"},
	{"plumb", "plumbing"},
	{"electric", "electrical services"},
	{"clean", "cleaning services"},
	{"landscap", "landscaping"},
	{"lawn", "lawn care and landscaping"},
	{"roof", "roofing"},
	{"paint", "painting"},
	{"hvac", "HVAC"},
	{"heating", "heating and cooling"},
	{"pest", "pest control"},
	{"tree", "tree services"},
	{"concrete", "concrete and masonry"},
	{"floor", "flooring"},
	{"window", "window services"},
	{"garage", "garage door services"},
	{"fence", "fencing"},
}

// InferIndustry guesses the prospect's industry from its business name
// and website, defaulting to generic professional services.
func InferIndustry(businessName, website string) string {
	name := strings.ToLower(businessName)
	site := strings.ToLower(website)
	for _, entry := range industryKeywords {
		if strings.Contains(name, entry.keyword) || strings.Contains(site, entry.keyword) {
			return entry.industry
		}
	}
	return "professional services"
}
