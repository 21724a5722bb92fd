package flow

import "regexp"

type SectionGuide struct {
	Summary  string   `json:"summary"`
	Examples []string `json:"examples"`
	Tip      string   `json:"tip,omitempty"`
}

var sectionGuides = []struct {
	match *regexp.Regexp
	guide SectionGuide
}{
	{
		match: regexp.MustCompile(`(?i)purchase`),
		guide: SectionGuide{
			Summary:  "List your top purchases by volume or cost. Think about the supplies you restock most.",
			Examples: []string{"Coffee beans", "Milk", "Cups/lids", "Syrups", "Cleaning supplies"},
			Tip:      "Don't worry about perfect units - approximate values are fine.",
		},
	},
	{
		match: regexp.MustCompile(`(?i)dispose|waste`),
		guide: SectionGuide{
			Summary:  "List your main waste streams by volume or space in your bins. Focus on what fills up fastest.",
			Examples: []string{"Coffee grounds", "Cardboard", "Plastic cups", "Food waste", "Milk cartons"},
			Tip:      "If multiple methods are used, choose 'multiple' and note details.",
		},
	},
}

// GuideForSection returns participant guidance matched on the section title.
func GuideForSection(title string) (SectionGuide, bool) {
	for _, entry := range sectionGuides {
		if entry.match.MatchString(title) {
			return entry.guide, true
		}
	}
	return SectionGuide{}, false
}
