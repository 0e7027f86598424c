package checker

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Check names, in presentation order.
const (
	CheckColumns    = "columns"
	CheckSections   = "sections"
	CheckAbstract   = "abstract"
	CheckReferences = "references"
	CheckStatistics = "statistics"
)

// Rules configures the format checks.
type Rules struct {
	Columns           int      `yaml:"columns" json:"columns"`
	HeadingStyle      string   `yaml:"heading_style" json:"heading_style"`
	Sections          []string `yaml:"sections" json:"sections"`
	SectionTolerance  int      `yaml:"section_tolerance" json:"section_tolerance"`
	AbstractKeyword   string   `yaml:"abstract_keyword" json:"abstract_keyword"`
	AbstractMinLength int      `yaml:"abstract_min_length" json:"abstract_min_length"`
	ReferencesKeyword string   `yaml:"references_keyword" json:"references_keyword"`
	MinCharacters     int      `yaml:"min_characters" json:"min_characters"`
	Critical          []string `yaml:"critical" json:"critical"`
}

// DefaultRules returns the conference-paper rules: two columns, the six
// standard sections, an abstract longer than 50 characters and at least
// 5000 characters of text. Only the abstract is critical.
func DefaultRules() Rules {
	return Rules{
		Columns:           2,
		HeadingStyle:      "Heading",
		Sections:          []string{"Introduction", "Method", "Experiments", "Related Work", "Discussion", "Conclusion"},
		SectionTolerance:  1,
		AbstractKeyword:   "abstract",
		AbstractMinLength: 50,
		ReferencesKeyword: "reference",
		MinCharacters:     5000,
		Critical:          []string{CheckAbstract},
	}
}

// Validate validates the rules.
func (r *Rules) Validate() error {
	if err := validation.ValidateStruct(r,
		validation.Field(&r.Columns, validation.Required, validation.Min(1), validation.Max(12)),
		validation.Field(&r.HeadingStyle, validation.Required),
		validation.Field(&r.Sections, validation.Required, validation.Each(validation.Required)),
		validation.Field(&r.SectionTolerance, validation.Min(0)),
		validation.Field(&r.AbstractKeyword, validation.Required),
		validation.Field(&r.AbstractMinLength, validation.Min(0)),
		validation.Field(&r.ReferencesKeyword, validation.Required),
		validation.Field(&r.MinCharacters, validation.Min(0)),
		validation.Field(&r.Critical, validation.Each(
			validation.In(CheckColumns, CheckSections, CheckAbstract, CheckReferences, CheckStatistics),
		)),
	); err != nil {
		return err
	}
	if r.SectionTolerance > len(r.Sections) {
		return fmt.Errorf("rules: section_tolerance %d exceeds %d sections", r.SectionTolerance, len(r.Sections))
	}
	return nil
}

func (r *Rules) isCritical(name string) bool {
	for _, c := range r.Critical {
		if c == name {
			return true
		}
	}
	return false
}
