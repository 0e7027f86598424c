package mcpserver

import (
	"fmt"
	"strings"

	"github.com/starford/papercheck/internal/checker"
)

// FormatRulesURI is the resource URI of the rendered format rules.
const FormatRulesURI = "papercheck://format-rules"

// FormatRules renders the active rules as the Markdown contract a paper
// must satisfy.
func FormatRules(r checker.Rules) string {
	critical := map[string]bool{}
	for _, c := range r.Critical {
		critical[c] = true
	}
	tag := func(name string) string {
		if critical[name] {
			return " **(critical)**"
		}
		return ""
	}

	var b strings.Builder
	b.WriteString("# Paper Format Rules\n\n")
	b.WriteString("A document passes when every critical check passes. ")
	b.WriteString("Other checks only warn.\n\n")

	b.WriteString("## Checks\n\n")
	fmt.Fprintf(&b, "1. **Column layout**%s: the section properties declare `w:cols w:num=\"%d\"`.\n",
		tag(checker.CheckColumns), r.Columns)
	fmt.Fprintf(&b, "2. **Section structure**%s: at least %d paragraphs whose style contains `%s` name one of: %s.\n",
		tag(checker.CheckSections), len(r.Sections)-r.SectionTolerance, r.HeadingStyle, strings.Join(r.Sections, ", "))
	fmt.Fprintf(&b, "3. **Abstract**%s: a paragraph containing \"%s\" longer than %d characters.\n",
		tag(checker.CheckAbstract), r.AbstractKeyword, r.AbstractMinLength)
	fmt.Fprintf(&b, "4. **References**%s: a paragraph containing \"%s\".\n",
		tag(checker.CheckReferences), r.ReferencesKeyword)
	fmt.Fprintf(&b, "5. **Statistics**%s: more than %d characters of paragraph text.\n",
		tag(checker.CheckStatistics), r.MinCharacters)

	b.WriteString("\n## Notes\n\n")
	b.WriteString("- Keyword and section matches ignore case. The style match does not.\n")
	b.WriteString("- Repeated headings each count toward the section total.\n")
	b.WriteString("- Lengths count characters, not bytes.\n")
	b.WriteString("- Only `word/document.xml` is read. Styles inherited from templates are not resolved.\n")
	return b.String()
}
