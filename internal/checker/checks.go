package checker

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/starford/papercheck/internal/docx"
	"github.com/starford/papercheck/internal/models"
)

var countWords = map[int]string{
	1: "Single", 2: "Two", 3: "Three", 4: "Four", 5: "Five", 6: "Six",
}

func columnWord(n int) string {
	if w, ok := countWords[n]; ok {
		return w
	}
	return strconv.Itoa(n)
}

func columnsTitle(r Rules) string {
	return columnWord(r.Columns) + "-Column Layout"
}

// columnCount reads the column count of a w:cols node. Later rules override
// earlier ones: w:num, then bare num, then the first attribute whose local
// name contains "num" in any case.
func columnCount(cols *docx.Node) string {
	num, _ := cols.Attr(docx.NamespaceW, "num")
	if num == "" {
		num, _ = cols.Attr("", "num")
	}
	for _, a := range cols.Attrs {
		if a.Name.Space == "xmlns" {
			continue
		}
		if strings.Contains(strings.ToLower(a.Name.Local), "num") {
			num = a.Value
			break
		}
	}
	return num
}

func checkColumns(b *body, r Rules, _ *models.Report) outcome {
	var out outcome
	want := strconv.Itoa(r.Columns)

	all := b.doc.Root.FindAll(docx.NamespaceW, "cols")
	if len(all) == 0 {
		out.miss("No column specification found in document XML")
		out.detail("(Template reference doc may handle column layout)")
		return out
	}

	var num string
	for _, cols := range all {
		num = columnCount(cols)
		if num == "" {
			continue
		}
		if num == want {
			out.pass(fmt.Sprintf("%s-column layout detected (w:num=%s)", columnWord(r.Columns), num))
			return out
		}
		out.miss(fmt.Sprintf("Column specification found but set to %s columns", num))
	}

	if num == "" {
		names := make([]string, len(all))
		for i, cols := range all {
			names[i] = "[" + strings.Join(cols.AttrNames(), " ") + "]"
		}
		out.miss("Column elements found but couldn't read num attribute")
		out.detail("Attributes found: " + strings.Join(names, " "))
	}
	return out
}

// isHeadingStyle matches the style marker case-sensitively, so "heading1"
// is not a heading when the marker is "Heading".
func isHeadingStyle(style, marker string) bool {
	return style != "" && strings.Contains(style, marker)
}

func checkSections(b *body, r Rules, report *models.Report) outcome {
	var out outcome
	found := []string{}

	for i, p := range b.paragraphs {
		if !isHeadingStyle(docx.ParagraphStyle(p), r.HeadingStyle) {
			continue
		}
		for _, name := range r.Sections {
			if containsFold(b.texts[i], name) {
				found = append(found, name)
				break
			}
		}
	}
	report.Sections = found

	out.info("Expected sections: " + strings.Join(r.Sections, ", "))
	if len(found) > 0 {
		out.info("Found sections: " + strings.Join(found, ", "))
	} else {
		out.info("Found sections: None")
	}

	if len(found) >= len(r.Sections)-r.SectionTolerance {
		out.pass("Major sections present")
	} else {
		out.miss("Some expected sections may be missing")
	}
	return out
}

func checkAbstract(b *body, r Rules, _ *models.Report) outcome {
	var out outcome
	for _, text := range b.texts {
		if containsFold(text, r.AbstractKeyword) && length(text) > r.AbstractMinLength {
			out.pass("Abstract section found")
			return out
		}
	}
	out.miss("Abstract section not found or too short")
	return out
}

func checkReferences(b *body, r Rules, _ *models.Report) outcome {
	var out outcome
	for _, text := range b.texts {
		if containsFold(text, r.ReferencesKeyword) {
			out.pass("References section found")
			return out
		}
	}
	out.miss("References section not clearly identified")
	return out
}

func checkStatistics(b *body, r Rules, report *models.Report) outcome {
	var out outcome
	total := 0
	for _, raw := range b.raw {
		total += length(raw)
	}
	report.Stats = models.Stats{Paragraphs: len(b.paragraphs), Characters: total}

	out.info(fmt.Sprintf("Total paragraphs: %d", report.Stats.Paragraphs))
	out.info(fmt.Sprintf("Total text length: %d characters", total))
	if total > r.MinCharacters {
		out.pass("Sufficient content present")
	} else {
		out.miss("Content may be too short for a full paper")
	}
	return out
}
