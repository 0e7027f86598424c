package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/papercheck/internal/checker"
	"github.com/starford/papercheck/internal/models"
	"github.com/starford/papercheck/internal/testutil"
)

func render(t *testing.T, r models.Report) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, r, Options{}))
	return buf.String()
}

func TestText_PassingPaper(t *testing.T) {
	path := testutil.WriteDocx(t, t.TempDir(), "paper.docx", testutil.Paper())
	out := render(t, checker.New(checker.DefaultRules()).CheckFile(path))

	assert.True(t, strings.HasPrefix(out, "Verifying format compliance of: "+path+"\n"+strings.Repeat("-", 60)+"\n"))
	assert.Contains(t, out, "\n[Check 1: Two-Column Layout]\n  ✓ Two-column layout detected (w:num=2)\n")
	assert.Contains(t, out, "\n[Check 2: Section Structure]\n  Expected sections: Introduction, Method, Experiments, Related Work, Discussion, Conclusion\n")
	assert.Contains(t, out, "  Found sections: Introduction, Method, Experiments, Related Work, Discussion, Conclusion\n  ✓ Major sections present\n")
	assert.Contains(t, out, "\n[Check 3: Abstract]\n  ✓ Abstract section found\n")
	assert.Contains(t, out, "\n[Check 4: References]\n  ✓ References section found\n")
	assert.Contains(t, out, "\n[Check 5: Document Statistics]\n  Total paragraphs: 15\n")
	assert.True(t, strings.HasSuffix(out, "\n"+strings.Repeat("=", 60)+"\nRESULT: All critical checks PASSED ✓\n"))
}

func TestText_FailingAbstract(t *testing.T) {
	r := checker.New(checker.DefaultRules()).CheckBytes("short.docx", testutil.DocxBytes(t, testutil.Para("Abstract: tiny")))
	out := render(t, r)

	assert.Contains(t, out, "  ✗ Abstract section not found or too short\n")
	assert.Contains(t, out, "  ⚠ No column specification found in document XML\n    (Template reference doc may handle column layout)\n")
	assert.True(t, strings.HasSuffix(out, "RESULT: Some checks FAILED or need review ⚠\n"))
}

func TestText_Error(t *testing.T) {
	r := models.Report{Path: "broken.docx", Error: "opening ZIP archive: zip: not a valid zip file"}
	out := render(t, r)

	want := "Verifying format compliance of: broken.docx\n" +
		strings.Repeat("-", 60) + "\n" +
		"\n✗ Error during verification: opening ZIP archive: zip: not a valid zip file\n" +
		"\n" + strings.Repeat("=", 60) + "\n" +
		"RESULT: Some checks FAILED or need review ⚠\n"
	assert.Equal(t, want, out)
}

func TestText_ByteIdenticalAcrossRuns(t *testing.T) {
	path := testutil.WriteDocx(t, t.TempDir(), "paper.docx", testutil.Paper())
	c := checker.New(checker.DefaultRules())
	assert.Equal(t, render(t, c.CheckFile(path)), render(t, c.CheckFile(path)))
}

func TestJSON(t *testing.T) {
	r := checker.New(checker.DefaultRules()).CheckBytes("paper.docx", testutil.DocxBytes(t, testutil.Paper()))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, r, Options{}))

	var decoded models.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.True(t, decoded.Verdict)
	assert.Len(t, decoded.Checks, 5)
	assert.Equal(t, "paper.docx", decoded.Path)
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, "yaml", models.Report{}, Options{})
	assert.Error(t, err)
}

func TestText_ColorForced(t *testing.T) {
	r := checker.New(checker.DefaultRules()).CheckBytes("paper.docx", testutil.DocxBytes(t, testutil.Paper()))

	var plain, colored bytes.Buffer
	require.NoError(t, Text(&plain, r, Options{}))
	require.NoError(t, Text(&colored, r, Options{Color: true}))

	assert.NotContains(t, plain.String(), "\x1b[")
	assert.Contains(t, colored.String(), "\x1b[")
	assert.Contains(t, colored.String(), "RESULT: All critical checks PASSED ✓")
}

func TestRuns_Table(t *testing.T) {
	runs := []models.Run{
		{ID: "run-b", Path: "b.docx", CheckedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), Report: models.Report{Error: "boom"}},
		{ID: "run-a", Path: "a.docx", CheckedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), Report: models.Report{Verdict: true, Stats: models.Stats{Characters: 6200}}},
	}

	var buf bytes.Buffer
	require.NoError(t, Runs(&buf, runs, 7, Options{}))
	out := buf.String()

	for _, want := range []string{"RUN", "OUTCOME", "run-a", "run-b", "passed", "errored", "6200", "a.docx"} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "run-b"), strings.Index(out, "run-a"))
	assert.True(t, strings.HasSuffix(out, "Showing 2 of 7 runs\n"))
	assert.NotContains(t, out, "\x1b[")
}

func TestRuns_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Runs(&buf, nil, 0, Options{}))
	assert.Equal(t, "No runs recorded.\n", buf.String())
}
