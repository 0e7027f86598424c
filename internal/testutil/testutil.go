// Package testutil provides shared test helpers for building documents,
// libraries and history databases.
package testutil

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/starford/papercheck/internal/history"
	"github.com/starford/papercheck/internal/storage"
)

const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const rootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// DocumentXML wraps body markup in a w:document element declaring the w, v and r prefixes.
func DocumentXML(body string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:v="urn:schemas-microsoft-com:vml" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <w:body>` + body + `</w:body>
</w:document>`
}

// Archive builds a zip archive from name → content pairs. Entries are
// written in name order so equal inputs give equal bytes.
func Archive(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	names := make([]string, 0, len(parts))
	for name := range parts {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(parts[name])); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// DocxBytes builds a minimal .docx archive whose body is body.
func DocxBytes(t *testing.T, body string) []byte {
	t.Helper()
	return Archive(t, map[string]string{
		"[Content_Types].xml": contentTypes,
		"_rels/.rels":         rootRels,
		"word/document.xml":   DocumentXML(body),
	})
}

// WriteDocx writes a minimal .docx with the given body under dir and returns its path.
func WriteDocx(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, DocxBytes(t, body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// Para returns a paragraph with a single text run.
func Para(text string) string {
	return `<w:p><w:r><w:t xml:space="preserve">` + escape(text) + `</w:t></w:r></w:p>`
}

// Heading returns a paragraph styled with the given style ID.
func Heading(style, text string) string {
	return `<w:p><w:pPr><w:pStyle w:val="` + style + `"/></w:pPr><w:r><w:t>` + escape(text) + `</w:t></w:r></w:p>`
}

// Columns returns a section properties element declaring num columns.
func Columns(num string) string {
	return `<w:sectPr><w:cols w:num="` + num + `" w:space="720"/></w:sectPr>`
}

// Paper returns a body that passes every check: two columns, all six
// headings, an abstract, references and more than 5000 characters.
func Paper() string {
	var b strings.Builder
	b.WriteString(Para("Abstract: " + strings.Repeat("x", 60)))
	for _, h := range []string{"Introduction", "Method", "Experiments", "Related Work", "Discussion", "Conclusion"} {
		b.WriteString(Heading("Heading1", h))
		b.WriteString(Para(strings.Repeat("lorem ipsum ", 80)))
	}
	b.WriteString(Heading("Heading1", "References"))
	b.WriteString(Para("[1] A. Author. A paper. 2024."))
	b.WriteString(Columns("2"))
	return b.String()
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// TestDB opens a temporary history database that is closed and removed on cleanup.
func TestDB(t *testing.T) *history.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "papercheck-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := history.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestLibrary creates a temporary library directory with a storage.Provider.
func TestLibrary(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}
