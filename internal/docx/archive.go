// Package docx reads the body part of Office Open XML word-processing
// documents into a generic element tree.
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"

	"github.com/starford/papercheck/internal/apperr"
)

// XML namespaces of the document body.
const (
	NamespaceW = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	NamespaceV = "urn:schemas-microsoft-com:vml"
	NamespaceR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// BodyPart is the archive entry holding the document body.
const BodyPart = "word/document.xml"

func prefixFor(space string) string {
	switch space {
	case NamespaceW:
		return "w"
	case NamespaceV:
		return "v"
	case NamespaceR:
		return "r"
	}
	return ""
}

// Document is a parsed document body.
type Document struct {
	Path string
	Root *Node
}

// Open reads and parses the body part of the archive at path.
// The archive is closed before Open returns.
func Open(path string) (*Document, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	defer zr.Close()

	root, err := parseBody(&zr.Reader)
	if err != nil {
		return nil, err
	}
	return &Document{Path: path, Root: root}, nil
}

// Read parses the body part of an archive held in r.
func Read(r io.ReaderAt, size int64) (*Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	root, err := parseBody(zr)
	if err != nil {
		return nil, err
	}
	return &Document{Root: root}, nil
}

// ReadBytes is Read over an in-memory archive.
func ReadBytes(data []byte) (*Document, error) {
	return Read(bytes.NewReader(data), int64(len(data)))
}

func parseBody(zr *zip.Reader) (*Node, error) {
	var part *zip.File
	for _, f := range zr.File {
		if f.Name == BodyPart {
			part = f
			break
		}
	}
	if part == nil {
		return nil, fmt.Errorf("%w: missing required file: %s", apperr.ErrInvalidDocument, BodyPart)
	}

	rc, err := part.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", BodyPart, err)
	}
	defer rc.Close()

	root, err := Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", BodyPart, err)
	}
	return root, nil
}

// Paragraphs returns every w:p element of the body, nested ones included.
func (d *Document) Paragraphs() []*Node {
	return d.Root.FindAll(NamespaceW, "p")
}

// ParagraphText returns the concatenated w:t text of a paragraph.
func ParagraphText(p *Node) string {
	return p.JoinText(NamespaceW, "t")
}

// ParagraphStyle returns the w:val of the first w:pStyle inside p.
func ParagraphStyle(p *Node) string {
	s := p.Find(NamespaceW, "pStyle")
	if s == nil {
		return ""
	}
	v, _ := s.Attr(NamespaceW, "val")
	return v
}
