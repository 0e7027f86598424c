package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/papercheck/internal/apperr"
	"github.com/starford/papercheck/internal/checksum"
)

func tempLibrary(t *testing.T) (string, *FS) {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	require.NoError(t, err)
	return dir, fs
}

func writeFile(t *testing.T, dir, rel string, data []byte) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, data, 0o644))
}

func TestNewFS_NotDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.docx")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := NewFS(file)
	assert.Error(t, err)

	_, err = NewFS(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	dir, s := tempLibrary(t)
	writeFile(t, dir, "b.docx", []byte("b"))
	writeFile(t, dir, "sub/a.DOCX", []byte("a"))
	writeFile(t, dir, "notes.md", []byte("skip"))
	writeFile(t, dir, "~$b.docx", []byte("lock"))

	metas, err := s.List("")
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, "b.docx", metas[0].Path)
	assert.Equal(t, "sub/a.DOCX", metas[1].Path)
	assert.Equal(t, checksum.Sum([]byte("b")), metas[0].Checksum)
	assert.Equal(t, int64(1), metas[0].Size)
}

func TestList_Subdir(t *testing.T) {
	dir, s := tempLibrary(t)
	writeFile(t, dir, "top.docx", []byte("t"))
	writeFile(t, dir, "drafts/one.docx", []byte("1"))

	metas, err := s.List("drafts")
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Equal(t, "drafts/one.docx", metas[0].Path)
}

func TestList_EmptyIsNotNil(t *testing.T) {
	_, s := tempLibrary(t)
	metas, err := s.List("")
	require.NoError(t, err)
	assert.NotNil(t, metas)
	assert.Empty(t, metas)
}

func TestRead(t *testing.T) {
	dir, s := tempLibrary(t)
	writeFile(t, dir, "paper.docx", []byte("data"))

	got, err := s.Read("paper.docx")
	require.NoError(t, err)
	assert.Equal(t, "data", string(got))

	_, err = s.Read("missing.docx")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPathTraversal(t *testing.T) {
	_, s := tempLibrary(t)

	_, err := s.Read("../../etc/passwd")
	assert.ErrorIs(t, err, apperr.ErrInvalidPath)

	_, err = s.Read("/etc/passwd")
	assert.ErrorIs(t, err, apperr.ErrInvalidPath)

	_, err = s.List("../")
	assert.Error(t, err)
}

func TestRel(t *testing.T) {
	dir, s := tempLibrary(t)

	rel, err := s.Rel(filepath.Join(s.Root(), "sub", "x.docx"))
	require.NoError(t, err)
	assert.Equal(t, "sub/x.docx", rel)

	_, err = s.Rel(filepath.Dir(dir))
	assert.Error(t, err)
}

func TestIsDocument(t *testing.T) {
	assert.True(t, IsDocument("paper.docx"))
	assert.True(t, IsDocument("dir/Paper.DOCX"))
	assert.False(t, IsDocument("~$paper.docx"))
	assert.False(t, IsDocument("paper.doc"))
	assert.False(t, IsDocument("paper.docx.tmp"))
}
