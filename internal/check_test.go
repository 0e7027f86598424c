package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/papercheck/internal/models"
	"github.com/starford/papercheck/internal/testutil"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg := NewDefaultConfig()
	dir := t.TempDir()
	cfg.Library.Path = filepath.Join(dir, "papers")
	cfg.History.Path = filepath.Join(dir, "history.db")
	cfg.Watch.Debounce = 50 * time.Millisecond
	return cfg
}

func TestCheck_MissingFile(t *testing.T) {
	var out bytes.Buffer
	path := filepath.Join(t.TempDir(), "build", "paper.docx")

	ok, err := Check(context.Background(), path, WithConfig(testConfig(t)), WithOutput(&out))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "Error: File not found: "+path+"\n", out.String())
}

func TestCheck_MissingFileJSON(t *testing.T) {
	var out bytes.Buffer
	path := filepath.Join(t.TempDir(), "paper.docx")

	ok, err := Check(context.Background(), path, WithConfig(testConfig(t)), WithOutput(&out), WithFormat("json"))
	require.NoError(t, err)
	assert.False(t, ok)

	var got models.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, path, got.Path)
	assert.Equal(t, "file not found", got.Error)
	assert.False(t, got.Verdict)
	assert.Empty(t, got.Checks)
}

func TestCheck_Passing(t *testing.T) {
	var out bytes.Buffer
	path := testutil.WriteDocx(t, t.TempDir(), "paper.docx", testutil.Paper())

	ok, err := Check(context.Background(), path, WithConfig(testConfig(t)), WithOutput(&out), WithColor(ColorNever))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, strings.HasPrefix(out.String(), "Verifying format compliance of: "+path+"\n"))
	assert.True(t, strings.HasSuffix(out.String(), "RESULT: All critical checks PASSED ✓\n"))
	assert.NotContains(t, out.String(), "\x1b[")
}

func TestCheck_FailingVerdict(t *testing.T) {
	var out bytes.Buffer
	path := testutil.WriteDocx(t, t.TempDir(), "paper.docx", testutil.Para("Introduction"))

	ok, err := Check(context.Background(), path, WithConfig(testConfig(t)), WithOutput(&out))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, out.String(), "  ✗ Abstract section not found or too short\n")
	assert.True(t, strings.HasSuffix(out.String(), "RESULT: Some checks FAILED or need review ⚠\n"))
}

func TestCheck_CustomRules(t *testing.T) {
	cfg := testConfig(t)
	cfg.Rules.Critical = nil
	path := testutil.WriteDocx(t, t.TempDir(), "paper.docx", testutil.Para("Introduction"))

	ok, err := Check(context.Background(), path, WithConfig(cfg), WithOutput(&bytes.Buffer{}))
	require.NoError(t, err)
	assert.True(t, ok, "no critical checks means the verdict always passes")
}

func TestCheck_JSON(t *testing.T) {
	var out bytes.Buffer
	path := testutil.WriteDocx(t, t.TempDir(), "paper.docx", testutil.Paper())

	ok, err := Check(context.Background(), path, WithConfig(testConfig(t)), WithOutput(&out), WithFormat("json"))
	require.NoError(t, err)
	assert.True(t, ok)

	var rep models.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &rep))
	assert.Equal(t, path, rep.Path)
	assert.True(t, rep.Verdict)
	assert.Len(t, rep.Checks, 5)
}

func TestCheck_UnknownFormat(t *testing.T) {
	var out bytes.Buffer
	_, err := Check(context.Background(), "whatever.docx", WithConfig(testConfig(t)), WithOutput(&out), WithFormat("xml"))
	assert.Error(t, err)
	assert.Empty(t, out.String())
}

func TestCheck_RecordThenHistory(t *testing.T) {
	cfg := testConfig(t)
	good := testutil.WriteDocx(t, t.TempDir(), "good.docx", testutil.Paper())
	bad := testutil.WriteDocx(t, t.TempDir(), "bad.docx", testutil.Para("x"))

	for _, p := range []string{good, bad} {
		_, err := Check(context.Background(), p, WithConfig(cfg), WithOutput(&bytes.Buffer{}), WithRecord(true))
		require.NoError(t, err)
	}

	var out bytes.Buffer
	require.NoError(t, History(context.Background(), "", 10, WithConfig(cfg), WithOutput(&out), WithColor(ColorNever)))
	assert.Contains(t, out.String(), "passed")
	assert.Contains(t, out.String(), "failed")
	assert.True(t, strings.HasSuffix(out.String(), "Showing 2 of 2 runs\n"))

	out.Reset()
	require.NoError(t, History(context.Background(), bad, 10, WithConfig(cfg), WithOutput(&out), WithFormat("json")))
	var resp struct {
		Runs  []models.Run `json:"runs"`
		Total int          `json:"total"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Runs, 1)
	assert.Equal(t, bad, resp.Runs[0].Path)
	assert.False(t, resp.Runs[0].Report.Verdict)
}

func TestHistory_Empty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, History(context.Background(), "", 0, WithConfig(testConfig(t)), WithOutput(&out)))
	assert.Equal(t, "No runs recorded.\n", out.String())
}

func TestWatch_MissingFile(t *testing.T) {
	var out bytes.Buffer
	path := filepath.Join(t.TempDir(), "paper.docx")
	err := Watch(context.Background(), path, WithConfig(testConfig(t)), WithOutput(&out))
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.Equal(t, "Error: File not found: "+path+"\n", out.String())
}

// syncBuffer guards a bytes.Buffer shared with the watch goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatch_ReprintsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteDocx(t, dir, "paper.docx", testutil.Para("Introduction"))
	out := &syncBuffer{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, WithConfig(testConfig(t)), WithOutput(out), WithErrOutput(&bytes.Buffer{}))
	}()

	require.Eventually(t, func() bool {
		return strings.Count(out.String(), "RESULT:") == 1
	}, 5*time.Second, 20*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	testutil.WriteDocx(t, dir, "paper.docx", testutil.Paper())
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "RESULT: All critical checks PASSED ✓")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
	assert.Equal(t, 2, strings.Count(out.String(), "RESULT:"))
}
