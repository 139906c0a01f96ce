package schema

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/otiai10/copy"
	"github.com/stretchr/testify/require"

	"github.com/andyballingall/jerify/internal/validator"
)

const testSchema = `{
  "type": "object",
  "required": ["target"],
  "properties": {"target": {"type": "string"}}
}`

// fixtureDir copies testdata/schemas into a fresh temporary directory.
func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "schemas")
	require.NoError(t, copy.Copy(filepath.Join("testdata", "schemas"), dir))
	return dir
}

// writeSchema writes content to rel under dir, creating parent directories.
func writeSchema(t *testing.T, dir, rel, content string) string {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func parse(t *testing.T, s string) validator.JSONDocument {
	t.Helper()
	doc, err := validator.ParseDocument(strings.NewReader(s))
	require.NoError(t, err)
	return doc
}

// syncBuffer is a bytes.Buffer safe for use by concurrent log handlers.
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

func testLogger() (*slog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

func newCompiler(t *testing.T) validator.Compiler {
	t.Helper()
	c, err := validator.New(validator.EngineSanthosh, validator.Draft4)
	require.NoError(t, err)
	return c
}
