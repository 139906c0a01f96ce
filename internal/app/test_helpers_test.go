package app

import (
	"context"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/andyballingall/jerify/internal/metrics"
	"github.com/andyballingall/jerify/internal/schema"
	"github.com/andyballingall/jerify/internal/validator"
)

const testSchema = `{
  "type": "object",
  "required": ["target"],
  "properties": {
    "target": {"type": "string"}
  }
}`

type MockManager struct {
	mock.Mock
	store *schema.Store
}

func (m *MockManager) Store() *schema.Store {
	return m.store
}

func (m *MockManager) Serve(ctx context.Context, listen string, watch bool, ready func(net.Addr)) error {
	args := m.Called(ctx, listen, watch)
	return args.Error(0)
}

func (m *MockManager) Check(ctx context.Context, verbose bool, format string, useColour bool) error {
	args := m.Called(ctx, verbose, format, useColour)
	return args.Error(0)
}

func (m *MockManager) ValidateDocument(ctx context.Context, name string, doc io.Reader) error {
	b, _ := io.ReadAll(doc)
	args := m.Called(ctx, name, string(b))
	return args.Error(0)
}

// writeSchemas creates a schema directory holding the given files.
func writeSchemas(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	return dir
}

// newTestManager returns a CLIManager over dir which writes its reports to out.
func newTestManager(t *testing.T, dir string, out io.Writer) (*CLIManager, *metrics.Metrics) {
	t.Helper()
	c, err := validator.New(validator.EngineSanthosh, validator.Draft4)
	require.NoError(t, err)
	logger := slog.New(slog.DiscardHandler)
	m := metrics.New()
	return NewCLIManager(logger, schema.NewStore(dir, c, logger), m, out), m
}
