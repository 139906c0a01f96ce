package app

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/andyballingall/jerify/internal/schema"
)

func TestLazyManager(t *testing.T) {
	t.Parallel()

	t.Run("panics before initialisation", func(t *testing.T) {
		t.Parallel()
		l := &LazyManager{}
		assert.False(t, l.HasInner())
		assert.Panics(t, func() { l.Store() })
	})

	t.Run("delegates to inner", func(t *testing.T) {
		t.Parallel()
		mgr := &MockManager{}
		mgr.On("Check", context.Background(), true, "json", false).Return(nil)
		mgr.On("ValidateDocument", context.Background(), "test", `{}`).Return(nil)
		mgr.On("Serve", context.Background(), ":0", true).Return(nil)

		l := &LazyManager{}
		l.SetInner(mgr)
		require.True(t, l.HasInner())
		require.NoError(t, l.Check(context.Background(), true, "json", false))
		require.NoError(t, l.ValidateDocument(context.Background(), "test", strings.NewReader(`{}`)))
		require.NoError(t, l.Serve(context.Background(), ":0", true, nil))
		assert.Nil(t, l.Store())
		mgr.AssertExpectations(t)
	})

	t.Run("close", func(t *testing.T) {
		t.Parallel()
		l := &LazyManager{}
		f, err := os.CreateTemp(t.TempDir(), "log")
		require.NoError(t, err)
		l.OnClose(f)
		require.NoError(t, l.Close())
		require.NoError(t, l.Close())
		_, err = f.Write([]byte("x"))
		assert.Error(t, err)
	})
}

func TestCLIManager_Check(t *testing.T) {
	t.Parallel()

	t.Run("all schemas load", func(t *testing.T) {
		t.Parallel()
		dir := writeSchemas(t, map[string]string{"test.schema.json": testSchema})
		var out bytes.Buffer
		m, met := newTestManager(t, dir, &out)

		require.NoError(t, m.Check(context.Background(), true, "text", false))
		assert.Contains(t, out.String(), "[OK] test (test.schema.json)")
		assert.Contains(t, out.String(), "Schema summary: 1 loaded, 0 skipped")
		assert.InDelta(t, 1, testutil.ToFloat64(met.SchemasLoaded), 0)
		assert.InDelta(t, 1, testutil.ToFloat64(met.SchemaLoads), 0)
	})

	t.Run("skipped files fail the check", func(t *testing.T) {
		t.Parallel()
		dir := writeSchemas(t, map[string]string{
			"test.schema.json":   testSchema,
			"broken.schema.json": `{"type": `,
		})
		var out bytes.Buffer
		m, met := newTestManager(t, dir, &out)

		err := m.Check(context.Background(), false, "text", false)
		var skipped *SchemasSkippedError
		require.ErrorAs(t, err, &skipped)
		assert.Equal(t, 1, skipped.Count)
		assert.Contains(t, out.String(), "[SKIPPED] broken.schema.json")
		assert.InDelta(t, 1, testutil.ToFloat64(met.SchemasSkipped), 0)
	})

	t.Run("json output", func(t *testing.T) {
		t.Parallel()
		dir := writeSchemas(t, map[string]string{"test.schema.json": testSchema})
		var out bytes.Buffer
		m, _ := newTestManager(t, dir, &out)

		require.NoError(t, m.Check(context.Background(), false, "json", false))
		assert.Equal(t, "test", gjson.Get(out.String(), "loaded.0.name").String())
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		m, _ := newTestManager(t, filepath.Join(t.TempDir(), "nope"), &out)

		err := m.Check(context.Background(), false, "text", false)
		var notFound *schema.SchemaDirNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Contains(t, out.String(), "[MISSING]")
	})
}

func TestCLIManager_ValidateDocument(t *testing.T) {
	t.Parallel()
	dir := writeSchemas(t, map[string]string{"test.schema.json": testSchema})

	tests := []struct {
		name    string
		schema  string
		doc     string
		wantOut string
		check   func(t *testing.T, err error)
	}{
		{
			name: "valid", schema: "test", doc: `{"target": "world"}`, wantOut: "valid\n",
			check: func(t *testing.T, err error) { require.NoError(t, err) },
		},
		{
			name: "invalid", schema: "test", doc: `{"target": 5}`,
			check: func(t *testing.T, err error) {
				var vErr *schema.ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, "/target", vErr.Location)
				assert.Equal(t, "got number, want string", vErr.Message)
			},
		},
		{
			name: "unknown schema", schema: "nope", doc: `{}`,
			check: func(t *testing.T, err error) {
				var unknown *schema.UnknownSchemaError
				require.ErrorAs(t, err, &unknown)
				assert.Equal(t, "nope", unknown.Name)
			},
		},
		{
			name: "not json", schema: "test", doc: `oops`,
			check: func(t *testing.T, err error) {
				var invalid *InvalidDocumentError
				require.ErrorAs(t, err, &invalid)
				assert.Contains(t, err.Error(), "Received invalid JSON")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			m, _ := newTestManager(t, dir, &out)
			tt.check(t, m.ValidateDocument(context.Background(), tt.schema, strings.NewReader(tt.doc)))
			assert.Equal(t, tt.wantOut, out.String())
		})
	}
}

// startServe runs Serve in the background and returns the base URL once it listens.
func startServe(t *testing.T, m *CLIManager, watch bool) (string, context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	addrCh := make(chan net.Addr, 1)
	done := make(chan error, 1)
	go func() {
		done <- m.Serve(ctx, "127.0.0.1:0", watch, func(a net.Addr) { addrCh <- a })
	}()

	select {
	case a := <-addrCh:
		return "http://" + a.String(), cancel, done
	case err := <-done:
		cancel()
		t.Fatalf("serve returned early: %v", err)
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("server did not start")
	}
	return "", cancel, done
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func TestCLIManager_Serve(t *testing.T) {
	t.Parallel()
	dir := writeSchemas(t, map[string]string{"test.schema.json": testSchema})
	m, _ := newTestManager(t, dir, io.Discard)

	base, cancel, done := startServe(t, m, false)

	code, body := get(t, base+"/v1/readiness")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", body)

	resp, err := http.Post(base+"/test", "application/json", strings.NewReader(`{"target": "world"}`))
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"target":"world"}`, string(b))

	code, body = get(t, base+"/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "jerify_schemas_loaded 1")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestCLIManager_ServeWatch(t *testing.T) {
	t.Parallel()
	dir := writeSchemas(t, map[string]string{"test.schema.json": testSchema})
	m, met := newTestManager(t, dir, io.Discard)

	base, cancel, done := startServe(t, m, true)
	defer func() {
		cancel()
		<-done
	}()

	// The watcher may not be registered yet, so keep touching the file.
	extra := filepath.Join(dir, "extra.schema.json")
	require.Eventually(t, func() bool {
		if err := os.WriteFile(extra, []byte(testSchema), 0o600); err != nil {
			return false
		}
		resp, err := http.Get(base + "/v1/schemas")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		return err == nil && strings.Contains(string(b), "extra")
	}, 5*time.Second, 200*time.Millisecond)

	assert.GreaterOrEqual(t, testutil.ToFloat64(met.SchemaLoads), float64(2))
}

func TestCLIManager_ServeMissingDir(t *testing.T) {
	t.Parallel()
	m, _ := newTestManager(t, filepath.Join(t.TempDir(), "nope"), io.Discard)

	base, cancel, done := startServe(t, m, true)

	code, body := get(t, base+"/v1/readiness")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "no schemas loaded", body)

	cancel()
	require.NoError(t, <-done)
}

func TestCLIManager_ServeListenError(t *testing.T) {
	t.Parallel()
	dir := writeSchemas(t, map[string]string{"test.schema.json": testSchema})
	m, _ := newTestManager(t, dir, io.Discard)

	err := m.Serve(context.Background(), "256.0.0.1:http", false, nil)
	require.Error(t, err)
}
