package schema

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andyballingall/jerify/internal/validator"
)

// blockingCompiler holds its first Compile call until release is closed.
type blockingCompiler struct {
	validator.Compiler
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (b *blockingCompiler) Compile(id string) (validator.Validator, error) {
	b.once.Do(func() {
		close(b.entered)
		<-b.release
	})
	return b.Compiler.Compile(id)
}

func TestStore(t *testing.T) {
	t.Parallel()

	t.Run("empty until loaded", func(t *testing.T) {
		t.Parallel()
		logger, _ := testLogger()
		s := NewStore(t.TempDir(), newCompiler(t), logger)
		assert.Equal(t, 0, s.Registry().Len())
		assert.Nil(t, s.LastReport())

		var unknown *UnknownSchemaError
		require.ErrorAs(t, s.Validate(parse(t, `{}`), "test"), &unknown)
	})

	t.Run("load and validate", func(t *testing.T) {
		t.Parallel()
		logger, logs := testLogger()
		dir := t.TempDir()
		writeSchema(t, dir, "test.schema.json", testSchema)
		s := NewStore(dir, newCompiler(t), logger)

		reg, report := s.Load()
		assert.Same(t, reg, s.Registry())
		assert.Same(t, report, s.LastReport())
		assert.Equal(t, dir, s.Dir())
		require.NoError(t, s.Validate(parse(t, `{"target": "world"}`), "test"))
		assert.Contains(t, logs.String(), "component=schemas")
	})

	t.Run("reload swaps registry and keeps the old one intact", func(t *testing.T) {
		t.Parallel()
		logger, _ := testLogger()
		dir := t.TempDir()
		p := writeSchema(t, dir, "test.schema.json", testSchema)
		s := NewStore(dir, newCompiler(t), logger)

		before, _ := s.Load()
		require.NoError(t, os.Remove(p))
		writeSchema(t, dir, "other.schema.json", `{"type": "string"}`)
		after, _ := s.Load()

		assert.NotSame(t, before, after)
		assert.Equal(t, []string{"test"}, before.Names())
		assert.Equal(t, []string{"other"}, after.Names())
		require.NoError(t, before.Validate(parse(t, `{"target": "x"}`), "test"))
	})

	t.Run("concurrent loads", func(t *testing.T) {
		t.Parallel()
		logger, _ := testLogger()
		s := NewStore(fixtureDir(t), newCompiler(t), logger)

		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				reg, report := s.Load()
				assert.Equal(t, 4, reg.Len())
				assert.Len(t, report.Loaded, 4)
			}()
		}
		wg.Wait()
		assert.Equal(t, 4, s.Registry().Len())
	})

	t.Run("load during a running load rescans the directory", func(t *testing.T) {
		t.Parallel()
		logger, _ := testLogger()
		dir := t.TempDir()
		writeSchema(t, dir, "a.schema.json", testSchema)
		bc := &blockingCompiler{
			Compiler: newCompiler(t),
			entered:  make(chan struct{}),
			release:  make(chan struct{}),
		}
		s := NewStore(dir, bc, logger)

		first := make(chan *Registry, 1)
		go func() {
			reg, _ := s.Load()
			first <- reg
		}()
		<-bc.entered

		writeSchema(t, dir, "b.schema.json", testSchema)
		second := make(chan *Registry, 1)
		go func() {
			reg, _ := s.Load()
			second <- reg
		}()
		time.Sleep(50 * time.Millisecond)
		close(bc.release)

		assert.Equal(t, []string{"a"}, (<-first).Names())
		assert.Equal(t, []string{"a", "b"}, (<-second).Names())
		assert.Equal(t, []string{"a", "b"}, s.Registry().Names())
	})
}
