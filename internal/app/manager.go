package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"

	"golang.org/x/sync/errgroup"

	"github.com/andyballingall/jerify"
	"github.com/andyballingall/jerify/internal/fs"
	"github.com/andyballingall/jerify/internal/metrics"
	"github.com/andyballingall/jerify/internal/report"
	"github.com/andyballingall/jerify/internal/schema"
	"github.com/andyballingall/jerify/internal/server"
	"github.com/andyballingall/jerify/internal/validator"
)

// Manager defines the operations behind the jerify commands.
type Manager interface {
	Serve(ctx context.Context, listen string, watch bool, ready func(net.Addr)) error
	Check(ctx context.Context, verbose bool, format string, useColour bool) error
	ValidateDocument(ctx context.Context, name string, doc io.Reader) error
	Store() *schema.Store
}

// Ensure the interface is satisfied.
var _ Manager = (*LazyManager)(nil)

// LazyManager acts as a placeholder for a real Manager implementation, allowing
// for deferred initialization of dependencies.
type LazyManager struct {
	inner   Manager
	closers []io.Closer
}

func (l *LazyManager) SetInner(m Manager) {
	l.inner = m
}

// HasInner returns true if the inner manager has been set.
// This is used by PersistentPreRunE to skip initialization if already configured (e.g., in tests).
func (l *LazyManager) HasInner() bool {
	return l.inner != nil
}

// OnClose registers c to be closed by Close.
func (l *LazyManager) OnClose(c io.Closer) {
	l.closers = append(l.closers, c)
}

// Close releases the resources acquired while initialising the inner manager.
func (l *LazyManager) Close() error {
	var errs []error
	for _, c := range l.closers {
		errs = append(errs, c.Close())
	}
	l.closers = nil
	return errors.Join(errs...)
}

func (l *LazyManager) check() Manager {
	if l.inner == nil {
		panic("LazyManager accessed before initialization; check command wiring.")
	}
	return l.inner
}

func (l *LazyManager) Serve(ctx context.Context, listen string, watch bool, ready func(net.Addr)) error {
	return l.check().Serve(ctx, listen, watch, ready)
}

func (l *LazyManager) Check(ctx context.Context, verbose bool, format string, useColour bool) error {
	return l.check().Check(ctx, verbose, format, useColour)
}

func (l *LazyManager) ValidateDocument(ctx context.Context, name string, doc io.Reader) error {
	return l.check().ValidateDocument(ctx, name, doc)
}

func (l *LazyManager) Store() *schema.Store {
	return l.check().Store()
}

// Ensure the interface is satisfied.
var _ Manager = (*CLIManager)(nil)

// CLIManager is the concrete implementation of the Manager interface.
type CLIManager struct {
	logger         *slog.Logger
	store          *schema.Store
	metrics        *metrics.Metrics
	reporterWriter io.Writer
}

func NewCLIManager(l *slog.Logger, s *schema.Store, m *metrics.Metrics, w io.Writer) *CLIManager {
	return &CLIManager{
		logger:         l,
		store:          s,
		metrics:        m,
		reporterWriter: w,
	}
}

func (m *CLIManager) Store() *schema.Store {
	return m.store
}

// load reads the schema directory and publishes the outcome to the metrics.
func (m *CLIManager) load() *schema.LoadReport {
	_, r := m.store.Load()
	m.metrics.SchemasLoadedCount(len(r.Loaded), len(r.Skipped))
	return r
}

// Serve hosts the example service until ctx is cancelled. With watch set, the
// schema directory is monitored and every change reloads the store, so the
// running service picks up new and edited schemas.
func (m *CLIManager) Serve(ctx context.Context, listen string, watch bool, ready func(net.Addr)) error {
	m.logger.Debug("serving", "listen", listen, "watch", watch)

	m.load()

	j := jerify.NewWithStore(m.store, jerify.WithLogger(m.logger), jerify.WithRecorder(m.metrics))
	srv := server.New(listen, server.NewRouter(j, m.metrics.Handler()), m.logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx, ready)
	})

	if watch {
		if !fs.IsDir(m.store.Dir()) {
			m.logger.Warn("Not watching for changes: schema directory not found", "dir", m.store.Dir())
		} else {
			w := schema.NewWatcher(m.store.Dir(), m.logger)
			g.Go(func() error {
				err := w.Watch(gctx, func() {
					m.logger.Info("Schema directory changed")
					m.load()
				})
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
		}
	}

	return g.Wait()
}

// Check loads the schema directory and writes a report of the outcome. It
// fails when the directory is missing or any file was skipped.
func (m *CLIManager) Check(_ context.Context, verbose bool, format string, useColour bool) error {
	m.logger.Debug("checking schemas", "dir", m.store.Dir(), "verbose", verbose, "format", format,
		"useColour", useColour)

	r := m.load()
	if err := report.New(format, verbose, useColour).Write(m.reporterWriter, r); err != nil {
		return err
	}

	switch {
	case r.DirMissing:
		return &schema.SchemaDirNotFoundError{Path: r.Dir}
	case len(r.Skipped) > 0:
		return &SchemasSkippedError{Count: len(r.Skipped)}
	}
	return nil
}

// ValidateDocument checks one JSON document against the named schema and
// prints "valid" when it conforms.
func (m *CLIManager) ValidateDocument(_ context.Context, name string, doc io.Reader) error {
	m.logger.Debug("validating document", "schema", name)

	m.load()
	parsed, err := validator.ParseDocument(doc)
	if err != nil {
		return &InvalidDocumentError{Wrapped: err}
	}
	if err := m.store.Validate(parsed, name); err != nil {
		return err
	}

	_, err = fmt.Fprintln(m.reporterWriter, "valid")
	return err
}
