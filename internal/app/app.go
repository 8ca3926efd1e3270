// Package app wires configuration, logging, documents and Lua scripting
// into one editing session.
package app

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/dshills/quill/internal/config"
	"github.com/dshills/quill/internal/engine"
	"github.com/dshills/quill/internal/script"
	"github.com/dshills/quill/internal/workspace"
)

// App is an editing session.
type App struct {
	mu      sync.RWMutex
	cfg     *config.Config
	watcher *config.Watcher

	logger    *Logger
	metrics   *Metrics
	docs      *workspace.Manager
	scriptOut io.Writer

	closed atomic.Bool
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger. By default one is built from the config's
// log section, writing to stderr.
func WithLogger(l *Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMetrics sets the metrics tracker.
func WithMetrics(m *Metrics) Option {
	return func(a *App) {
		if m != nil {
			a.metrics = m
		}
	}
}

// WithScriptOutput sets where Lua print writes. Defaults to io.Discard.
func WithScriptOutput(w io.Writer) Option {
	return func(a *App) {
		if w != nil {
			a.scriptOut = w
		}
	}
}

// New creates an App from cfg. A nil cfg means config.Default().
func New(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}

	a := &App{
		cfg:       cfg,
		metrics:   NewMetrics(),
		scriptOut: io.Discard,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = NewLogger(LoggerConfig{
			Level:  ParseLogLevel(cfg.Log.Level),
			Output: os.Stderr,
			Format: cfg.Log.Format,
			Prefix: "quill",
		})
	}

	engineOpts := append(cfg.EngineOptions(), engine.WithLogger(a.logger.WithComponent("engine")))
	a.docs = workspace.NewManager(workspace.WithEngineOptions(engineOpts...))

	return a, nil
}

// Config returns the current configuration.
func (a *App) Config() *config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg
}

// Logger returns the application's logger.
func (a *App) Logger() *Logger {
	return a.logger
}

// Metrics returns the application's metrics.
func (a *App) Metrics() *Metrics {
	return a.metrics
}

// Workspace returns the open documents.
func (a *App) Workspace() *workspace.Manager {
	return a.docs
}

// NewDocument opens an unnamed document holding content.
func (a *App) NewDocument(content string) *workspace.Document {
	doc := a.docs.NewDocument(content)
	a.logger.Debug("new document", "name", doc.Name)
	return doc
}

// Read reads r into an unnamed document and makes it active.
func (a *App) Read(r io.Reader) (*workspace.Document, error) {
	if a.closed.Load() {
		return nil, ErrClosed
	}
	doc, err := a.docs.Read(r)
	if err != nil {
		return nil, err
	}
	a.metrics.RecordOpen()
	a.logger.Debug("read document", "name", doc.Name, "lines", doc.Engine.LenLines())
	return doc, nil
}

// Open reads the file at path into a document and makes it active.
func (a *App) Open(path string) (*workspace.Document, error) {
	if a.closed.Load() {
		return nil, ErrClosed
	}
	doc, err := a.docs.Open(path)
	if err != nil {
		return nil, err
	}
	a.metrics.RecordOpen()
	a.logger.Info("opened document", "path", doc.Path, "lines", doc.Engine.LenLines())
	return doc, nil
}

// Save writes doc to its path.
func (a *App) Save(doc *workspace.Document) error {
	if err := a.docs.Save(doc.ID); err != nil {
		return NewOperationError("save", doc.Name, err)
	}
	a.metrics.RecordSave()
	a.logger.Info("saved document", "path", doc.Path)
	return nil
}

// SaveAs writes doc to path and makes path its new location.
func (a *App) SaveAs(doc *workspace.Document, path string) error {
	if err := a.docs.SaveAs(doc.ID, path); err != nil {
		return NewOperationError("save", path, err)
	}
	a.metrics.RecordSave()
	a.logger.Info("saved document", "path", doc.Path)
	return nil
}

// RunScript runs Lua source against doc, or the active document when doc
// is nil.
func (a *App) RunScript(ctx context.Context, doc *workspace.Document, src string) error {
	return a.runScript(ctx, doc, "eval", func(s *script.State) error {
		return s.DoString(ctx, "eval", src)
	})
}

// RunScriptFile runs the Lua file at path against doc, or the active
// document when doc is nil.
func (a *App) RunScriptFile(ctx context.Context, doc *workspace.Document, path string) error {
	return a.runScript(ctx, doc, path, func(s *script.State) error {
		return s.DoFile(ctx, path)
	})
}

// runScript runs fn in a fresh Lua state bound to the document's engine.
func (a *App) runScript(ctx context.Context, doc *workspace.Document, name string, fn func(*script.State) error) error {
	if a.closed.Load() {
		return ErrClosed
	}
	if doc == nil {
		var err error
		if doc, err = a.docs.ActiveOrError(); err != nil {
			return NewOperationError("run", name, err)
		}
	}

	cfg := a.Config()
	s := script.NewState(
		script.WithTimeout(cfg.Script.Timeout.Std()),
		script.WithCallStackSize(cfg.Script.CallStackSize),
		script.WithOutput(a.scriptOut),
	)
	defer s.Close()
	s.Bind(doc.Engine)

	timer := StartTimer()
	err := fn(s)
	elapsed := timer.Elapsed()

	a.metrics.RecordScript(elapsed, err)
	if errors.Is(err, script.ErrTimeout) {
		a.metrics.RecordScriptTimeout()
	}

	log := a.logger.WithFields(map[string]any{"script": name, "document": doc.Name})
	if err != nil {
		log.Warn("script failed", "error", err, "elapsed", elapsed)
		return NewOperationError("run", name, err).WithContext(doc.Name)
	}
	log.Debug("script finished", "elapsed", elapsed, "revision", doc.Engine.Revision())
	return nil
}

// WatchConfig reloads the config file at path whenever it changes.
// Reloaded settings apply to later script runs and to the log level.
// Calling it again replaces the previous watch.
func (a *App) WatchConfig(path string, opts ...config.WatcherOption) error {
	if a.closed.Load() {
		return ErrClosed
	}

	opts = append([]config.WatcherOption{
		config.WithErrorHandler(func(err error) {
			a.logger.Warn("config reload failed", "path", path, "error", err)
		}),
	}, opts...)

	w, err := config.NewWatcher(path, a.applyConfig, opts...)
	if err != nil {
		return NewOperationError("watch", path, err)
	}

	a.mu.Lock()
	old := a.watcher
	a.watcher = w
	a.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	a.logger.Debug("watching config", "path", w.Path())
	return nil
}

func (a *App) applyConfig(cfg *config.Config) {
	a.mu.Lock()
	a.cfg = cfg
	a.mu.Unlock()

	a.logger.SetLevel(ParseLogLevel(cfg.Log.Level))
	a.metrics.RecordConfigReload()
	a.logger.Info("config reloaded")
}

// Close stops the config watch. Open documents are left as they are.
// A second Close returns ErrClosed.
func (a *App) Close() error {
	if !a.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	a.mu.Lock()
	w := a.watcher
	a.watcher = nil
	a.mu.Unlock()

	var err error
	if w != nil {
		err = w.Close()
	}

	snap := a.metrics.Snapshot()
	a.logger.Debug("closed",
		"scripts", snap.ScriptCount,
		"script_errors", snap.ScriptErrors,
		"uptime", snap.Uptime,
	)
	return err
}
