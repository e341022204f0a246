package main

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/odvcencio/tradelog/pkg/config"
	"github.com/odvcencio/tradelog/pkg/errors"
	"github.com/odvcencio/tradelog/pkg/form"
	"github.com/odvcencio/tradelog/pkg/journal"
	"github.com/odvcencio/tradelog/pkg/logging"
	"github.com/odvcencio/tradelog/pkg/terminal"
	"github.com/odvcencio/tradelog/pkg/ui/backend"
	"github.com/odvcencio/tradelog/pkg/ui/backend/tcell"
	"github.com/odvcencio/tradelog/pkg/ui/geom"
	"github.com/odvcencio/tradelog/pkg/ui/runtime"
)

func runUI(ctx context.Context, cfg *config.Config, out *terminal.Writer, args []string) error {
	if len(args) > 0 {
		return errors.Newf(errors.ErrCodeInvalidInput, "run takes no arguments, got %q", args[0])
	}

	logger, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	store, err := journal.Open(cfg.Journal.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	be, err := tcell.New()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeBackendInit, "open terminal").
			WithRemediation("run tradelog from an interactive terminal")
	}

	session, err := newFormSession(ctx, cfg, be, store, logger)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	uiCtx, stopUI := context.WithCancel(gctx)
	defer stopUI()

	g.Go(func() error {
		defer stopUI()
		err := session.app.Run(uiCtx)
		if err == context.Canceled {
			return nil
		}
		return err
	})
	if cfg.Metrics.Addr != "" {
		g.Go(func() error {
			return serveMetrics(uiCtx, cfg.Metrics.Addr, newMetricsRouter(store), logger)
		})
	}
	if err := g.Wait(); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "form session")
	}

	saved := session.Saved()
	if len(saved) == 0 {
		out.Dim("No entries recorded.")
	}
	for _, e := range saved {
		out.Success("%s  %s", e.ID, e.Title())
		if e.MarkdownPath != "" {
			out.Dim("  %s", e.MarkdownPath)
		}
	}
	for _, err := range session.Failures() {
		reportError(out, err)
	}
	return nil
}

func openLogger(cfg *config.Config) (*logging.Logger, error) {
	logger, err := logging.NewLogger(cfg.Logging.Dir, "")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "open log directory").
			WithContext("dir", cfg.Logging.Dir)
	}
	if level, ok := logging.ParseLevel(cfg.Logging.Level); ok {
		logger.SetMinLevel(level)
	}
	return logger, nil
}

// formSession is one run of the entry form: the App plus what its submit
// button recorded.
type formSession struct {
	app      *runtime.App
	recorder *journal.Recorder

	mu       sync.Mutex
	saved    []*journal.Entry
	failures []error
}

func newFormSession(ctx context.Context, cfg *config.Config, be backend.Backend, store *journal.Store, logger *logging.Logger) (*formSession, error) {
	def := form.Default()
	if cfg.Form.Path != "" {
		loaded, err := form.Load(cfg.Form.Path)
		if err != nil {
			return nil, err
		}
		def = loaded
	}

	s := &formSession{recorder: &journal.Recorder{Store: store}}
	if cfg.Journal.WriteMarkdown {
		s.recorder.MarkdownDir = cfg.Journal.MarkdownDir
	}

	root, err := form.Build(def, func(app *runtime.App) { s.submit(ctx, app) })
	if err != nil {
		return nil, err
	}

	var eventLog runtime.EventLogger
	if logger != nil {
		eventLog = logger
		s.recorder.Logger = logger
		_ = logger.Info(logging.CategoryForm, "loaded", def.Name, map[string]any{
			"rows": len(def.Rows),
			"path": cfg.Form.Path,
		})
	}
	s.app = runtime.NewApp(runtime.AppConfig{
		Backend:       be,
		Root:          root,
		Origin:        geom.Pt(float32(cfg.UI.OriginX), float32(cfg.UI.OriginY)),
		Logger:        eventLog,
		MessageBuffer: cfg.UI.MessageBuffer,
	})
	return s, nil
}

// submit runs on the event loop when the submit button is clicked.
func (s *formSession) submit(ctx context.Context, app *runtime.App) {
	saveCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	entry, err := s.recorder.Record(saveCtx, app.Document())
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry != nil {
		s.saved = append(s.saved, entry)
	}
	if err != nil {
		s.failures = append(s.failures, err)
	}
}

func (s *formSession) Saved() []*journal.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*journal.Entry(nil), s.saved...)
}

func (s *formSession) Failures() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]error(nil), s.failures...)
}
