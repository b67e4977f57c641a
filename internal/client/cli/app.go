package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/pageprops/internal/client/services"
	"github.com/dmitrijs2005/pageprops/internal/codec"
	"github.com/dmitrijs2005/pageprops/internal/logging"
)

type Status string

const (
	StatusUnknown Status = ""
	StatusOffline Status = "offline"
	StatusOnline  Status = "online"
)

const pingTimeout = 3 * time.Second

// Options configures an App. Zero values fall back to stdin, stdout, the
// literal transport mode and a 3s connectivity check.
type Options struct {
	Mode          codec.TransportMode
	CheckInterval time.Duration
	In            io.Reader
	Out           io.Writer
}

type App struct {
	svc           services.PropertyService
	log           logging.Logger
	mode          codec.TransportMode
	checkInterval time.Duration

	reader      *bufio.Reader
	out         io.Writer
	interactive bool

	session *services.Session

	mu     sync.Mutex
	status Status
}

func NewApp(svc services.PropertyService, log logging.Logger, opts Options) *App {
	in := opts.In
	if in == nil {
		in = os.Stdin
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	interval := opts.CheckInterval
	if interval <= 0 {
		interval = 3 * time.Second
	}

	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = isTerminal(int(f.Fd()))
	}

	return &App{
		svc:           svc,
		log:           log,
		mode:          opts.Mode,
		checkInterval: interval,
		reader:        bufio.NewReader(in),
		out:           out,
		interactive:   interactive,
	}
}

func (a *App) getStatus() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

func (a *App) setStatus(ctx context.Context, s Status) {
	a.mu.Lock()
	changed := a.status != s
	a.status = s
	a.mu.Unlock()

	if changed {
		a.log.Info(ctx, "connectivity changed", "status", string(s))
	}
}

// Run loads the page, starts the connectivity watcher and blocks in the REPL
// until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	defer a.svc.Close(context.WithoutCancel(ctx))

	fprintln(a.out, "Page property editor (type 'help' for commands)")

	if err := a.load(ctx); err != nil {
		return err
	}
	a.setStatus(ctx, StatusOnline)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.checkInterval)

	runREPL(ctx, a, a.prompt, a.reader)
	return nil
}

// StartOnlineStatusWatcher pings the site every interval and records
// whether it answered. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
			err := a.svc.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setStatus(ctx, StatusOffline)
			} else {
				a.setStatus(ctx, StatusOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
