package cli

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/mapsketch/mapsketch/internal/client/api"
	"github.com/mapsketch/mapsketch/internal/client/autosave"
	"github.com/mapsketch/mapsketch/internal/client/cache"
	"github.com/mapsketch/mapsketch/internal/client/canvas"
	"github.com/mapsketch/mapsketch/internal/client/config"
	"github.com/mapsketch/mapsketch/internal/common"
	"github.com/mapsketch/mapsketch/internal/geojson"
	"github.com/mapsketch/mapsketch/internal/logging"
)

// App wires the drawing canvas, the autosave scheduler, the HTTP client and
// the local cache into the interactive terminal client.
//
// The canvas and the current document name are touched from two goroutines:
// the REPL loop and the scheduler's timer goroutine. mu serializes that
// access; every command that reads or mutates them takes it, and the
// scheduler's SaveFunc snapshots the canvas under it.
type App struct {
	config *config.Config
	log    logging.Logger

	api   *api.Client
	cache cache.Repository
	db    *sql.DB
	saver *autosave.Scheduler

	mu      sync.Mutex
	canvas  *canvas.Canvas
	docName string

	reader *bufio.Reader
}

func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := cache.Open(cfg.CachePath)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	a := &App{
		config: cfg,
		log:    log.With("module", "cli"),
		api:    api.New(cfg.ServerURL, log),
		cache:  cache.NewSQLiteRepository(db),
		db:     db,
		canvas: canvas.New(consoleHost{}, log),
		reader: bufio.NewReader(os.Stdin),
	}

	a.saver = autosave.New(cfg.AutosaveInterval, a.autosaveSave, log)
	a.saver.SetOnError(func(err error) {
		printlnFn("autosave failed:", err.Error())
	})
	a.canvas.SetOnChange(a.saver.NoteEdit)

	return a, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	printlnFn("Welcome to mapsketch (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

// Close flushes a pending autosave and releases the local cache.
func (a *App) Close() {
	a.saver.Flush()
	a.saver.Stop()
	if err := a.db.Close(); err != nil {
		a.log.Warn(context.Background(), "closing cache", "error", err.Error())
	}
}

func (a *App) getStatus() string {
	a.mu.Lock()
	docName := a.docName
	a.mu.Unlock()

	s := ""
	if a.api.Username() != "" {
		s = a.api.Username()
	}
	if docName != "" {
		s = s + " " + docName
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) isLoggedIn() bool {
	return a.api.LoggedIn()
}

// autosaveSave is the Scheduler's SaveFunc, invoked on the timer goroutine.
// It snapshots whatever is on the canvas at execution time. Without a named
// document, a session, or any shapes there is nothing to persist yet, so it
// is a no-op rather than an error.
func (a *App) autosaveSave(ctx context.Context) error {
	a.mu.Lock()
	name := a.docName
	empty := a.canvas.Document().Len() == 0
	a.mu.Unlock()

	if name == "" || empty || !a.api.LoggedIn() {
		return nil
	}
	return a.saveCurrent(ctx, name)
}

// snapshotDocument exports the canvas under the lock, so a mid-edit document
// is never observed half-mutated.
func (a *App) snapshotDocument() (*geojson.FeatureCollection, int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	doc := a.canvas.Document()
	fc, err := geojson.Export(doc)
	return fc, doc.Len(), err
}

// saveCurrent exports the canvas and persists it remotely and in the local
// cache. An empty canvas is refused, matching the drawing surface's rule
// that a document always carries at least one shape. The cache write is
// best-effort. The lock is not held across the network call.
func (a *App) saveCurrent(ctx context.Context, name string) error {
	fc, shapes, err := a.snapshotDocument()
	if err != nil {
		return err
	}
	if shapes == 0 {
		return fmt.Errorf("%w: nothing to save", common.ErrInvalidInput)
	}
	if err := a.api.SaveDocument(ctx, name, fc); err != nil {
		return err
	}
	payload, err := json.Marshal(fc)
	if err != nil {
		return err
	}
	if err := a.cache.Put(ctx, name, payload); err != nil {
		a.log.Warn(ctx, "caching document", "name", name, "error", err.Error())
	}
	return nil
}
