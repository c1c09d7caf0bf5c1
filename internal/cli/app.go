// Package cli implements the interactive front-end of Facenote: a REPL
// dispatching user intents into the account store and note collection.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"os"

	"github.com/dmaksimov/facenote/internal/accounts"
	"github.com/dmaksimov/facenote/internal/config"
	"github.com/dmaksimov/facenote/internal/facedist"
	"github.com/dmaksimov/facenote/internal/logging"
	"github.com/dmaksimov/facenote/internal/notes"
	"github.com/dmaksimov/facenote/internal/storage"

	_ "modernc.org/sqlite"
)

type App struct {
	config *config.Config
	store  *accounts.Store
	notes  *notes.Collection
	log    logging.Logger

	db     *sql.DB
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := storage.Open(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "err", err)
		return nil, err
	}

	store, err := accounts.NewStore(ctx, db, facedist.Euclidean, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config: c,
		store:  store,
		notes:  notes.NewCollection(store, log),
		log:    log,
		db:     db,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

// Close releases the database handle.
func (a *App) Close() error {
	return a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.store.IsLoggedIn()
}

func (a *App) username() string {
	if acct := a.store.CurrentUser(); acct != nil {
		return acct.Username
	}
	return ""
}
