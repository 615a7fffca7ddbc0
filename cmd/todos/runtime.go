package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/nhle/todos/internal/credential"
	"github.com/nhle/todos/internal/logging"
	"github.com/nhle/todos/internal/model"
	"github.com/nhle/todos/internal/notify"
	"github.com/nhle/todos/internal/notify/mail"
	"github.com/nhle/todos/internal/store"
)

// runtime holds what every command that touches reminders needs.
type runtime struct {
	cfg    *model.AppConfig
	logger *log.Logger
	db     *store.SQLiteStore
	center *notify.Center

	closers []io.Closer
}

// openRuntime loads the configuration, opens the log file and the
// reminder database, and builds the notification center.
func openRuntime(logW io.Writer, opts ...notify.CenterOption) (*runtime, error) {
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg}

	if logW != nil {
		lo, err := logging.OptionsFromConfig(cfg.Log)
		if err != nil {
			return nil, err
		}
		rt.logger = logging.New(logW, lo)
	} else {
		logger, closer, err := logging.OpenFile(cfg.Log)
		if err != nil {
			return nil, err
		}
		rt.logger = logger
		rt.closers = append(rt.closers, closer)
	}

	if dir := filepath.Dir(cfg.Database.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			rt.Close()
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	db, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.db = db
	rt.closers = append(rt.closers, db)

	opts = append([]notify.CenterOption{notify.WithLogger(rt.logger)}, opts...)
	rt.center = notify.NewCenter(db, opts...)
	return rt, nil
}

// deliverers returns bell, the log deliverer and, when configured, mail.
func (rt *runtime) deliverers(bell *notify.Bell) []notify.Deliverer {
	ds := []notify.Deliverer{bell, notify.LogDeliverer{Logger: rt.logger}}
	if !rt.cfg.Mail.Enabled {
		return ds
	}

	creds, err := credential.Open(model.ConfigDir())
	if err != nil {
		rt.logger.Warn("mail delivery disabled", "err", err)
		return ds
	}
	d, err := mail.FromConfig(rt.cfg.Mail, creds)
	if err != nil {
		rt.logger.Warn("mail delivery disabled", "err", err)
		return ds
	}
	return append(ds, d)
}

// Close releases everything in reverse order of opening.
func (rt *runtime) Close() error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	return errors.Join(errs...)
}
