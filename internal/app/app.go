package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/five82/snooze/internal/catalog"
	"github.com/five82/snooze/internal/config"
	"github.com/five82/snooze/internal/credstore"
	"github.com/five82/snooze/internal/logging"
	"github.com/five82/snooze/internal/reconcile"
	"github.com/five82/snooze/internal/session"
	"github.com/five82/snooze/internal/storyapi"
	"github.com/five82/snooze/internal/ui"
)

// Options configure a snooze run.
type Options struct {
	ConfigPath string
	// ThemeName overrides the configured theme when set.
	ThemeName string
}

// Components are the wired services for one run.
type Components struct {
	Config     config.Config
	Logger     *slog.Logger
	Client     *storyapi.Client
	Sessions   *session.Manager
	Stories    *catalog.Service
	Reconciler *reconcile.Reconciler

	closeLog func() error
}

// Build loads configuration and wires the client stack.
func Build(opts Options) (*Components, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.ThemeName != "" {
		cfg.Theme = opts.ThemeName
	}

	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	logger, closeLog, err := logging.New(cfg.LogPath, level)
	if err != nil {
		return nil, err
	}

	client, err := storyapi.NewClient(cfg.APIURL, storyapi.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("init story client: %w", err)
	}

	sessions := session.NewManager(client, credstore.New(cfg.CredentialsPath), logger)
	stories := catalog.New(client, logger)
	logger.Info("snooze starting", "api", client.BaseURL(), "credentials", cfg.CredentialsPath)

	return &Components{
		Config:     cfg,
		Logger:     logger,
		Client:     client,
		Sessions:   sessions,
		Stories:    stories,
		Reconciler: reconcile.New(client, sessions, stories, logger),
		closeLog:   closeLog,
	}, nil
}

// Close releases the log file.
func (c *Components) Close() error {
	if c == nil || c.closeLog == nil {
		return nil
	}
	return c.closeLog()
}

// Run boots the TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	c, err := Build(opts)
	if err != nil {
		return err
	}
	defer c.Close()

	return ui.Run(ui.Options{
		Context:    ctx,
		Sessions:   c.Sessions,
		Stories:    c.Stories,
		Reconciler: c.Reconciler,
		ThemeName:  c.Config.Theme,
		Logger:     c.Logger,
	})
}

// List resumes the stored session, if any, and writes the catalog to w. A
// rejected stored login is reported on the logger and listing continues
// anonymously.
func List(ctx context.Context, opts Options, w io.Writer) error {
	c, err := Build(opts)
	if err != nil {
		return err
	}
	defer c.Close()

	sess, err := c.Sessions.Start(ctx)
	if err != nil {
		if !errors.Is(err, storyapi.ErrAuth) {
			return err
		}
		c.Logger.Warn("stored login rejected; listing anonymously", "error", err)
	}
	cat, err := c.Stories.LoadAll(ctx)
	if err != nil {
		return err
	}
	return ui.WriteList(w, sess, cat)
}

// Login authenticates username and persists the credential for later runs.
func Login(ctx context.Context, opts Options, username, password string) (*session.Session, error) {
	c, err := Build(opts)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	return c.Sessions.Login(ctx, username, password)
}
