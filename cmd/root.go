package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"ranobelib-downloader/config"
	"ranobelib-downloader/downloader/ranobelib"
	"ranobelib-downloader/model"
	"ranobelib-downloader/store"

	"github.com/spf13/cobra"
)

var (
	flagConfig string
	flagDebug  bool
	flagHeaded bool
)

var RootCmd = &cobra.Command{
	Use:           "ranobelib-downloader",
	Short:         "Download bookmarked novels from ranobelib.me",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", config.DefaultPath, "config file")
	RootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "log browser protocol traffic")
	RootCmd.PersistentFlags().BoolVar(&flagHeaded, "headed", false, "show the browser window")
}

// app holds what every command needs: the loaded config, the user store and
// the site client wired to both.
type app struct {
	cfg     *config.Config
	store   *store.Store
	service *ranobelib.Ranobelib
}

func newApp(opts config.Options) (*app, error) {
	opts.Debug = opts.Debug || flagDebug
	opts.Headed = opts.Headed || flagHeaded
	cfg, err := config.Load(flagConfig, opts)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.Database)
	if err != nil {
		return nil, err
	}

	launcher := &ranobelib.ChromeLauncher{
		Headless:      cfg.Headless,
		ExecPath:      cfg.ChromePath,
		UserAgent:     cfg.UserAgent,
		ActionTimeout: cfg.ActionTimeout,
		Debug:         cfg.Debug,
	}
	service := ranobelib.New(cfg.BaseURL, launcher)
	service.SetCookieStore(st)
	service.SetNavigationTimeout(cfg.NavigationTimeout)
	service.SetScrollDelay(cfg.ScrollDelay)

	return &app{cfg: cfg, store: st, service: service}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		log.Printf("Failed to close database: %v", err)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// currentUser is the account that logged in last.
func (a *app) currentUser(ctx context.Context) (*model.User, error) {
	user, err := a.store.LatestUser(ctx, ranobelib.SiteKey)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("not logged in, run the login command first")
	}
	return user, nil
}
