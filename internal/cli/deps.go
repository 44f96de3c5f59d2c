package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/macropower/hamal/pkg/config"
	"github.com/macropower/hamal/pkg/hamalert"
	"github.com/macropower/hamal/pkg/profile"
	"github.com/macropower/hamal/pkg/prompt"
	"github.com/macropower/hamal/pkg/reconcile"
)

// deps bundles the collaborators a command might need. Local stores are
// always populated; the remote client is created lazily by [deps.connect]
// so purely local commands never touch the network.
type deps struct {
	cfg       *config.Config
	client    *hamalert.Client
	profiles  *profile.Store
	permanent *profile.PermanentStore
	marker    *profile.Marker
	backups   *profile.BackupDir
	prompter  *prompt.TerminalPrompter
}

func buildDeps(ra *RootArgs) (*deps, error) {
	configPath := ra.ConfigPath
	if configPath == "" {
		configPath = config.GetPath()
	}

	err := config.WriteDefaultConfig(configPath, false)
	if err != nil {
		slog.Error("write default config", slog.Any("err", err))
	}

	cl, err := config.NewLoaderFromFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", configPath, err)
	}

	err = cl.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", configPath, err)
	}

	cfg, err := cl.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", configPath, err)
	}

	dataDir := ra.DataDir
	if dataDir == "" {
		dataDir = config.GetDataDir()
	}

	return &deps{
		cfg:       cfg,
		profiles:  profile.NewStore(config.ProfilesDir(dataDir)),
		permanent: profile.NewPermanentStore(config.PermanentPath(dataDir)),
		marker:    profile.NewMarker(config.MarkerPath(dataDir)),
		backups:   profile.NewBackupDir(config.BackupsDir(dataDir)),
		prompter:  prompt.NewTerminalPrompter(),
	}, nil
}

// connect creates the HamAlert client and logs in. Idempotent.
func (d *deps) connect(ctx context.Context) error {
	if d.client != nil {
		return nil
	}

	opts := []hamalert.ClientOpt{}
	if d.cfg.Server.BaseURL != "" {
		opts = append(opts, hamalert.WithBaseURL(d.cfg.Server.BaseURL))
	}

	if timeout := d.cfg.RequestTimeout(); timeout > time.Duration(0) {
		opts = append(opts, hamalert.WithTimeout(timeout))
	}

	client, err := hamalert.NewClient(d.cfg.Auth.Username, d.cfg.Auth.Password, opts...)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	err = client.Login(ctx)
	if err != nil {
		return err
	}

	d.client = client

	return nil
}

func (d *deps) planner() *reconcile.Planner {
	return reconcile.NewPlanner(d.client, d.profiles, d.permanent, d.marker, d.prompter)
}

func (d *deps) switcher() *reconcile.Switcher {
	return reconcile.NewSwitcher(d.client, d.backups, d.marker)
}

func (d *deps) reporter() *reconcile.Reporter {
	return reconcile.NewReporter(d.client, d.profiles, d.permanent, d.marker)
}
