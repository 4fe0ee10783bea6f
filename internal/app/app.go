// Package app wires up what every command needs: loaded configuration,
// the REST client with any stored credential attached, and the session
// store.
package app

import (
	"context"
	"fmt"

	"github.com/printflow2050/printflow-cli/internal/config"
	"github.com/printflow2050/printflow-cli/internal/printflow"
	"github.com/printflow2050/printflow-cli/internal/push"
	"github.com/printflow2050/printflow-cli/internal/session"
)

type App struct {
	Config *config.Config
	Client *printflow.Client
	Store  session.Store
}

// Setup loads the configuration, configures logging, opens the session
// store, and builds the REST client. A stored owner credential is
// attached to the client right away.
func Setup(ctx context.Context, cfgPath string) (*App, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	setupLogger(cfg.Logging)

	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return nil, err
	}
	store, err := session.Open(ctx, dbPath)
	if err != nil {
		return nil, err
	}

	client := printflow.New(cfg.Server.BaseURL, cfg.Server.Timeout.Duration, cfg.Server.InsecureSkipVerify)
	if cred, err := store.Credential(ctx); err == nil && cred != "" {
		client.SetCredential(cred)
	}

	return &App{Config: cfg, Client: client, Store: store}, nil
}

func (a *App) Close() error {
	return a.Store.Close()
}

// RequireCredential refuses owner actions when no bearer credential is
// stored.
func (a *App) RequireCredential() error {
	if !a.Client.HasCredential() {
		return fmt.Errorf("this action needs the shop owner credential; run 'printflow login' first")
	}
	return nil
}

// PushConfig assembles the channel configuration for a shop room. The
// stored credential is announced only when the caller asks for it, the
// customer surface joins anonymously.
func (a *App) PushConfig(ctx context.Context, shopID string, withCredential bool) push.Config {
	cfg := push.Config{
		URL:            a.Config.Server.PushURL,
		ShopID:         shopID,
		ReconnectDelay: a.Config.Push.ReconnectDelay.Duration,
		PingInterval:   a.Config.Push.PingInterval.Duration,
		WriteTimeout:   a.Config.Push.WriteTimeout.Duration,
	}
	if withCredential {
		if cred, err := a.Store.Credential(ctx); err == nil {
			cfg.Credential = cred
		}
	}
	return cfg
}
