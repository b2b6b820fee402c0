package main

import (
	"time"

	"github.com/alexisbeaulieu97/cdotctl/internal/config"
	"github.com/alexisbeaulieu97/cdotctl/internal/logger"
	"github.com/alexisbeaulieu97/cdotctl/internal/plugin"
	cloneplugin "github.com/alexisbeaulieu97/cdotctl/internal/plugins/clone"
	mountplugin "github.com/alexisbeaulieu97/cdotctl/internal/plugins/mount"
	"github.com/alexisbeaulieu97/cdotctl/internal/zapi"
)

// clientFactory opens a control-plane client scoped to vserver.
type clientFactory func(conn config.Connection, vserver string, log *logger.Logger) (zapi.Client, error)

// AppContext bundles long-lived services created at startup.
type AppContext struct {
	Registry  *plugin.Registry
	NewClient clientFactory
	// Lookup supplies connection fallbacks from the environment.
	Lookup config.LookupFunc
}

func newAppContext() (*AppContext, error) {
	registry := plugin.NewRegistry()
	if err := registerPlugins(registry); err != nil {
		return nil, err
	}
	return &AppContext{
		Registry:  registry,
		NewClient: newHTTPClient,
		Lookup:    config.OSLookup,
	}, nil
}

func registerPlugins(registry *plugin.Registry) error {
	for _, p := range []plugin.Plugin{cloneplugin.New(), mountplugin.New()} {
		if err := registry.Register(p); err != nil {
			return err
		}
	}
	return nil
}

func newHTTPClient(conn config.Connection, vserver string, log *logger.Logger) (zapi.Client, error) {
	client, err := zapi.NewHTTPClient(zapi.Options{
		Hostname:      conn.Hostname,
		Port:          conn.Port,
		Username:      conn.Username,
		Password:      conn.Password,
		HTTPS:         conn.HTTPS,
		ValidateCerts: conn.ValidateCerts,
		APIVersion:    conn.APIVersion,
		Timeout:       time.Duration(conn.Timeout) * time.Second,
		Vserver:       vserver,
		Logger:        log,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}
