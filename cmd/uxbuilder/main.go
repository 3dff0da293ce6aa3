/*
Command uxbuilder serves the page builder.

Usage:

    uxbuilder [-config uxbuilder.yaml] [-addr :8080] [-store template.html] [-catalog components.yaml]

Flags override the configuration file and the environment. The
configuration file is watched; trace levels changed there take effect
immediately, all other values on restart.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/uxbuilder/config"
	"github.com/npillmayer/uxbuilder/dom"
	"github.com/npillmayer/uxbuilder/registry"
	"github.com/npillmayer/uxbuilder/server"
	"github.com/npillmayer/uxbuilder/session"
	"github.com/npillmayer/uxbuilder/store"
	"golang.org/x/sync/errgroup"
)

// tracer traces with key 'uxb'.
func tracer() tracing.Trace {
	return tracing.Select("uxb")
}

func main() {
	confPath := flag.String("config", "", "configuration file (YAML)")
	addr := flag.String("addr", "", "listen address")
	storeURL := flag.String("store", "", "document store (path, file:, http(s)://, sqlite:)")
	catalog := flag.String("catalog", "", "component catalog (YAML)")
	flag.Parse()
	//
	conf := config.New()
	conf.InitDefaults()
	if *confPath != "" {
		if err := conf.LoadFile(*confPath); err != nil {
			fail(err)
		}
	}
	if err := conf.LoadEnv(); err != nil {
		fail(err)
	}
	for key, value := range map[string]string{
		"server.addr":      *addr,
		"store.url":        *storeURL,
		"registry.catalog": *catalog,
	} {
		if value != "" {
			conf.Set(key, value)
		}
	}
	if err := config.SetupTracing(conf); err != nil {
		fail(err)
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := run(ctx, conf); err != nil {
		tracer().Errorf("%v", err)
		os.Exit(1)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "uxbuilder: %v\n", err)
	os.Exit(2)
}

func run(ctx context.Context, conf *config.Conf) error {
	cfg, err := config.Load(conf)
	if err != nil {
		return err
	}
	reg := registry.Builtin()
	if cfg.Catalog != "" {
		if reg, err = registry.LoadCatalogFile(cfg.Catalog, reg); err != nil {
			return err
		}
		tracer().Infof("component catalog %s loaded: %v", cfg.Catalog, reg.Names())
	}
	opts := session.Options{
		Registry:  reg,
		HideDelay: cfg.HideDelay,
		Strategy:  cfg.Strategy,
		QueueSize: cfg.QueueSize,
	}
	if cfg.Sanitize {
		opts.Sanitizer = dom.EditorPolicy()
	}
	open := func(ctx context.Context) (store.Store, error) {
		return store.Open(ctx, cfg.StoreURL)
	}
	sessions := server.NewSessions(open, opts, cfg.MaxSessions, cfg.IdleTimeout)
	defer sessions.CloseAll()
	reaper, err := sessions.StartReaper(cfg.ReapSchedule)
	if err != nil {
		return err
	}
	defer reaper.Stop()
	tracer().Infof("serving documents from %s", cfg.StoreURL)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.ListenAndServe(ctx, cfg.Addr, server.New(sessions))
	})
	g.Go(func() error {
		return config.Watch(ctx, conf, nil)
	})
	return g.Wait()
}
