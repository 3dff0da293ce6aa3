package config

import (
	"fmt"
	"time"

	"github.com/npillmayer/uxbuilder/props"
	"github.com/robfig/cron/v3"
)

// Config is the typed view of a configuration, as used by the server.
type Config struct {
	Addr         string         // listen address
	StoreURL     string         // document store, see store.Open
	Catalog      string         // optional component catalog file
	HideDelay    time.Duration  // delay for hiding affordances
	Strategy     props.Strategy // property write strategy
	Sanitize     bool           // sanitize loaded markup
	IdleTimeout  time.Duration  // sessions idle this long are closed
	ReapSchedule string         // cron spec for the idle session reaper
	MaxSessions  int            // limit of concurrent sessions
	QueueSize    int            // event queue capacity per session
}

// Load extracts the typed configuration and checks it.
func Load(conf *Conf) (Config, error) {
	c := Config{
		Addr:         conf.GetString("server.addr"),
		StoreURL:     conf.GetString("store.url"),
		Catalog:      conf.GetString("registry.catalog"),
		HideDelay:    conf.GetDuration("editor.hidedelay"),
		Sanitize:     conf.GetBool("editor.sanitize"),
		IdleTimeout:  conf.GetDuration("sessions.idle"),
		ReapSchedule: conf.GetString("sessions.reap"),
		MaxSessions:  conf.GetInt("sessions.max"),
		QueueSize:    conf.GetInt("sessions.queue"),
	}
	var err error
	if c.Strategy, err = props.ParseStrategy(conf.GetString("editor.strategy")); err != nil {
		return c, fmt.Errorf("editor.strategy: %w", err)
	}
	if c.StoreURL == "" {
		return c, fmt.Errorf("store.url must be set")
	}
	if c.HideDelay <= 0 {
		return c, fmt.Errorf("editor.hidedelay must be a positive duration")
	}
	if c.MaxSessions <= 0 {
		return c, fmt.Errorf("sessions.max must be positive, is %d", c.MaxSessions)
	}
	if _, err = cron.ParseStandard(c.ReapSchedule); err != nil {
		return c, fmt.Errorf("sessions.reap: %w", err)
	}
	return c, nil
}
