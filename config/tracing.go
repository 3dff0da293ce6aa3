package config

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
)

// tracer traces with key 'uxb.config'.
func tracer() tracing.Trace {
	return tracing.Select("uxb.config")
}

// SetupTracing installs the tracer selector for the application. Tracers
// are created by the adapter named under key `tracing.adapter` ("go" is
// the only adapter registered), with levels taken from the `tracelevel`
// section.
func SetupTracing(conf *Conf) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	if a := conf.GetString("tracing.adapter"); a != "go" {
		return fmt.Errorf("unknown tracing adapter %q", a)
	}
	if err := trace2go.ConfigureRoot(conf, "tracelevel", trace2go.ReplaceTracers(true)); err != nil {
		return fmt.Errorf("configuring tracing: %w", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	ApplyTraceLevels(conf)
	return nil
}

// ApplyTraceLevels sets the level of every tracer named in the `tracelevel`
// section. It is used after a configuration reload, when tracers already
// exist.
func ApplyTraceLevels(conf *Conf) {
	for name, l := range conf.TraceLevels() {
		tracing.Select(name).SetTraceLevel(tracing.TraceLevelFromString(l))
	}
}
