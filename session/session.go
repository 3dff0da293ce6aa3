/*
Package session implements the editing session, the context object all
engine operations run in.

A session owns the live document, its mirror, the selection state machine,
the property editor and the tree panel state. None of these are safe for
concurrent use. Instead, every session runs a single event loop goroutine,
and all operations, including timer callbacks, are executed on it. Clients
submit operations with Do.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package session

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/uxbuilder/dom"
	"github.com/npillmayer/uxbuilder/props"
	"github.com/npillmayer/uxbuilder/registry"
	"github.com/npillmayer/uxbuilder/selection"
	"github.com/npillmayer/uxbuilder/store"
	"github.com/npillmayer/uxbuilder/treesync"
	"github.com/npillmayer/uxbuilder/treeview"
)

// tracer traces with key 'uxb.session'.
func tracer() tracing.Trace {
	return tracing.Select("uxb.session")
}

// ErrClosed is returned for operations on a closed session.
var ErrClosed = errors.New("session closed")

// Options configure a session.
type Options struct {
	Registry  *registry.Registry // defaults to the built-in catalog
	HideDelay time.Duration      // delay for hiding affordances
	Strategy  props.Strategy     // property write strategy
	Sanitizer *bluemonday.Policy // optional policy for loaded markup
	QueueSize int                // capacity of the event queue
}

// Session is an editing session.
type Session struct {
	id    string
	store store.Store

	Doc     *dom.Document
	Sync    *treesync.Synchronizer
	Machine *selection.Machine
	Editor  *props.Editor
	View    *treeview.View

	calls      chan func()
	done       chan struct{}
	closed     atomic.Bool
	lastActive atomic.Int64 // unix nanos
	attached   int          // document generation listeners are attached for
	notices    []Notice
}

// New creates a session for a document store and starts its event loop.
func New(st store.Store, opts Options) *Session {
	if opts.Registry == nil {
		opts.Registry = registry.Builtin()
	}
	if opts.HideDelay <= 0 {
		opts.HideDelay = selection.DefaultHideDelay
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	var docOpts []dom.Option
	if opts.Sanitizer != nil {
		docOpts = append(docOpts, dom.WithSanitizer(opts.Sanitizer))
	}
	s := &Session{
		id:    uuid.NewString(),
		store: st,
		calls: make(chan func(), opts.QueueSize),
		done:  make(chan struct{}),
	}
	s.Doc = dom.NewDocument(&dom.Counter{}, docOpts...)
	s.Sync = treesync.New(s.Doc, nil)
	s.Editor = props.New(s.Doc, opts.Registry, opts.Strategy)
	s.Machine = selection.New(s.Doc, opts.Registry, s.Sync, loopScheduler{s},
		selection.WithHideDelay(opts.HideDelay),
		selection.WithInsertHook(func(id dom.ElementID, _ *registry.Component, v registry.Values) {
			s.Editor.Remember(id, v)
		}))
	s.View = treeview.NewView()
	s.touch()
	go s.loop()
	tracer().Infof("session %s started", s.id)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// LastActive returns the time of the latest operation.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

func (s *Session) loop() {
	for {
		select {
		case f := <-s.calls:
			f()
		case <-s.done:
			return
		}
	}
}

// post enqueues f to run on the event loop. It does not wait.
func (s *Session) post(f func()) bool {
	select {
	case s.calls <- f:
		return true
	case <-s.done:
		return false
	}
}

// Do runs fn on the session's event loop and waits for it to complete.
func (s *Session) Do(ctx context.Context, fn func(*Session) error) error {
	if s.closed.Load() {
		return ErrClosed
	}
	s.touch()
	result := make(chan error, 1)
	f := func() {
		defer func() {
			if r := recover(); r != nil {
				tracer().Errorf("session %s: panic in operation: %v", s.id, r)
				result <- errors.New("internal error in session operation")
			}
		}()
		result <- fn(s)
	}
	select {
	case s.calls <- f:
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-result:
		return err
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the event loop. Pending timers become inert.
func (s *Session) Close() {
	if s.closed.CompareAndSwap(false, true) {
		close(s.done)
		if c, ok := s.store.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				tracer().Errorf("session %s: closing store: %v", s.id, err)
			}
		}
		tracer().Infof("session %s closed", s.id)
	}
}

// loopScheduler runs delayed functions on the session's event loop.
type loopScheduler struct {
	s *Session
}

func (ls loopScheduler) AfterFunc(d time.Duration, f func()) func() {
	t := time.AfterFunc(d, func() {
		ls.s.post(f)
	})
	return func() { t.Stop() }
}
