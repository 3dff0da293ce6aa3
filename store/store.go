/*
Package store loads and saves the markup of the edited page.

A store holds a single markup blob. Stores are opened by URL:

    file:path/to/template.html     FileStore
    /path/to/template.html         FileStore
    http://host/template.html      HTTPStore (read-only)
    sqlite:path/to/pages.db        SQLiteStore

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'uxb.store'.
func tracer() tracing.Trace {
	return tracing.Select("uxb.store")
}

// Store loads and saves a page's markup.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, markup string) error
}

// ErrReadOnly is returned by stores which cannot save.
var ErrReadOnly = errors.New("document store is read-only")

// ErrNotFound is returned if a store holds no markup.
var ErrNotFound = errors.New("no document in store")

// ErrUnsupported is returned for a store URL with an unknown scheme.
var ErrUnsupported = errors.New("unsupported document store")

// Open opens a store by URL. The caller should call Close on the result
// if it implements io.Closer.
func Open(ctx context.Context, url string) (Store, error) {
	switch {
	case url == "":
		return nil, fmt.Errorf("%w: empty URL", ErrUnsupported)
	case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
		return NewHTTPStore(url, nil), nil
	case strings.HasPrefix(url, "sqlite:"):
		return OpenSQLite(ctx, strings.TrimPrefix(url, "sqlite:"))
	case strings.HasPrefix(url, "file:"):
		return NewFileStore(strings.TrimPrefix(url, "file:")), nil
	case strings.Contains(url, "://"):
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, url)
	}
	return NewFileStore(url), nil
}
