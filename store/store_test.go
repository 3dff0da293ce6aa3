package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.store")
	defer teardown()
	//
	ctx := context.Background()
	s := NewFileStore(filepath.Join(t.TempDir(), "template.html"))
	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.Save(ctx, "<p>one</p>"))
	require.NoError(t, s.Save(ctx, "<p>two</p>"))
	markup, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "<p>two</p>", markup)
}

func TestSQLiteStoreKeepsVersions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.store")
	defer teardown()
	//
	ctx := context.Background()
	s, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "pages.db"))
	require.NoError(t, err)
	defer s.Close()
	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.Save(ctx, "<p>one</p>"))
	require.NoError(t, s.Save(ctx, "<p>two</p>"))
	markup, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "<p>two</p>", markup)
	n, err := s.Versions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestHTTPStore(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.store")
	defer teardown()
	//
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/template.html" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("<body>remote</body>"))
	}))
	defer srv.Close()
	ctx := context.Background()
	s, err := Open(ctx, srv.URL+"/template.html")
	require.NoError(t, err)
	markup, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "<body>remote</body>", markup)
	assert.ErrorIs(t, s.Save(ctx, "x"), ErrReadOnly)
	_, err = NewHTTPStore(srv.URL+"/missing.html", srv.Client()).Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := Open(ctx, "file:"+filepath.Join(dir, "a.html"))
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)
	s, err = Open(ctx, filepath.Join(dir, "b.html"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "b.html"), s.(*FileStore).Path())
	s, err = Open(ctx, "sqlite:"+filepath.Join(dir, "c.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	s.(*SQLiteStore).Close()
	_, err = Open(ctx, "ftp://example.com/x.html")
	assert.ErrorIs(t, err, ErrUnsupported)
}
