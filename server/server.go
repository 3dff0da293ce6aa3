/*
Package server implements the HTTP surface of the page builder.

Every editing session is addressed by its id under /sessions/{sid}. Handlers
never touch engine state directly; they submit operations to the session's
event loop. Rejected operations are answered with a JSON notice and a 4xx
status code and are recorded with the session's notices. The embedded view
may forward pointer events either one request at a time or over a websocket
stream.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'uxb.server'.
func tracer() tracing.Trace {
	return tracing.Select("uxb.server")
}

// Server routes requests to editing sessions.
type Server struct {
	router   *chi.Mux
	sessions *Sessions
	upgrader websocket.Upgrader
}

// New creates a server for a session registry.
func New(sessions *Sessions) *Server {
	srv := &Server{
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", srv.health)
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", srv.createSession)
		r.Get("/", srv.listSessions)
		r.Route("/{sid}", func(r chi.Router) {
			r.Get("/", srv.state)
			r.Delete("/", srv.deleteSession)
			r.Post("/load", srv.load)
			r.Post("/frame-loaded", srv.frameLoaded)
			r.Get("/document", srv.document)
			r.Get("/tree", srv.tree)
			r.Post("/tree/{id}/toggle", srv.toggle)
			r.Post("/select", srv.selectElement)
			r.Post("/events", srv.events)
			r.Post("/affordances/enter", srv.enterAffordance)
			r.Post("/affordances/leave", srv.leaveAffordance)
			r.Post("/location", srv.chooseLocation)
			r.Delete("/location", srv.cancelLocation)
			r.Get("/actions", srv.actions)
			r.Post("/actions/{index}", srv.executeAction)
			r.Get("/properties/{id}", srv.properties)
			r.Put("/properties/{id}", srv.setProperty)
			r.Get("/export", srv.export)
			r.Get("/ws", srv.stream)
		})
	})
	srv.router = r
	return srv
}

// Sessions returns the session registry of the server.
func (srv *Server) Sessions() *Sessions {
	return srv.sessions
}

func (srv *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	srv.router.ServeHTTP(w, r)
}

// ListenAndServe serves h on addr until ctx is done, then shuts down
// gracefully.
func ListenAndServe(ctx context.Context, addr string, h http.Handler) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		tracer().Infof("listening on %s", addr)
		errc <- hs.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdown); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
