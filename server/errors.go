package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/npillmayer/uxbuilder/dom"
	"github.com/npillmayer/uxbuilder/props"
	"github.com/npillmayer/uxbuilder/registry"
	"github.com/npillmayer/uxbuilder/selection"
	"github.com/npillmayer/uxbuilder/session"
	"github.com/npillmayer/uxbuilder/store"
)

// ErrBadRequest flags malformed request bodies and parameters.
var ErrBadRequest = errors.New("bad request")

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnknownSession), errors.Is(err, dom.ErrUnknownElement),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrClosed):
		return http.StatusGone
	case errors.Is(err, dom.ErrNotLoaded), errors.Is(err, selection.ErrNoSelection):
		return http.StatusConflict
	case errors.Is(err, registry.ErrUnknownComponent), errors.Is(err, selection.ErrUnknownAction),
		errors.Is(err, props.ErrUnknownProperty), errors.Is(err, props.ErrInvalidValue),
		errors.Is(err, dom.ErrInvalidLocation), errors.Is(err, dom.ErrInvalidPath),
		errors.Is(err, dom.ErrEmptyFragment):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrTooManySessions), errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

type noticeBody struct {
	Notice session.Notice `json:"notice"`
}

// fail writes err as a notice. Rejections of engine operations are
// recorded with the session as well, if there is one.
func fail(w http.ResponseWriter, r *http.Request, s *session.Session, err error) {
	status := statusFor(err)
	level := session.Warning
	if status >= 500 {
		level = session.Failure
		tracer().Errorf("%s %s: %v", r.Method, r.URL.Path, err)
	} else {
		tracer().Debugf("%s %s rejected: %v", r.Method, r.URL.Path, err)
	}
	if s != nil && status != http.StatusGone && status != http.StatusServiceUnavailable {
		_ = s.Do(r.Context(), func(s *session.Session) error {
			s.Notify(level, "%v", err)
			return nil
		})
	}
	writeJSON(w, status, noticeBody{Notice: session.Notice{
		Time:    time.Now(),
		Level:   level,
		Message: err.Error(),
	}})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		tracer().Errorf("encoding response: %v", err)
	}
}
