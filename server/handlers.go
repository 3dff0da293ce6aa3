package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/npillmayer/uxbuilder/dom"
	"github.com/npillmayer/uxbuilder/dom/domdbg"
	"github.com/npillmayer/uxbuilder/registry"
	"github.com/npillmayer/uxbuilder/selection"
	"github.com/npillmayer/uxbuilder/session"
	"github.com/npillmayer/uxbuilder/treeview"
)

// State is the response body describing a session.
type State struct {
	ID        string             `json:"id"`
	Loaded    bool               `json:"loaded"`
	Selection selection.Snapshot `json:"selection"`
	Notices   []session.Notice   `json:"notices"`
}

// stateOf must be called on the session's event loop.
func stateOf(s *session.Session) State {
	return State{
		ID:        s.ID(),
		Loaded:    s.Doc.Loaded(),
		Selection: s.Machine.Snapshot(),
		Notices:   s.Notices(),
	}
}

// session looks up the session addressed by the request. If there is
// none, a notice has been written and nil is returned.
func (srv *Server) session(w http.ResponseWriter, r *http.Request) *session.Session {
	s, err := srv.sessions.Get(chi.URLParam(r, "sid"))
	if err != nil {
		fail(w, r, nil, err)
		return nil
	}
	return s
}

// run executes an operation on the session's event loop and writes its
// result as JSON.
func (srv *Server) run(w http.ResponseWriter, r *http.Request,
	op func(*session.Session) (interface{}, error)) {
	//
	s := srv.session(w, r)
	if s == nil {
		return
	}
	var result interface{}
	err := s.Do(r.Context(), func(s *session.Session) (err error) {
		result, err = op(s)
		return
	})
	if err != nil {
		fail(w, r, s, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func decode(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

func elementParam(r *http.Request) dom.ElementID {
	return dom.ElementID(chi.URLParam(r, "id"))
}

// --- Sessions ---------------------------------------------------------

func (srv *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": srv.sessions.Len(),
	})
}

// createSession starts a session and loads its document. A document which
// cannot be loaded does not fail the request; the session reports it as a
// notice and stays empty.
func (srv *Server) createSession(w http.ResponseWriter, r *http.Request) {
	s, err := srv.sessions.Create(r.Context())
	if err != nil {
		fail(w, r, nil, err)
		return
	}
	if err = s.Load(r.Context()); err != nil {
		tracer().Infof("session %s starts without document: %v", s.ID(), err)
	}
	var st State
	err = s.Do(r.Context(), func(s *session.Session) error {
		s.FrameLoaded()
		st = stateOf(s)
		return nil
	})
	if err != nil {
		fail(w, r, s, err)
		return
	}
	w.Header().Set("Location", "/sessions/"+s.ID())
	writeJSON(w, http.StatusCreated, st)
}

func (srv *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": srv.sessions.IDs()})
}

func (srv *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := srv.sessions.Remove(chi.URLParam(r, "sid")); err != nil {
		fail(w, r, nil, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (srv *Server) state(w http.ResponseWriter, r *http.Request) {
	srv.run(w, r, func(s *session.Session) (interface{}, error) {
		return stateOf(s), nil
	})
}

// load reloads the document from the store, dropping all edits.
func (srv *Server) load(w http.ResponseWriter, r *http.Request) {
	s := srv.session(w, r)
	if s == nil {
		return
	}
	if err := s.Load(r.Context()); err != nil {
		fail(w, r, nil, err) // already a session notice
		return
	}
	srv.run(w, r, func(s *session.Session) (interface{}, error) {
		return stateOf(s), nil
	})
}

func (srv *Server) frameLoaded(w http.ResponseWriter, r *http.Request) {
	srv.run(w, r, func(s *session.Session) (interface{}, error) {
		attached := s.FrameLoaded()
		return map[string]bool{"attached": attached}, nil
	})
}

// --- Document and tree ------------------------------------------------

// document returns the live markup, including the editor's bookkeeping,
// for the embedded view to render.
func (srv *Server) document(w http.ResponseWriter, r *http.Request) {
	s := srv.session(w, r)
	if s == nil {
		return
	}
	var markup string
	err := s.Do(r.Context(), func(s *session.Session) (err error) {
		markup, err = s.Doc.Markup()
		return
	})
	if err != nil {
		fail(w, r, s, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(markup))
}

// Tree is the response body of the tree panel.
type Tree struct {
	Items    []treeview.Item `json:"items"`
	Selected []dom.ElementID `json:"selected"`
}

// tree renders the tree panel. Query parameter format selects plain text
// ("text") or a GraphViz diagram of the live document ("dot") instead of
// JSON.
func (srv *Server) tree(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	switch format {
	case "", "json":
		srv.run(w, r, func(s *session.Session) (interface{}, error) {
			roots := s.Sync.Roots()
			return Tree{Items: s.View.Render(roots), Selected: s.Sync.Selected()}, nil
		})
		return
	case "text", "dot":
	default:
		fail(w, r, nil, fmt.Errorf("%w: unknown tree format %q", ErrBadRequest, format))
		return
	}
	s := srv.session(w, r)
	if s == nil {
		return
	}
	var buf bytes.Buffer
	err := s.Do(r.Context(), func(s *session.Session) error {
		if format == "dot" {
			return domdbg.ToGraphViz(s.Doc, &buf, nil)
		}
		buf.WriteString(s.View.Text(s.Sync.Roots()))
		return nil
	})
	if err != nil {
		fail(w, r, s, err)
		return
	}
	if format == "dot" {
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.Write(buf.Bytes())
}

func (srv *Server) toggle(w http.ResponseWriter, r *http.Request) {
	id := elementParam(r)
	srv.run(w, r, func(s *session.Session) (interface{}, error) {
		if _, ok := s.Sync.Find(id); !ok {
			return nil, fmt.Errorf("%w: %s", dom.ErrUnknownElement, id)
		}
		return map[string]interface{}{"id": id, "expanded": s.View.Toggle(id)}, nil
	})
}

// --- Selection --------------------------------------------------------

type selectRequest struct {
	ID dom.ElementID `json:"id"`
}

// selectElement selects an element, as a click on a tree entry does.
func (srv *Server) selectElement(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decode(r, &req); err != nil {
		fail(w, r, nil, err)
		return
	}
	srv.run(w, r, func(s *session.Session) (interface{}, error) {
		if err := s.Machine.SelectElement(req.ID); err != nil {
			return nil, err
		}
		return s.Machine.Snapshot(), nil
	})
}

// events dispatches a pointer event forwarded by the embedded view.
func (srv *Server) events(w http.ResponseWriter, r *http.Request) {
	var ev dom.PointerEvent
	if err := decode(r, &ev); err != nil {
		fail(w, r, nil, err)
		return
	}
	srv.run(w, r, func(s *session.Session) (interface{}, error) {
		if _, err := s.Doc.Dispatch(ev); err != nil {
			return nil, err
		}
		return s.Machine.Snapshot(), nil
	})
}

func (srv *Server) enterAffordance(w http.ResponseWriter, r *http.Request) {
	srv.run(w, r, func(s *session.Session) (interface{}, error) {
		s.Machine.EnterAffordance()
		return s.Machine.Snapshot(), nil
	})
}

func (srv *Server) leaveAffordance(w http.ResponseWriter, r *http.Request) {
	srv.run(w, r, func(s *session.Session) (interface{}, error) {
		s.Machine.LeaveDocument()
		return s.Machine.Snapshot(), nil
	})
}

type locationRequest struct {
	Location dom.Location `json:"location"`
}

func (srv *Server) chooseLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := decode(r, &req); err != nil {
		fail(w, r, nil, err)
		return
	}
	srv.run(w, r, func(s *session.Session) (interface{}, error) {
		if err := s.Machine.ChooseLocation(req.Location); err != nil {
			return nil, err
		}
		return s.Machine.Snapshot(), nil
	})
}

func (srv *Server) cancelLocation(w http.ResponseWriter, r *http.Request) {
	srv.run(w, r, func(s *session.Session) (interface{}, error) {
		s.Machine.CancelLocation()
		return s.Machine.Snapshot(), nil
	})
}

// --- Actions ----------------------------------------------------------

// ActionItem is an action offered for the current selection. Index
// addresses it for execution.
type ActionItem struct {
	Index int `json:"index"`
	registry.Action
}

func (srv *Server) actions(w http.ResponseWriter, r *http.Request) {
	srv.run(w, r, func(s *session.Session) (interface{}, error) {
		actions := s.Machine.AvailableActions()
		items := make([]ActionItem, len(actions))
		for i, a := range actions {
			items[i] = ActionItem{Index: i, Action: a}
		}
		return map[string]interface{}{"actions": items}, nil
	})
}

// Inserted is the response body of an executed action.
type Inserted struct {
	ID        dom.ElementID      `json:"id"`
	Selection selection.Snapshot `json:"selection"`
}

func (srv *Server) executeAction(w http.ResponseWriter, r *http.Request) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		fail(w, r, nil, fmt.Errorf("%w: action index: %v", ErrBadRequest, err))
		return
	}
	srv.run(w, r, func(s *session.Session) (interface{}, error) {
		id, err := s.Machine.ExecuteActionAt(i)
		if err != nil {
			return nil, err
		}
		return Inserted{ID: id, Selection: s.Machine.Snapshot()}, nil
	})
}

// --- Properties -------------------------------------------------------

// Properties is the response body of the property panel.
type Properties struct {
	ID         dom.ElementID           `json:"id"`
	Properties []registry.PropertySpec `json:"properties"`
	Values     registry.Values         `json:"values"`
}

func propertiesOf(s *session.Session, id dom.ElementID) (interface{}, error) {
	specs, err := s.Editor.AvailableProperties(id)
	if err != nil {
		return nil, err
	}
	values, err := s.Editor.CurrentValues(id)
	if err != nil {
		return nil, err
	}
	return Properties{ID: id, Properties: specs, Values: values}, nil
}

func (srv *Server) properties(w http.ResponseWriter, r *http.Request) {
	id := elementParam(r)
	srv.run(w, r, func(s *session.Session) (interface{}, error) {
		return propertiesOf(s, id)
	})
}

type propertyRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (srv *Server) setProperty(w http.ResponseWriter, r *http.Request) {
	id := elementParam(r)
	var req propertyRequest
	if err := decode(r, &req); err != nil {
		fail(w, r, nil, err)
		return
	}
	srv.run(w, r, func(s *session.Session) (interface{}, error) {
		if err := s.Editor.SetProperty(id, req.Name, req.Value); err != nil {
			return nil, err
		}
		return propertiesOf(s, id)
	})
}

// --- Export -----------------------------------------------------------

// export returns the stripped markup as a download and saves it to the
// session's document store.
func (srv *Server) export(w http.ResponseWriter, r *http.Request) {
	s := srv.session(w, r)
	if s == nil {
		return
	}
	markup, err := s.Export(r.Context())
	if err != nil {
		fail(w, r, nil, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="template.html"`)
	w.Write([]byte(markup))
}
