package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/npillmayer/uxbuilder/dom"
	"github.com/npillmayer/uxbuilder/store"
)

// Level is the severity of a notice.
type Level string

// Notice levels.
const (
	Info    Level = "info"
	Warning Level = "warning"
	Failure Level = "error"
)

// Notice is a message for the user of a session.
type Notice struct {
	Time    time.Time `json:"time"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
}

// maxNotices limits the number of notices kept per session.
const maxNotices = 32

// Notify records a notice. It must be called on the event loop.
func (s *Session) Notify(level Level, format string, args ...interface{}) {
	n := Notice{Time: time.Now(), Level: level, Message: fmt.Sprintf(format, args...)}
	s.notices = append(s.notices, n)
	if len(s.notices) > maxNotices {
		s.notices = s.notices[len(s.notices)-maxNotices:]
	}
	tracer().Infof("session %s: %s: %s", s.id, level, n.Message)
}

// Notices returns the recorded notices. It must be called on the event loop.
func (s *Session) Notices() []Notice {
	return append([]Notice(nil), s.notices...)
}

// Load fetches the markup from the document store and makes it the live
// document. A failure to load is recorded as a notice and leaves the
// document empty; it is not retried.
func (s *Session) Load(ctx context.Context) error {
	markup, loadErr := s.store.Load(ctx)
	return s.Do(ctx, func(s *Session) error {
		s.Machine.Reset()
		s.Editor.Forget()
		s.View.Reset()
		s.Sync.Clear()
		if loadErr != nil {
			s.Doc.Unload()
			s.Notify(Failure, "cannot load document: %v", loadErr)
			return loadErr
		}
		if err := s.Doc.Load(markup); err != nil {
			s.Notify(Failure, "cannot parse document: %v", err)
			return err
		}
		tracer().Infof("session %s: document loaded, generation %d", s.id, s.Doc.Generation())
		return nil
	})
}

// FrameLoaded is run when the embedded view signals that it has finished
// loading. The view may signal this more than once per document, and before
// the document has a body. Listeners are attached once per loaded document;
// on a bodyless document, FrameLoaded does nothing. It must be called on
// the event loop, and reports wether listeners have been attached.
func (s *Session) FrameLoaded() bool {
	if !s.Doc.Loaded() || s.Doc.Body() == nil {
		tracer().Debugf("session %s: frame loaded without body", s.id)
		return false
	}
	if s.attached == s.Doc.Generation() {
		return false
	}
	s.attachListeners()
	if err := s.Doc.InjectEditorStyles(); err != nil {
		tracer().Errorf("session %s: %v", s.id, err)
	}
	s.attached = s.Doc.Generation()
	s.Sync.Refresh()
	return true
}

func (s *Session) attachListeners() {
	m := s.Machine
	s.Doc.OnPointerEvent(dom.Click, func(id dom.ElementID, _ dom.PointerEvent) {
		if err := m.SelectElement(id); err != nil {
			s.Notify(Warning, "cannot select %s: %v", id, err)
		}
	})
	s.Doc.OnPointerEventWhere(dom.Move, dom.IsElement, func(id dom.ElementID, _ dom.PointerEvent) {
		if err := m.Hover(id); err != nil {
			tracer().Debugf("session %s: hover %s: %v", s.id, id, err)
		}
	})
	s.Doc.OnPointerEvent(dom.Leave, func(dom.ElementID, dom.PointerEvent) {
		m.LeaveDocument()
	})
	s.Doc.OnPointerEvent(dom.Scroll, func(dom.ElementID, dom.PointerEvent) {
		m.Scrolled()
	})
	s.Doc.OnPointerEvent(dom.Resize, func(_ dom.ElementID, ev dom.PointerEvent) {
		if ev.Frame != nil {
			tracer().Debugf("session %s: frame moved to %+v", s.id, *ev.Frame)
		}
	})
}

// Export returns the markup of the live document, stripped of all editor
// bookkeeping, and hands it to the document store. A store which cannot
// save does not fail the export; the failure is recorded as a notice.
func (s *Session) Export(ctx context.Context) (string, error) {
	var markup string
	err := s.Do(ctx, func(s *Session) error {
		var err error
		if markup, err = s.Doc.Export(); err != nil {
			s.Notify(Warning, "nothing to save: the document has not been loaded")
		}
		return err
	})
	if err != nil {
		return "", err
	}
	if err = s.store.Save(ctx, markup); err != nil {
		level := Failure
		if errors.Is(err, store.ErrReadOnly) {
			level = Info
		}
		_ = s.Do(ctx, func(s *Session) error {
			s.Notify(level, "document not saved to store: %v", err)
			return nil
		})
	}
	return markup, nil
}
