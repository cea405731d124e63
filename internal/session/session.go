// Package session ties the edit engines of one open document together.
//
// An EditSession owns the undo history, the clipboard and the order engine,
// and exposes the user-facing edit commands on top of them. It is created
// once per document and handed to command handlers by the dispatcher.
package session

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/net/html"

	"github.com/dshills/canvasedit/internal/document"
	"github.com/dshills/canvasedit/internal/engine/clipboard"
	"github.com/dshills/canvasedit/internal/engine/history"
	"github.com/dshills/canvasedit/internal/engine/order"
	"github.com/dshills/canvasedit/internal/logging"
	"github.com/dshills/canvasedit/internal/prompt"
)

// Removal prompt text and labels.
const (
	RemoveMessage     = "I am about to <strong>delete the selected element(s)</strong>, are you sure?"
	RemoveAcceptLabel = "delete"
	RemoveCancelLabel = "cancel"
)

// ErrDeclined indicates the user declined a confirmation.
var ErrDeclined = errors.New("session: declined by user")

// Document is the document model an edit session works on.
type Document interface {
	history.Model
	clipboard.Model
	RemoveElement(n *html.Node) error
}

// Selection is the selection store of the session.
type Selection interface {
	Get() []*html.Node
	Set(elems []*html.Node)
	Len() int
	Clear()
}

type options struct {
	logger     *logging.Logger
	maxHistory int
	clipboard  []clipboard.Option
	order      []order.Option
}

// Option configures an EditSession.
type Option func(*options)

// WithLogger sets the session logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMaxHistory bounds the undo depth.
func WithMaxHistory(n int) Option {
	return func(o *options) {
		o.maxHistory = n
	}
}

// WithPasteAnchor changes where pasted groups land.
func WithPasteAnchor(p document.Point) Option {
	return func(o *options) {
		o.clipboard = append(o.clipboard, clipboard.WithAnchor(p))
	}
}

// WithOrderOptions passes options to the order engine.
func WithOrderOptions(opts ...order.Option) Option {
	return func(o *options) {
		o.order = append(o.order, opts...)
	}
}

// EditSession is the edit state of one open document.
type EditSession struct {
	doc     Document
	sel     Selection
	confirm prompt.Confirmer
	log     *logging.Logger

	history   *history.History
	clipboard *clipboard.Manager
	order     *order.Engine
}

// New creates a session for doc.
func New(doc Document, sel Selection, confirm prompt.Confirmer, opts ...Option) *EditSession {
	o := options{logger: logging.Nop(), maxHistory: history.DefaultMaxEntries}
	for _, opt := range opts {
		opt(&o)
	}
	if confirm == nil {
		confirm = prompt.Static(false)
	}

	h := history.New(doc, o.maxHistory)
	return &EditSession{
		doc:       doc,
		sel:       sel,
		confirm:   confirm,
		log:       o.logger.WithComponent("session"),
		history:   h,
		clipboard: clipboard.New(doc, h, sel, o.clipboard...),
		order:     order.New(h, sel, o.order...),
	}
}

// Document returns the edited document.
func (s *EditSession) Document() Document { return s.doc }

// Selection returns the selection store.
func (s *EditSession) Selection() Selection { return s.sel }

// History returns the undo history.
func (s *EditSession) History() *history.History { return s.history }

// Clipboard returns the clipboard.
func (s *EditSession) Clipboard() *clipboard.Manager { return s.clipboard }

// Order returns the order engine.
func (s *EditSession) Order() *order.Engine { return s.order }

// Undo restores the previous checkpoint. An empty undo stack is a no-op.
func (s *EditSession) Undo(ctx context.Context) error {
	err := s.history.Undo(ctx)
	if errors.Is(err, history.ErrNothingToUndo) {
		s.log.Debug("undo: nothing to undo")
		return nil
	}
	if err == nil {
		s.reselect()
	}
	return err
}

// Redo re-applies the last undone change. An empty redo stack is a no-op.
func (s *EditSession) Redo(ctx context.Context) error {
	err := s.history.Redo(ctx)
	if errors.Is(err, history.ErrNothingToRedo) {
		s.log.Debug("redo: nothing to redo")
		return nil
	}
	if err == nil {
		s.reselect()
	}
	return err
}

// reselect maps the selection onto the tree restored by undo or redo.
// Elements are matched by element id; those missing from the restored
// tree are dropped.
func (s *EditSession) reselect() {
	old := s.sel.Get()
	if len(old) == 0 {
		return
	}
	finder, _ := s.doc.(interface{ FindByID(id string) *html.Node })
	kept := make([]*html.Node, 0, len(old))
	for _, n := range old {
		if s.doc.Contains(n) {
			kept = append(kept, n)
			continue
		}
		if finder == nil {
			continue
		}
		if m := finder.FindByID(document.ElementID(n)); m != nil {
			kept = append(kept, m)
		}
	}
	if len(kept) < len(old) {
		s.log.Debug("undo: %d selected element(s) no longer exist", len(old)-len(kept))
	}
	s.sel.Set(kept)
}

// CopySelection copies the selected elements to the clipboard.
func (s *EditSession) CopySelection() error {
	elems := s.sel.Get()
	if len(elems) == 0 {
		s.log.Debug("copy: empty selection")
		return nil
	}
	err := s.clipboard.Copy(elems)
	if err != nil {
		s.log.Warn("copy: %v", err)
	}
	return err
}

// PasteSelection pastes the clipboard and selects the pasted elements.
func (s *EditSession) PasteSelection() error {
	pasted, err := s.clipboard.Paste()
	if err != nil {
		return err
	}
	if pasted == nil {
		s.log.Debug("paste: clipboard empty")
		return nil
	}
	s.log.Debug("paste: %d element(s)", len(pasted))
	return nil
}

// RemoveSelectedElements asks for confirmation and then deletes the selected
// elements. A declined prompt returns ErrDeclined and changes nothing. The
// stage element is never removed.
func (s *EditSession) RemoveSelectedElements(ctx context.Context) error {
	elems := s.sel.Get()
	if len(elems) == 0 {
		s.log.Debug("remove: empty selection")
		return nil
	}

	answer := make(chan bool, 1)
	s.confirm.Confirm(RemoveMessage, RemoveAcceptLabel, RemoveCancelLabel, func(accepted bool) {
		answer <- accepted
	})

	var accepted bool
	select {
	case accepted = <-answer:
	case <-ctx.Done():
		return ctx.Err()
	}
	if !accepted {
		return ErrDeclined
	}

	if err := s.history.Checkpoint(); err != nil {
		return fmt.Errorf("session: remove: %w", err)
	}

	var errs []error
	for _, n := range elems {
		if err := s.doc.RemoveElement(n); err != nil {
			errs = append(errs, fmt.Errorf("session: remove %s: %w", label(n), err))
		}
	}
	s.sel.Clear()
	return errors.Join(errs...)
}

// MoveUp moves the selection one step toward the front.
func (s *EditSession) MoveUp() error { return s.move(s.order.MoveUp) }

// MoveDown moves the selection one step toward the back.
func (s *EditSession) MoveDown() error { return s.move(s.order.MoveDown) }

// MoveToTop brings the selection to the front.
func (s *EditSession) MoveToTop() error { return s.move(s.order.MoveToTop) }

// MoveToBottom sends the selection to the back.
func (s *EditSession) MoveToBottom() error { return s.move(s.order.MoveToBottom) }

func (s *EditSession) move(fn func() error) error {
	if s.sel.Len() == 0 {
		s.log.Debug("move: empty selection")
		return nil
	}
	return fn()
}

func label(n *html.Node) string {
	if id := document.ElementID(n); id != "" {
		return id
	}
	if n != nil {
		return "<" + n.Data + ">"
	}
	return "<nil>"
}
