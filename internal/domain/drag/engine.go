// Package drag interprets drag gestures against the document store.
//
// A drag runs idle -> dragging -> idle. Dropping commits at most one store
// operation: a reorder for canvas components, or an insert/append for palette
// blocks of the insertable category. Cancel and Drop are the only ways out of
// dragging and each ends the drag.
package drag

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/pagebuilder/internal/domain/document"
	"github.com/GriffinCanCode/pagebuilder/internal/domain/registry"
)

var (
	// ErrEditing is returned when a drag starts while text editing is on.
	ErrEditing = errors.New("cannot drag while editing text")

	// ErrAlreadyDragging is returned when a drag starts during another drag.
	ErrAlreadyDragging = errors.New("a drag is already in progress")

	// ErrNotDragging is returned when dropping without an active drag.
	ErrNotDragging = errors.New("no drag in progress")

	// ErrInvalidSource is returned for a source reference missing its ids.
	ErrInvalidSource = errors.New("invalid drag source")
)

// SourceKind tags where a drag started
type SourceKind int

const (
	SourceCanvas SourceKind = iota + 1
	SourcePalette
)

func (k SourceKind) String() string {
	switch k {
	case SourceCanvas:
		return "canvas"
	case SourcePalette:
		return "palette"
	default:
		return "unknown"
	}
}

// SourceRef is the thing being dragged: a placed component or a catalog entry.
type SourceRef struct {
	Kind        SourceKind
	PageID      string
	ComponentID string
	BlockID     string
}

// CanvasSource references a component already on a page
func CanvasSource(pageID, componentID string) SourceRef {
	return SourceRef{Kind: SourceCanvas, PageID: pageID, ComponentID: componentID}
}

// PaletteSource references a catalog entry
func PaletteSource(blockID string) SourceRef {
	return SourceRef{Kind: SourcePalette, BlockID: blockID}
}

func (r SourceRef) valid() bool {
	switch r.Kind {
	case SourceCanvas:
		return r.ComponentID != ""
	case SourcePalette:
		return r.BlockID != ""
	default:
		return false
	}
}

// Target is where a drag was released. The zero Target means no valid target.
// A Target with a page but no component is the canvas surface of that page.
type Target struct {
	PageID      string
	ComponentID string
}

// SurfaceTarget is the empty canvas area of a page
func SurfaceTarget(pageID string) Target {
	return Target{PageID: pageID}
}

// ComponentTarget is an existing component on a page
func ComponentTarget(pageID, componentID string) Target {
	return Target{PageID: pageID, ComponentID: componentID}
}

// Outcome reports what a drop did
type Outcome string

const (
	OutcomeCancelled Outcome = "cancelled"
	OutcomeRejected  Outcome = "rejected"
	OutcomeReordered Outcome = "reordered"
	OutcomeInserted  Outcome = "inserted"
	OutcomeAppended  Outcome = "appended"
)

// Mutated reports whether the outcome changed the document
func (o Outcome) Mutated() bool {
	return o == OutcomeReordered || o == OutcomeInserted || o == OutcomeAppended
}

// EditGate reports whether text editing is active
type EditGate interface {
	Editing() bool
}

// Engine holds the drag state for one document
type Engine struct {
	store    *document.Store
	blocks   registry.Lookup
	gate     EditGate
	logger   *zap.Logger
	mu       sync.Mutex
	dragging *SourceRef // Protected by mu
}

// NewEngine creates a drag engine. gate may be nil when there is no text editing.
func NewEngine(store *document.Store, blocks registry.Lookup, gate EditGate, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:  store,
		blocks: blocks,
		gate:   gate,
		logger: logger,
	}
}

// Start begins a drag
func (e *Engine) Start(src SourceRef) error {
	if !src.valid() {
		return ErrInvalidSource
	}
	if e.gate != nil && e.gate.Editing() {
		return ErrEditing
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dragging != nil {
		return ErrAlreadyDragging
	}
	e.dragging = &src
	return nil
}

// Dragging returns the active source, if any
func (e *Engine) Dragging() (SourceRef, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dragging == nil {
		return SourceRef{}, false
	}
	return *e.dragging, true
}

// Cancel ends the drag without touching the document
func (e *Engine) Cancel() {
	e.mu.Lock()
	e.dragging = nil
	e.mu.Unlock()
}

// Drop ends the drag and commits at most one store operation.
func (e *Engine) Drop(target Target) (Outcome, error) {
	e.mu.Lock()
	src := e.dragging
	e.dragging = nil
	e.mu.Unlock()

	if src == nil {
		return OutcomeCancelled, ErrNotDragging
	}

	var (
		outcome Outcome
		err     error
	)
	switch src.Kind {
	case SourceCanvas:
		outcome = e.dropCanvas(*src, target)
	case SourcePalette:
		outcome, err = e.dropPalette(*src, target)
	default:
		outcome = OutcomeCancelled
	}

	e.logger.Debug("Drop",
		zap.Stringer("source", src.Kind),
		zap.String("outcome", string(outcome)))
	return outcome, err
}

func (e *Engine) dropCanvas(src SourceRef, target Target) Outcome {
	if target.ComponentID == "" {
		return OutcomeCancelled
	}

	srcPage, from, ok := e.store.FindComponent(src.ComponentID)
	if !ok {
		return OutcomeCancelled
	}
	dstPage, to, ok := e.store.FindComponent(target.ComponentID)
	if !ok || srcPage != dstPage || from == to {
		return OutcomeCancelled
	}
	if src.PageID != "" && src.PageID != srcPage {
		return OutcomeCancelled
	}

	e.store.ReorderComponent(srcPage, from, to)
	return OutcomeReordered
}

func (e *Engine) dropPalette(src SourceRef, target Target) (Outcome, error) {
	if target.PageID == "" && target.ComponentID == "" {
		return OutcomeCancelled, nil
	}

	if e.blocks == nil {
		return OutcomeRejected, nil
	}
	block, ok := e.blocks.ByID(src.BlockID)
	if !ok || !registry.IsInsertable(block) {
		return OutcomeRejected, nil
	}

	if target.ComponentID == "" {
		if _, err := e.store.AddComponent(target.PageID, src.BlockID); err != nil {
			return OutcomeRejected, err
		}
		return OutcomeAppended, nil
	}

	pageID, index, ok := e.store.FindComponent(target.ComponentID)
	if !ok {
		return OutcomeCancelled, nil
	}
	if _, err := e.store.InsertComponentAt(pageID, src.BlockID, index); err != nil {
		return OutcomeRejected, err
	}
	return OutcomeInserted, nil
}
