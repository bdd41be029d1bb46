// Package editor binds one document store to its text-override tracker and drag engine.
package editor

import (
	"go.uber.org/zap"

	"github.com/GriffinCanCode/pagebuilder/internal/domain/document"
	"github.com/GriffinCanCode/pagebuilder/internal/domain/drag"
	"github.com/GriffinCanCode/pagebuilder/internal/domain/overrides"
	"github.com/GriffinCanCode/pagebuilder/internal/domain/registry"
	"github.com/GriffinCanCode/pagebuilder/internal/shared/types"
)

// Workspace is the editing state of a single open project
type Workspace struct {
	Store     *document.Store
	Overrides *overrides.Tracker
	Drag      *drag.Engine
	blocks    registry.Lookup
}

// New creates a workspace around project
func New(project types.Project, blocks registry.Lookup, logger *zap.Logger) *Workspace {
	if logger == nil {
		logger = zap.NewNop()
	}
	store := document.NewStore(project, blocks, logger.Named("document"))
	tracker := overrides.NewTracker(store, logger.Named("overrides"))
	return &Workspace{
		Store:     store,
		Overrides: tracker,
		Drag:      drag.NewEngine(store, blocks, tracker, logger.Named("drag")),
		blocks:    blocks,
	}
}

// Load replaces the document and ends any drag or text edit in progress
func (w *Workspace) Load(project types.Project) types.Project {
	w.Drag.Cancel()
	_ = w.Overrides.SetEditing(false)
	return w.Store.Replace(project)
}

// Snapshot returns the project as it should be persisted
func (w *Workspace) Snapshot() types.Project {
	return w.Store.Project()
}

// ObserveBlock registers baselines for a placed component from its block's default markup
func (w *Workspace) ObserveBlock(componentID string) (int, error) {
	pageID, index, ok := w.Store.FindComponent(componentID)
	if !ok {
		return 0, document.ErrComponentNotFound
	}
	page, _ := w.Store.Project().Page(pageID)
	block, ok := w.blocks.ByID(page.Components[index].BlockID)
	if !ok || block.Markup == "" {
		return 0, nil
	}
	return w.Overrides.ObserveMarkup(componentID, block.Markup)
}

// Close releases the store subscriptions held by the workspace
func (w *Workspace) Close() {
	w.Overrides.Close()
}
