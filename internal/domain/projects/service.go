package projects

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/pagebuilder/internal/domain/registry"
	"github.com/GriffinCanCode/pagebuilder/internal/domain/rehydrate"
	"github.com/GriffinCanCode/pagebuilder/internal/shared/types"
)

// Snapshot is the persisted form of a project
type Snapshot struct {
	Pages       []types.Page `json:"pages"`
	EntryPageID string       `json:"entryPageId"`
	SavedAt     time.Time    `json:"savedAt"`
}

// Summary describes a stored project without its pages
type Summary struct {
	Name        string `json:"name"`
	Pages       int    `json:"pages"`
	EntryPageID string `json:"entryPageId"`
}

// Service saves projects to a ProjectStore and rehydrates them on read
type Service struct {
	store  ProjectStore
	blocks registry.Lookup
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a persistence service
func NewService(store ProjectStore, blocks registry.Lookup, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		blocks: blocks,
		logger: logger,
		now:    time.Now,
	}
}

// Encode serializes a project in the current snapshot shape
func (s *Service) Encode(project types.Project) ([]byte, error) {
	data, err := sonic.Marshal(Snapshot{
		Pages:       project.Pages,
		EntryPageID: project.EntryPageID,
		SavedAt:     s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Save stores project under name, replacing whatever was there
func (s *Service) Save(ctx context.Context, name string, project types.Project) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrBlankName
	}

	data, err := s.Encode(project)
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, name, data); err != nil {
		return fmt.Errorf("save project %q: %w", name, err)
	}

	s.logger.Info("Project saved",
		zap.String("project", name),
		zap.Int("pages", len(project.Pages)),
		zap.Int("bytes", len(data)))
	return nil
}

// SaveRaw stores raw exactly as given and returns its rehydrated view.
// The bytes are only checked to be JSON; normalization happens on every
// read, so components whose block is missing today survive until it returns.
func (s *Service) SaveRaw(ctx context.Context, name string, raw []byte) (types.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Project{}, ErrBlankName
	}

	var doc interface{}
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return types.Project{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if err := s.store.Save(ctx, name, raw); err != nil {
		return types.Project{}, fmt.Errorf("save project %q: %w", name, err)
	}

	project := rehydrate.FromValue(doc, s.blocks)
	s.logger.Info("Project saved",
		zap.String("project", name),
		zap.Int("pages", len(project.Pages)),
		zap.Int("bytes", len(raw)))
	return project, nil
}

// LoadAll returns every stored project, rehydrated
func (s *Service) LoadAll(ctx context.Context) (map[string]types.Project, error) {
	all, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	out := make(map[string]types.Project, len(all))
	for name, data := range all {
		out[name] = rehydrate.Rehydrate(data, s.blocks)
	}
	return out, nil
}

// Load returns one project, rehydrated
func (s *Service) Load(ctx context.Context, name string) (types.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Project{}, ErrBlankName
	}

	var (
		data []byte
		err  error
	)
	if g, ok := s.store.(Getter); ok {
		data, err = g.Get(ctx, name)
	} else {
		var all map[string][]byte
		all, err = s.store.LoadAll(ctx)
		if err == nil {
			var found bool
			if data, found = all[name]; !found {
				err = ErrNotFound
			}
		}
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return types.Project{}, err
		}
		return types.Project{}, fmt.Errorf("load project %q: %w", name, err)
	}
	return rehydrate.Rehydrate(data, s.blocks), nil
}

// List summarizes every stored project in name order
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	all, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	out := make([]Summary, 0, len(all))
	for _, name := range sortedNames(all) {
		p := rehydrate.Rehydrate(all[name], s.blocks)
		out = append(out, Summary{Name: name, Pages: len(p.Pages), EntryPageID: p.EntryPageID})
	}
	return out, nil
}

// Delete removes a stored project
func (s *Service) Delete(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrBlankName
	}
	if err := s.store.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete project %q: %w", name, err)
	}
	s.logger.Info("Project deleted", zap.String("project", name))
	return nil
}
