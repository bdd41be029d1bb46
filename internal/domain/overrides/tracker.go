// Package overrides tracks per-instance text replacements without touching block templates.
//
// An override keeps two strings per node: the baseline the block rendered
// (Original) and what the user sees (Value). Baselines are captured once and
// only move when the block's default text changes while the user has not
// diverged from it.
package overrides

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/pagebuilder/internal/domain/document"
	"github.com/GriffinCanCode/pagebuilder/internal/shared/types"
)

// ErrNothingToEdit is returned when text editing is enabled on a page without components.
var ErrNothingToEdit = errors.New("active page has no components to edit")

// Tracker records baselines and edits against a document store and owns the
// process-wide text editing flag.
type Tracker struct {
	store       *document.Store
	logger      *zap.Logger
	mu          sync.RWMutex
	editing     bool // Protected by mu
	unsubscribe func()
}

// NewTracker creates a tracker bound to store. Editing is switched off
// automatically whenever the active page ends up empty.
func NewTracker(store *document.Store, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracker{store: store, logger: logger}
	t.unsubscribe = store.Subscribe(func(types.Project) { t.syncEditing() })
	return t
}

// Close detaches the tracker from its store
func (t *Tracker) Close() {
	if t.unsubscribe != nil {
		t.unsubscribe()
	}
}

// Editing reports whether text editing mode is on
func (t *Tracker) Editing() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.editing
}

// SetEditing switches text editing mode. Enabling it on an empty active page fails.
func (t *Tracker) SetEditing(on bool) error {
	if on && !t.activeHasComponents() {
		return ErrNothingToEdit
	}
	t.mu.Lock()
	t.editing = on
	t.mu.Unlock()
	return nil
}

// RegisterBaseline records observed as the rendered text of a node.
// The first observation sets both Original and Value. Later observations
// re-baseline only when the text drifted and the user has not edited it.
func (t *Tracker) RegisterBaseline(componentID, nodeKey, observed string) (types.TextOverride, error) {
	current, ok := t.store.TextOverride(componentID, nodeKey)

	var next types.TextOverride
	switch {
	case !ok:
		next = types.TextOverride{Original: observed, Value: observed}
	case current.Original == observed:
		return current, nil
	case !current.Edited():
		next = types.TextOverride{Original: observed, Value: observed}
		t.logger.Debug("Baseline drifted",
			zap.String("component_id", componentID),
			zap.String("node", nodeKey))
	case current.Original == "":
		// Edited before any baseline was seen
		next = types.TextOverride{Original: observed, Value: current.Value}
	default:
		return current, nil
	}

	if _, err := t.store.PutTextOverride(componentID, nodeKey, next); err != nil {
		return current, fmt.Errorf("register baseline %s/%s: %w", componentID, nodeKey, err)
	}
	return next, nil
}

// SetValue replaces the text a node shows while keeping its baseline.
// Setting the current value again is a no-op.
func (t *Tracker) SetValue(componentID, nodeKey, value string) (types.TextOverride, error) {
	current, ok := t.store.TextOverride(componentID, nodeKey)
	if ok && current.Value == value {
		return current, nil
	}

	next := types.TextOverride{Original: current.Original, Value: value}
	if _, err := t.store.PutTextOverride(componentID, nodeKey, next); err != nil {
		return current, fmt.Errorf("set value %s/%s: %w", componentID, nodeKey, err)
	}
	return next, nil
}

// ObserveMarkup registers a baseline for every element of markup that carries
// direct text. Keys are "tag[n]" where n counts text-bearing elements of that
// tag in document order. Returns the number of nodes observed.
func (t *Tracker) ObserveMarkup(componentID, markup string) (int, error) {
	nodes, err := TextNodes(markup)
	if err != nil {
		return 0, err
	}
	for _, n := range nodes {
		if _, err := t.RegisterBaseline(componentID, n.Key, n.Text); err != nil {
			return 0, err
		}
	}
	return len(nodes), nil
}

// TextNode is one text-bearing element found in block markup
type TextNode struct {
	Key  string
	Text string
}

// TextNodes lists the text-bearing elements of markup in document order.
func TextNodes(markup string) ([]TextNode, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}

	var nodes []TextNode
	seen := make(map[string]int)
	doc.Find("body *").Each(func(_ int, s *goquery.Selection) {
		var b strings.Builder
		s.Contents().Each(func(_ int, c *goquery.Selection) {
			if goquery.NodeName(c) == "#text" {
				b.WriteString(c.Text())
				b.WriteByte(' ')
			}
		})
		text := strings.Join(strings.Fields(b.String()), " ")
		if text == "" {
			return
		}
		tag := goquery.NodeName(s)
		nodes = append(nodes, TextNode{Key: fmt.Sprintf("%s[%d]", tag, seen[tag]), Text: text})
		seen[tag]++
	})
	return nodes, nil
}

func (t *Tracker) syncEditing() {
	if t.Editing() && !t.activeHasComponents() {
		t.mu.Lock()
		t.editing = false
		t.mu.Unlock()
		t.logger.Debug("Text editing disabled: active page is empty")
	}
}

func (t *Tracker) activeHasComponents() bool {
	page, ok := t.store.ActivePage()
	return ok && len(page.Components) > 0
}
