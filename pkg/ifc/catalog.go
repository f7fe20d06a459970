package ifc

import (
	"context"
	"fmt"
	"sync"

	"github.com/Faultbox/sectionview/pkg/geom"
)

// Catalog holds loaded models and answers geometry-extraction and
// classification queries for them. It is safe for concurrent readers.
type Catalog struct {
	mu     sync.RWMutex
	models map[ModelID]*Model
	nextID ModelID
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		models: make(map[ModelID]*Model),
	}
}

// Add validates m, assigns it the next ModelID and stores it.
func (c *Catalog) Add(m *Model) (ModelID, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	m.ID = c.nextID
	c.nextID++
	c.models[m.ID] = m
	return m.ID, nil
}

// Get returns the model with the given id.
func (c *Catalog) Get(id ModelID) (*Model, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m, ok := c.models[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownModel, id)
	}
	return m, nil
}

// Remove drops a model from the catalog.
func (c *Catalog) Remove(id ModelID) {
	c.mu.Lock()
	delete(c.models, id)
	c.mu.Unlock()
}

// ExtractSubsetGeometry returns the part of the model's mesh that belongs to ids.
func (c *Catalog) ExtractSubsetGeometry(id ModelID, ids IDSet) (*geom.Geometry, error) {
	m, err := c.Get(id)
	if err != nil {
		return nil, err
	}
	return m.ExtractGeometry(ids), nil
}

// QueryIDsOfCategory returns every element of the given category in the model.
func (c *Catalog) QueryIDsOfCategory(ctx context.Context, id ModelID, category Category) ([]SemanticID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := c.Get(id)
	if err != nil {
		return nil, err
	}
	ids := m.Types[category]
	out := make([]SemanticID, len(ids))
	copy(out, ids)
	return out, nil
}
