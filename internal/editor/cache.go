package editor

import "context"

// Loader produces a document's initial contents. It is only invoked when no
// model exists for the key yet, which keeps the content read deferred until
// first need.
type Loader func(ctx context.Context) ([]byte, error)

// ModelCache maps document keys to their single live model. Reference
// counting is the view lifecycle's job: the cache only ever sees one
// Release per key, issued when the last view of that key closes.
type ModelCache struct {
	models map[string]*Model
}

// NewModelCache creates an empty cache.
func NewModelCache() *ModelCache {
	return &ModelCache{models: make(map[string]*Model)}
}

// GetOrCreate returns the existing model for key, or invokes the loader and
// registers a fresh one. A failed load registers nothing, so the next call
// retries; the error reaches the requesting view untouched.
func (c *ModelCache) GetOrCreate(ctx context.Context, key string, load Loader) (*Model, error) {
	if m, ok := c.models[key]; ok {
		return m, nil
	}
	content, err := load(ctx)
	if err != nil {
		return nil, err
	}
	// Re-check after the await: another task may have registered the key
	// while the load was in flight.
	if m, ok := c.models[key]; ok {
		return m, nil
	}
	m := newModel(key, content)
	c.models[key] = m
	return m, nil
}

// Get returns the model for key if one is live, else nil.
func (c *ModelCache) Get(key string) *Model {
	return c.models[key]
}

// Release disposes the model for key and removes it. Called when the last
// view referencing the key is closed. Releasing an absent key is a no-op.
func (c *ModelCache) Release(key string) {
	m, ok := c.models[key]
	if !ok {
		return
	}
	m.disposed = true
	delete(c.models, key)
}

// Len returns the number of live models.
func (c *ModelCache) Len() int { return len(c.models) }

// Keys iterates the live model keys.
func (c *ModelCache) Keys() []string {
	out := make([]string, 0, len(c.models))
	for k := range c.models {
		out = append(out, k)
	}
	return out
}
