package models

import (
	"bytes"
	"encoding/json"
	"slices"
)

// Collection is an insertion-ordered map of entries keyed by location id.
// Re-setting an existing key keeps its original position.
type Collection struct {
	keys  []string
	items map[string]*VisitEntry
}

func NewCollection() *Collection {
	return &Collection{items: make(map[string]*VisitEntry)}
}

func (c *Collection) Len() int {
	return len(c.keys)
}

func (c *Collection) Has(locationID string) bool {
	_, ok := c.items[locationID]
	return ok
}

// Get returns the stored entry itself; callers that hand it out must Clone.
func (c *Collection) Get(locationID string) (*VisitEntry, bool) {
	e, ok := c.items[locationID]
	return e, ok
}

// Set stores e under e.LocationID.
func (c *Collection) Set(e *VisitEntry) {
	if _, ok := c.items[e.LocationID]; !ok {
		c.keys = append(c.keys, e.LocationID)
	}
	c.items[e.LocationID] = e
}

// Delete removes the entry for locationID and reports whether it existed.
func (c *Collection) Delete(locationID string) bool {
	if _, ok := c.items[locationID]; !ok {
		return false
	}
	delete(c.items, locationID)
	if i := slices.Index(c.keys, locationID); i >= 0 {
		c.keys = slices.Delete(c.keys, i, i+1)
	}
	return true
}

func (c *Collection) Keys() []string {
	return slices.Clone(c.keys)
}

// Values returns the stored entries in insertion order.
func (c *Collection) Values() []*VisitEntry {
	out := make([]*VisitEntry, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, c.items[k])
	}
	return out
}

// Clone returns a deep copy.
func (c *Collection) Clone() *Collection {
	out := NewCollection()
	for _, e := range c.Values() {
		out.Set(e.Clone())
	}
	return out
}

// MarshalJSON encodes the collection as a JSON object whose keys follow
// insertion order.
func (c *Collection) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(c.items[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
