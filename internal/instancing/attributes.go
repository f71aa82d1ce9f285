package instancing

import (
	"errors"
	"fmt"

	"instmesh/internal/geom"
)

// AttributeID names a per-instance attribute buffer.
type AttributeID string

const (
	AttributeMatrix AttributeID = "instanceMatrix"
	AttributeColor  AttributeID = "instanceColor"
)

// Item sizes of the built-in attributes.
const (
	MatrixItemSize = geom.MatrixItemSize
	ColorItemSize  = 3
)

// AttributeSpec declares one per-instance attribute and its item size.
type AttributeSpec struct {
	ID       AttributeID
	ItemSize int
}

// AttributeHost owns the per-instance buffers a Mesh writes and reorders. Buffers
// are indexed by slot: the item of slot s starts at s*ItemSize(id).
type AttributeHost interface {
	Buffer(id AttributeID) []float32
	ItemSize(id AttributeID) int
	MarkDirty(id AttributeID)
}

var ErrAttributeExists = errors.New("instancing: attribute already registered")

type attribute struct {
	data     []float32
	itemSize int
	dirty    bool
}

// AttributeSet is an in-memory AttributeHost with a fixed slot capacity and a
// dirty flag per buffer.
type AttributeSet struct {
	capacity int
	order    []AttributeID
	attrs    map[AttributeID]*attribute
}

// NewAttributeSet creates an empty set whose buffers hold capacity items.
func NewAttributeSet(capacity int) *AttributeSet {
	return &AttributeSet{
		capacity: capacity,
		attrs:    make(map[AttributeID]*attribute),
	}
}

// Register allocates a zeroed buffer for id.
func (s *AttributeSet) Register(id AttributeID, itemSize int) error {
	if itemSize < 1 {
		return fmt.Errorf("instancing: attribute %q item size %d", id, itemSize)
	}
	if _, ok := s.attrs[id]; ok {
		return fmt.Errorf("%w: %q", ErrAttributeExists, id)
	}
	s.attrs[id] = &attribute{
		data:     make([]float32, s.capacity*itemSize),
		itemSize: itemSize,
	}
	s.order = append(s.order, id)
	return nil
}

// Capacity returns the number of slots every buffer holds.
func (s *AttributeSet) Capacity() int { return s.capacity }

// IDs returns the registered attributes in registration order.
func (s *AttributeSet) IDs() []AttributeID { return s.order }

// Has reports whether id is registered.
func (s *AttributeSet) Has(id AttributeID) bool {
	_, ok := s.attrs[id]
	return ok
}

func (s *AttributeSet) Buffer(id AttributeID) []float32 {
	if a, ok := s.attrs[id]; ok {
		return a.data
	}
	return nil
}

func (s *AttributeSet) ItemSize(id AttributeID) int {
	if a, ok := s.attrs[id]; ok {
		return a.itemSize
	}
	return 0
}

func (s *AttributeSet) MarkDirty(id AttributeID) {
	if a, ok := s.attrs[id]; ok {
		a.dirty = true
	}
}

// Dirty reports whether id changed since the last ClearDirty.
func (s *AttributeSet) Dirty(id AttributeID) bool {
	a, ok := s.attrs[id]
	return ok && a.dirty
}

// ClearDirty resets the dirty flag of id after an upload.
func (s *AttributeSet) ClearDirty(id AttributeID) {
	if a, ok := s.attrs[id]; ok {
		a.dirty = false
	}
}
