package ecs

import "github.com/kamstrup/intmap"

// iColumn is a type-erased component column indexed by entity slot index.
type iColumn interface {
	Set(index uint32, value any) bool
	Delete(index uint32)
	Get(index uint32) any
	Has(index uint32) bool
	Len() int
}

const (
	columnBlockSize = 64
)

type columnBlock[T any] struct {
	values [columnBlockSize]T
	filled [columnBlockSize]bool
}

// column stores components of type T in fixed-size blocks. Blocks are
// allocated individually so a pointer into a block survives column growth.
type column[T any] struct {
	blocks []*columnBlock[T]
	count  int
}

// Set stores value at index, accepting either T or *T.
func (c *column[T]) Set(index uint32, value any) bool {
	var concrete T
	if ptr, ok := value.(*T); ok {
		concrete = *ptr
	} else if val, ok := value.(T); ok {
		concrete = val
	} else {
		return false
	}
	c.set(index, concrete)
	return true
}

func (c *column[T]) set(index uint32, value T) *T {
	blockIdx := int(index / columnBlockSize)
	slotIdx := index % columnBlockSize

	for blockIdx >= len(c.blocks) {
		c.blocks = append(c.blocks, nil)
	}
	block := c.blocks[blockIdx]
	if block == nil {
		block = &columnBlock[T]{}
		c.blocks[blockIdx] = block
	}

	if !block.filled[slotIdx] {
		block.filled[slotIdx] = true
		c.count++
	}
	block.values[slotIdx] = value
	return &block.values[slotIdx]
}

// get returns a pointer to the component at index, or nil.
func (c *column[T]) get(index uint32) *T {
	blockIdx := int(index / columnBlockSize)
	if blockIdx >= len(c.blocks) {
		return nil
	}
	block := c.blocks[blockIdx]
	if block == nil || !block.filled[index%columnBlockSize] {
		return nil
	}
	return &block.values[index%columnBlockSize]
}

// Get returns a pointer to the component at index as *T, or nil.
func (c *column[T]) Get(index uint32) any {
	if ptr := c.get(index); ptr != nil {
		return ptr
	}
	return nil
}

// Delete marks a slot as empty. The value is left in place until the slot is
// reused so pointers captured by an in-flight query snapshot stay readable.
func (c *column[T]) Delete(index uint32) {
	blockIdx := int(index / columnBlockSize)
	if blockIdx >= len(c.blocks) {
		return
	}
	block := c.blocks[blockIdx]
	if block == nil || !block.filled[index%columnBlockSize] {
		return
	}
	block.filled[index%columnBlockSize] = false
	c.count--
}

func (c *column[T]) Has(index uint32) bool {
	return c.get(index) != nil
}

func (c *column[T]) Len() int {
	return c.count
}

// markerColumn records presence of a zero-size component without storing values.
type markerColumn[T any] struct {
	members *intmap.Map[uint32, struct{}]
	zero    T
}

func newMarkerColumn[T any]() *markerColumn[T] {
	return &markerColumn[T]{
		members: intmap.New[uint32, struct{}](64),
	}
}

func (c *markerColumn[T]) Set(index uint32, value any) bool {
	switch value.(type) {
	case T, *T:
		c.members.Put(index, struct{}{})
		return true
	}
	return false
}

func (c *markerColumn[T]) get(index uint32) *T {
	if _, ok := c.members.Get(index); ok {
		return &c.zero
	}
	return nil
}

func (c *markerColumn[T]) Get(index uint32) any {
	if ptr := c.get(index); ptr != nil {
		return ptr
	}
	return nil
}

func (c *markerColumn[T]) Delete(index uint32) {
	c.members.Del(index)
}

func (c *markerColumn[T]) Has(index uint32) bool {
	_, ok := c.members.Get(index)
	return ok
}

func (c *markerColumn[T]) Len() int {
	return c.members.Len()
}

// typedColumn is implemented by both column kinds so queries can fetch *T
// without boxing.
type typedColumn[T any] interface {
	iColumn
	get(index uint32) *T
}
