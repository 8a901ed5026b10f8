package content

import (
	"encoding/json"
	"fmt"

	"github.com/storefront/backend/internal/domain/shared"
)

// Direction of a move
type Direction int

const (
	Up Direction = iota
	Down
)

// ItemList edits one array of a section in place
type ItemList interface {
	Len() int
	// Add appends an item decoded from raw, or a template item when raw is empty
	Add(raw json.RawMessage) error
	Remove(index int) error
	// Move swaps the item with its neighbour in the given direction
	Move(index int, dir Direction) error
	// FixedSize is the required length, or 0 when unconstrained
	FixedSize() int
}

// ErrFixedSize is returned when adding to or removing from a fixed size array
var ErrFixedSize = shared.NewDomainError("FIXED_SIZE", "This list has a fixed number of items")

type sliceList[T any] struct {
	items    *[]T
	template T
	fixed    int
}

func newSliceList[T any](items *[]T, template T, fixed int) *sliceList[T] {
	return &sliceList[T]{items: items, template: template, fixed: fixed}
}

func (l *sliceList[T]) Len() int {
	return len(*l.items)
}

func (l *sliceList[T]) FixedSize() int {
	return l.fixed
}

func (l *sliceList[T]) Add(raw json.RawMessage) error {
	if l.fixed > 0 {
		return ErrFixedSize
	}
	item := l.template
	if len(raw) > 0 && string(raw) != "null" {
		var decoded T
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return shared.NewDomainError("INVALID_ITEM", fmt.Sprintf("Item does not match the list: %v", err))
		}
		item = decoded
	}
	*l.items = AddItem(*l.items, item)
	return nil
}

func (l *sliceList[T]) Remove(index int) error {
	if l.fixed > 0 {
		return ErrFixedSize
	}
	items, err := RemoveItem(*l.items, index)
	if err != nil {
		return err
	}
	*l.items = items
	return nil
}

func (l *sliceList[T]) Move(index int, dir Direction) error {
	return MoveItem(*l.items, index, dir)
}

// AddItem returns items with item appended. The input slice is not modified.
func AddItem[T any](items []T, item T) []T {
	out := make([]T, len(items), len(items)+1)
	copy(out, items)
	return append(out, item)
}

// RemoveItem returns items without the element at index. The input slice is not modified.
func RemoveItem[T any](items []T, index int) ([]T, error) {
	if index < 0 || index >= len(items) {
		return nil, indexError(index, len(items))
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:index]...)
	return append(out, items[index+1:]...), nil
}

// MoveItem swaps items[index] with its neighbour in place.
// Moving the first item up or the last item down is a no-op.
func MoveItem[T any](items []T, index int, dir Direction) error {
	if index < 0 || index >= len(items) {
		return indexError(index, len(items))
	}
	target := index - 1
	if dir == Down {
		target = index + 1
	}
	if target < 0 || target >= len(items) {
		return nil
	}
	items[index], items[target] = items[target], items[index]
	return nil
}

func indexError(index, n int) error {
	return shared.NewDomainError("INVALID_INDEX", fmt.Sprintf("Index %d is out of range for %d items", index, n))
}
