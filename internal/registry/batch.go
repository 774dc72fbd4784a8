package registry

import (
	"reflect"

	"github.com/vk/typeboot/internal/converter"
	"github.com/vk/typeboot/internal/metadata"
)

// Batch stages publications for an atomic Commit.
type Batch struct {
	items []batchItem
}

type batchItem struct {
	class reflect.Type
	md    metadata.ManagedClass
}

// NewBatch creates an empty Batch.
func NewBatch() *Batch {
	return &Batch{}
}

// Publish stages resolved metadata for t.
func (b *Batch) Publish(t reflect.Type, md metadata.ManagedClass) {
	b.items = append(b.items, batchItem{class: t, md: md})
}

// RegisterValueType stages t on the value channel.
func (b *Batch) RegisterValueType(t reflect.Type, codec converter.Codec) {
	b.Publish(t, metadata.NewValueType(t, codec))
}

// Len returns the number of staged entries.
func (b *Batch) Len() int {
	return len(b.items)
}
