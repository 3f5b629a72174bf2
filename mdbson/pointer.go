package mdbson

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/madkins23/go-serial/pointer"
)

// Point wraps a target item in a Pointer that can handle serialization.
func Point[P pointer.Target](item P) *Pointer[P] {
	p := new(Pointer[P])
	p.Set(item)
	return p
}

// Pointer serializes a reference to a target item as its group and key
// instead of embedding the item where it is used.
// Marshaling a pointer adds its target to the pointer target cache.
// During unmarshaling the target is acquired from the cache,
// falling back to any Finder registered for the group,
// so the same target object is shared by all pointers to it.
type Pointer[T pointer.Target] struct {
	item   T
	Packed struct {
		Group string `bson:"group"`
		Key   string `bson:"key"`
	}
}

// Get the target item.
func (p *Pointer[T]) Get() T {
	return p.item
}

// Set the target item.
func (p *Pointer[T]) Set(t T) {
	p.item = t
}

func (p *Pointer[T]) MarshalBSON() ([]byte, error) {
	if err := pointer.SetTarget(p.item, true); err != nil {
		return nil, fmt.Errorf("cache pointer target: %w", err)
	}
	p.Packed.Group = p.item.Group()
	p.Packed.Key = p.item.Key()

	marshaled, err := bson.Marshal(p.Packed)
	if err != nil {
		return []byte(""), fmt.Errorf("marshal packed form: %w", err)
	}
	if ClearPackedAfterMarshal {
		// Remove packed data to save memory.
		p.Packed.Group = ""
		p.Packed.Key = ""
	}
	return marshaled, nil
}

func (p *Pointer[T]) UnmarshalBSON(marshaled []byte) error {
	if err := bson.Unmarshal(marshaled, &p.Packed); err != nil {
		return fmt.Errorf("unmarshal packed area: %w", err)
	}

	if p.Packed.Group == "" {
		return fmt.Errorf("empty group field")
	} else if p.Packed.Key == "" {
		return fmt.Errorf("empty key field")
	}

	target, err := pointer.GetTarget(p.Packed.Group, p.Packed.Key, pointer.GetFinder(p.Packed.Group))
	if err != nil {
		return fmt.Errorf("get target %s/%s: %w", p.Packed.Group, p.Packed.Key, err)
	}

	var ok bool
	if p.item, ok = target.(T); !ok {
		return fmt.Errorf("target %s/%s not generic type", p.Packed.Group, p.Packed.Key)
	}

	if ClearPackedAfterUnmarshal {
		// Remove packed data to save memory.
		p.Packed.Group = ""
		p.Packed.Key = ""
	}
	return nil
}
