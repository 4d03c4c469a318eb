// Package resource holds quantities of resource kinds.
//
// A Resource is a mutable container of any amount of one Kind. A Bundle is a
// fixed amount of one Kind that can be spent exactly once, which makes holding
// a Bundle proof that the amount exists.
package resource

import (
	"github.com/google/uuid"
)

// kindNamespace seeds deterministic kind identifiers derived from names.
var kindNamespace = uuid.MustParse("6f0f3f5e-4b8a-4d51-9c55-2f1c3d6b7a10")

// Kind identifies a resource kind. Kinds with different identifiers never
// merge or substitute for each other.
type Kind struct {
	id   uuid.UUID
	name string
}

// NewKind returns the kind for name. The same name always yields the same kind.
func NewKind(name string) Kind {
	return Kind{
		id:   uuid.NewSHA1(kindNamespace, []byte(name)),
		name: name,
	}
}

// UniqueKind returns a kind that is distinct from every other kind,
// including other unique kinds created with the same name.
func UniqueKind(name string) Kind {
	return Kind{
		id:   uuid.New(),
		name: name,
	}
}

// Name returns the display name of the kind.
func (k Kind) Name() string {
	return k.name
}

// IsZero reports whether k is the zero Kind.
func (k Kind) IsZero() bool {
	return k.id == uuid.Nil
}

func (k Kind) String() string {
	return k.name
}
