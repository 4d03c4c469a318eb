package resource

import (
	"fmt"
	"math"
)

// InsufficientError is returned when a checked extraction asks for more
// than a container holds.
type InsufficientError struct {
	Kind      Kind
	Requested uint32
	Available uint32
}

func (e *InsufficientError) Error() string {
	return fmt.Sprintf("insufficient %s: requested %d, but only %d available",
		e.Kind.Name(), e.Requested, e.Available)
}

// Resource holds an arbitrary amount of one kind.
type Resource struct {
	kind   Kind
	amount uint32
}

// Empty creates an empty container for kind.
func Empty(kind Kind) *Resource {
	return &Resource{kind: kind}
}

// Mint creates amount of kind out of nothing. Only producers call it:
// machines completing cycles, territories mining ore and game setup.
func Mint(kind Kind, amount uint32) *Resource {
	return &Resource{kind: kind, amount: amount}
}

// Kind returns the kind held by the container.
func (r *Resource) Kind() Kind {
	return r.kind
}

// Amount returns the amount currently held.
func (r *Resource) Amount() uint32 {
	return r.amount
}

// Add moves the whole content of other into r, leaving other empty.
// Adding a different kind panics.
func (r *Resource) Add(other *Resource) {
	if r == other {
		return
	}
	mustMatch(r.kind, other.kind)
	r.amount = checkedAdd(r.amount, other.amount)
	other.amount = 0
}

// AddBundle spends b and adds its amount to r.
func (r *Resource) AddBundle(b Bundle) {
	mustMatch(r.kind, b.kind)
	b.spend()
	r.amount = checkedAdd(r.amount, b.amount)
}

// SplitOff removes amount from r and returns it as a new container.
// On failure r is unchanged.
func (r *Resource) SplitOff(amount uint32) (*Resource, error) {
	if amount > r.amount {
		return nil, &InsufficientError{Kind: r.kind, Requested: amount, Available: r.amount}
	}
	r.amount -= amount
	return &Resource{kind: r.kind, amount: amount}, nil
}

// SplitOffMax removes up to amount from r and returns what was taken.
func (r *Resource) SplitOffMax(amount uint32) *Resource {
	taken := min(amount, r.amount)
	r.amount -= taken
	return &Resource{kind: r.kind, amount: taken}
}

// Split divides the content of r into a remainder and a part of exactly
// amount. r is left empty on success and unchanged on failure.
func (r *Resource) Split(amount uint32) (remainder, taken *Resource, err error) {
	taken, err = r.SplitOff(amount)
	if err != nil {
		return nil, nil, err
	}
	return r.Drain(), taken, nil
}

// Drain removes everything from r and returns it as a new container.
func (r *Resource) Drain() *Resource {
	out := &Resource{kind: r.kind, amount: r.amount}
	r.amount = 0
	return out
}

// Bundle takes exactly amount out of r as a Bundle.
func (r *Resource) Bundle(amount uint32) (Bundle, error) {
	if amount > r.amount {
		return Bundle{}, &InsufficientError{Kind: r.kind, Requested: amount, Available: r.amount}
	}
	r.amount -= amount
	return MintBundle(r.kind, amount), nil
}

func (r *Resource) String() string {
	return fmt.Sprintf("%s x %d", r.kind.Name(), r.amount)
}

func mustMatch(want, got Kind) {
	if want != got {
		panic(fmt.Sprintf("resource kind mismatch: cannot combine %s with %s", got.Name(), want.Name()))
	}
}

func checkedAdd(a, b uint32) uint32 {
	sum := uint64(a) + uint64(b)
	if sum > math.MaxUint32 {
		panic(fmt.Sprintf("resource overflow: %d + %d", a, b))
	}
	return uint32(sum)
}

// CheckedMul multiplies two amounts, panicking when the product does not fit.
func CheckedMul(a uint64, b uint32) uint32 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxUint32/uint64(b) {
		panic(fmt.Sprintf("resource overflow: %d * %d", a, b))
	}
	return uint32(a * uint64(b))
}
