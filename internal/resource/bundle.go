package resource

import "fmt"

// Bundle is a fixed amount of one kind. The amount never changes after
// construction. A Bundle is spent by the first operation that consumes it;
// copies share that fate, so spending any copy a second time panics.
type Bundle struct {
	kind   Kind
	amount uint32
	seal   *seal
}

type seal struct {
	spent bool
}

// MintBundle creates a bundle of amount of kind out of nothing. Only
// producers call it: resource extraction, hand mining, hand crafting and
// game setup.
func MintBundle(kind Kind, amount uint32) Bundle {
	return Bundle{kind: kind, amount: amount, seal: &seal{}}
}

// Kind returns the kind of the bundle.
func (b Bundle) Kind() Kind {
	return b.kind
}

// Amount returns the fixed amount of the bundle.
func (b Bundle) Amount() uint32 {
	return b.amount
}

// Valid reports whether b was minted and has not been spent.
func (b Bundle) Valid() bool {
	return b.seal != nil && !b.seal.spent
}

// Cost returns the kind and amount of b as a Cost.
func (b Bundle) Cost() Cost {
	return Cost{Kind: b.kind, Amount: b.amount}
}

// Split spends b and returns two bundles of first and second.
// first+second must equal the amount of b.
func (b Bundle) Split(first, second uint32) (Bundle, Bundle) {
	if uint64(first)+uint64(second) != uint64(b.amount) {
		panic(fmt.Sprintf("bundle split %d+%d does not equal %d", first, second, b.amount))
	}
	b.spend()
	return MintBundle(b.kind, first), MintBundle(b.kind, second)
}

// ToResource spends b and returns its content as a Resource.
func (b Bundle) ToResource() *Resource {
	b.spend()
	return &Resource{kind: b.kind, amount: b.amount}
}

// Join spends a and b and returns one bundle holding both amounts.
func Join(a, b Bundle) Bundle {
	mustMatch(a.kind, b.kind)
	sum := checkedAdd(a.amount, b.amount)
	a.spend()
	b.spend()
	return MintBundle(a.kind, sum)
}

func (b Bundle) String() string {
	return fmt.Sprintf("%s x %d", b.kind.Name(), b.amount)
}

func (b Bundle) spend() {
	switch {
	case b.seal == nil:
		panic("spending a zero bundle")
	case b.seal.spent:
		panic(fmt.Sprintf("bundle %s already spent", b))
	}
	b.seal.spent = true
}
