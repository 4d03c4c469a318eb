package resource

import (
	"fmt"
	"strings"
)

// Cost is an amount of one kind that has to be paid with a Bundle.
type Cost struct {
	Kind   Kind
	Amount uint32
}

func (c Cost) String() string {
	return fmt.Sprintf("%d %s", c.Amount, c.Kind.Name())
}

// PaymentError is returned when a set of bundles does not match a cost list.
// Nothing is spent when it is returned.
type PaymentError struct {
	Want []Cost
	Got  []Cost
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment mismatch: want [%s], got [%s]", joinCosts(e.Want), joinCosts(e.Got))
}

// Pay spends bundles as payment for costs. Bundles must match the costs one
// to one, in order, by kind and exact amount. Either every bundle is spent
// or none is.
func Pay(costs []Cost, bundles ...Bundle) error {
	if !Matches(costs, bundles...) {
		got := make([]Cost, len(bundles))
		for i, b := range bundles {
			got[i] = b.Cost()
		}
		return &PaymentError{Want: costs, Got: got}
	}
	for _, b := range bundles {
		if !b.Valid() {
			// Checked up front so a double spend cannot leave a partial payment.
			b.spend()
		}
	}
	for _, b := range bundles {
		b.spend()
	}
	return nil
}

// Matches reports whether bundles would pay costs exactly.
func Matches(costs []Cost, bundles ...Bundle) bool {
	if len(costs) != len(bundles) {
		return false
	}
	for i, c := range costs {
		if bundles[i].kind != c.Kind || bundles[i].amount != c.Amount {
			return false
		}
	}
	return true
}

func joinCosts(costs []Cost) string {
	parts := make([]string, len(costs))
	for i, c := range costs {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}
