package delivery

import "math/rand"

// Partner names and dark store locations are cosmetic: they decorate order
// confirmations and delivery info but carry no correctness weight.
var (
	Partners = []string{"Raju", "Amit", "Priya", "Vikram", "Sneha", "Rohan", "Divya", "Karan"}
	Stores   = []string{"Hitech City", "Banjara Hills", "Madhapur", "Jubilee Hills", "Gachibowli", "Kondapur"}
)

// ETA is the fixed promise quoted to callers.
const ETA = "10-15 minutes"

// Picker chooses a delivery partner and dark store. Injectable so tests can
// pin the selection.
type Picker func() (partner, store string)

// RandomPicker picks uniformly using the provided intn (rand.Intn-compatible).
func RandomPicker(intn func(n int) int) Picker {
	if intn == nil {
		intn = rand.Intn
	}
	return func() (string, string) {
		return Partners[intn(len(Partners))], Stores[intn(len(Stores))]
	}
}

// FixedPicker always returns the given pair; used in tests.
func FixedPicker(partner, store string) Picker {
	return func() (string, string) {
		return partner, store
	}
}
