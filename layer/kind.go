// Package layer defines the layer interface and the layer kinds of a network
package layer

// Kind tags the supported layer kinds
type Kind byte

const (
	// KindLinear is a fully connected layer, see package full
	KindLinear Kind = iota

	// KindReLU is a rectifier, see package relu
	KindReLU
)

// Trainable reports whether layers of kind k carry weights the hebbian rule can update
func (k Kind) Trainable() bool {
	return k == KindLinear
}

func (k Kind) String() string {
	switch k {
	case KindLinear:
		return "linear"
	case KindReLU:
		return "relu"
	}
	return "unknown"
}

// ParseKind is the inverse of Kind.String
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "linear":
		return KindLinear, true
	case "relu":
		return KindReLU, true
	}
	return 0, false
}
