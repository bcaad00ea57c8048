package uniq

import "github.com/xraph/go-utils/di"

// Lifetime is the instance-sharing policy of a registration.
// The core never interprets it; it is forwarded to the container on Apply.
type Lifetime string

const (
	// Singleton shares one instance for the container's lifetime (default).
	Singleton Lifetime = "singleton"

	// Scoped shares one instance per scope.
	Scoped Lifetime = "scoped"

	// Transient creates an instance on each resolve.
	Transient Lifetime = "transient"
)

// DefaultLifetime is used when a descriptor is built with an empty lifetime.
const DefaultLifetime = Singleton

// Valid reports whether l is one of the known lifetimes.
func (l Lifetime) Valid() bool {
	switch l {
	case Singleton, Scoped, Transient:
		return true
	default:
		return false
	}
}

// String returns the lifetime name.
func (l Lifetime) String() string {
	return string(l)
}

// option converts the lifetime into the container's registration option.
func (l Lifetime) option() RegisterOption {
	switch l {
	case Scoped:
		return di.Scoped()
	case Transient:
		return di.Transient()
	default:
		return di.Singleton()
	}
}

// orDefault returns DefaultLifetime for the empty lifetime.
func (l Lifetime) orDefault() Lifetime {
	if l == "" {
		return DefaultLifetime
	}
	return l
}
