package uniq

import (
	"fmt"
	"reflect"
)

// Kind tells which payload a Descriptor carries.
type Kind int

const (
	// KindImplementation registers the service by naming its implementation.
	KindImplementation Kind = iota + 1

	// KindFactory registers the service through a factory function.
	KindFactory

	// KindInstance registers a pre-built instance. Always a singleton.
	KindInstance
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindImplementation:
		return "implementation"
	case KindFactory:
		return "factory"
	case KindInstance:
		return "instance"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Descriptor is one registration record: a key and what provides it.
// Build descriptors with Describe, DescribeFactory, DescribeInstance or
// DescribeSelf rather than by hand.
type Descriptor struct {
	Key            Key
	Kind           Kind
	Implementation Key
	Factory        Factory
	Instance       any
	Lifetime       Lifetime
}

// Describe creates a descriptor that provides key through the implementation
// registered as impl.
func Describe(key, impl Key, lifetime Lifetime) Descriptor {
	return Descriptor{
		Key:            key,
		Kind:           KindImplementation,
		Implementation: impl,
		Lifetime:       lifetime.orDefault(),
	}
}

// DescribeSelf creates a descriptor whose implementation is the key itself.
func DescribeSelf(key Key, lifetime Lifetime) Descriptor {
	return Describe(key, key, lifetime)
}

// DescribeFactory creates a descriptor that provides key through factory.
func DescribeFactory(key Key, factory Factory, lifetime Lifetime) Descriptor {
	return Descriptor{
		Key:      key,
		Kind:     KindFactory,
		Factory:  factory,
		Lifetime: lifetime.orDefault(),
	}
}

// DescribeInstance creates a singleton descriptor for a pre-built instance.
func DescribeInstance(key Key, instance any) Descriptor {
	return Descriptor{
		Key:      key,
		Kind:     KindInstance,
		Instance: instance,
		Lifetime: Singleton,
	}
}

// String returns a short human-readable form, e.g. "db -> postgres (singleton)".
func (d Descriptor) String() string {
	switch d.Kind {
	case KindImplementation:
		return fmt.Sprintf("%s -> %s (%s)", d.Key, d.Implementation, d.Lifetime)
	case KindFactory:
		return fmt.Sprintf("%s -> factory (%s)", d.Key, d.Lifetime)
	case KindInstance:
		return fmt.Sprintf("%s -> instance %T (%s)", d.Key, d.Instance, d.Lifetime)
	default:
		return fmt.Sprintf("%s -> %s", d.Key, d.Kind)
	}
}

// Validate checks that the descriptor carries everything its kind needs.
// It returns an INVALID_ARGUMENT error otherwise.
func (d Descriptor) Validate() error {
	if d.Key.IsZero() {
		return ErrEmptyKey()
	}

	switch d.Kind {
	case KindImplementation:
		if d.Implementation.IsZero() {
			return ErrEmptyImplementation(d.Key)
		}
	case KindFactory:
		if d.Factory == nil {
			return ErrNilFactory(d.Key)
		}
	case KindInstance:
		if isNil(d.Instance) {
			return ErrNilInstance(d.Key)
		}
		if d.Lifetime != Singleton {
			return ErrInvalidLifetime(d.Key, d.Lifetime)
		}
	default:
		return ErrInvalidKind(d.Key, d.Kind)
	}

	if !d.Lifetime.Valid() {
		return ErrInvalidLifetime(d.Key, d.Lifetime)
	}

	return nil
}

// isNil reports whether v is nil or a typed nil pointer, map, slice, chan,
// func or interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
