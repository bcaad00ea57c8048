package uniq

// Key identifies a registrable service contract.
// The empty key is never a valid registration target.
type Key string

// String returns the key as a plain string.
func (k Key) String() string {
	return string(k)
}

// IsZero reports whether k is the empty key.
func (k Key) IsZero() bool {
	return k == ""
}

// ServiceKey provides type-safe service identification.
// Use NewServiceKey to create typed keys for your services.
type ServiceKey[T any] struct {
	name string
}

// NewServiceKey creates a new typed service key.
// The type parameter T ties the key to the type its factory produces.
//
// Example:
//
//	var DatabaseKey = NewServiceKey[*Database]("database")
func NewServiceKey[T any](name string) ServiceKey[T] {
	return ServiceKey[T]{name: name}
}

// Name returns the string name of the service key.
func (k ServiceKey[T]) Name() string {
	return k.name
}

// Key returns the untyped key used inside the table.
func (k ServiceKey[T]) Key() Key {
	return Key(k.name)
}

// AddUniqueWithKey registers a typed factory under a typed service key,
// replacing every existing entry for that key.
//
// Example:
//
//	var DatabaseKey = NewServiceKey[*Database]("database")
//	err := AddUniqueWithKey(col, DatabaseKey, func(c di.Container) (*Database, error) {
//	    return &Database{}, nil
//	}, Singleton)
func AddUniqueWithKey[T any](t Table, key ServiceKey[T], factory func(Container) (T, error), lifetime Lifetime) error {
	if err := checkTable(t); err != nil {
		return err
	}

	if factory == nil {
		return ErrNilFactory(key.Key())
	}

	// Wrap the typed factory in an untyped factory
	wrapped := func(c Container) (any, error) {
		return factory(c)
	}

	return Upsert(t, DescribeFactory(key.Key(), wrapped, lifetime))
}

// AddUniqueInstanceWithKey registers a pre-built instance under a typed
// service key, replacing every existing entry for that key.
func AddUniqueInstanceWithKey[T any](t Table, key ServiceKey[T], instance T) error {
	return Upsert(t, DescribeInstance(key.Key(), instance))
}
