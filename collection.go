package uniq

import (
	"iter"
	"slices"

	logger "github.com/xraph/go-utils/log"
)

// Table is an ordered, append-only registration table that allows repeated
// keys. It is the capability the uniqueness helpers operate on; Collection
// is the default implementation.
type Table interface {
	// Append adds d at the end. No uniqueness check.
	Append(d Descriptor)

	// RemoveAll removes every entry for key, keeps the order of the rest and
	// returns how many entries were removed.
	RemoveAll(key Key) int

	// Scan yields the current entries in table order.
	Scan() iter.Seq[Descriptor]
}

// Collection is an ordered table of Descriptors.
//
// A Collection is not safe for concurrent use. It is meant to be filled
// during single-threaded bootstrap, applied to a container once and then
// left alone.
type Collection struct {
	entries []Descriptor
	logger  logger.Logger
	hooks   *hookChain
}

// New creates an empty collection.
func New(opts ...Option) *Collection {
	cfg := newConfig(opts)

	return &Collection{
		entries: make([]Descriptor, 0, cfg.capacity),
		logger:  cfg.logger,
		hooks:   cfg.hooks,
	}
}

// Append adds d at the end of the collection without any check.
func (c *Collection) Append(d Descriptor) {
	c.entries = append(c.entries, d)
}

// RemoveAll removes every entry for key and returns how many were removed.
func (c *Collection) RemoveAll(key Key) int {
	if c == nil {
		return 0
	}

	before := len(c.entries)
	c.entries = slices.DeleteFunc(c.entries, func(d Descriptor) bool {
		return d.Key == key
	})

	return before - len(c.entries)
}

// Scan yields the entries in order. Mutating the collection while ranging
// over the sequence is not supported.
func (c *Collection) Scan() iter.Seq[Descriptor] {
	return func(yield func(Descriptor) bool) {
		if c == nil {
			return
		}
		for _, d := range c.entries {
			if !yield(d) {
				return
			}
		}
	}
}

// Len returns the number of entries, duplicates included.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Entries returns a copy of the entries in order.
func (c *Collection) Entries() []Descriptor {
	if c == nil {
		return nil
	}
	return slices.Clone(c.entries)
}

// Count returns how many entries are registered for key.
func (c *Collection) Count(key Key) int {
	if c == nil {
		return 0
	}

	n := 0
	for _, d := range c.entries {
		if d.Key == key {
			n++
		}
	}
	return n
}

// Contains reports whether key has at least one entry.
func (c *Collection) Contains(key Key) bool {
	if c == nil {
		return false
	}
	return slices.ContainsFunc(c.entries, func(d Descriptor) bool {
		return d.Key == key
	})
}

// Keys returns the distinct keys in first-seen order.
func (c *Collection) Keys() []Key {
	return Keys(c)
}

// Upsert replaces every entry for d.Key with d. See the package Upsert.
func (c *Collection) Upsert(d Descriptor) error {
	removed, err := upsert(c, d)
	if err != nil {
		return err
	}

	if removed > 0 {
		c.log().Debug("replaced service registration",
			logger.String("service", string(d.Key)),
			logger.Int("removed", removed),
			logger.Stringer("descriptor", d),
		)
	}
	c.hooks.onReplace(d.Key, removed, d)

	return nil
}

// UpsertAll validates every descriptor and then upserts them in order.
// Nothing is changed if any descriptor is invalid.
func (c *Collection) UpsertAll(ds ...Descriptor) error {
	if err := validateAll(ds); err != nil {
		return err
	}

	for _, d := range ds {
		if err := c.Upsert(d); err != nil {
			return err
		}
	}
	return nil
}

// AddUnique registers key by implementation, replacing existing entries.
func (c *Collection) AddUnique(key, impl Key, lifetime Lifetime) error {
	return c.Upsert(Describe(key, impl, lifetime))
}

// AddUniqueSelf registers key as its own implementation, replacing existing entries.
func (c *Collection) AddUniqueSelf(key Key, lifetime Lifetime) error {
	return c.Upsert(DescribeSelf(key, lifetime))
}

// AddUniqueFactory registers key by factory, replacing existing entries.
func (c *Collection) AddUniqueFactory(key Key, factory Factory, lifetime Lifetime) error {
	return c.Upsert(DescribeFactory(key, factory, lifetime))
}

// AddUniqueInstance registers a singleton instance for key, replacing existing entries.
func (c *Collection) AddUniqueInstance(key Key, instance any) error {
	return c.Upsert(DescribeInstance(key, instance))
}

// FindDuplicates reports keys with more than one entry. See the package FindDuplicates.
func (c *Collection) FindDuplicates(filter KeyFilter) []DuplicateGroup {
	return FindDuplicates(c, filter)
}

// Reconcile collapses duplicates to their earliest entry. See the package Reconcile.
func (c *Collection) Reconcile(filter KeyFilter) []DuplicateGroup {
	groups := Reconcile(c, filter)

	for _, g := range groups {
		c.log().Warn("collapsed duplicate service registrations",
			logger.String("service", string(g.Key)),
			logger.Int("count", g.Count),
			logger.Stringer("kept", g.Descriptor),
		)
		c.hooks.onReconcile(g)
	}

	return groups
}

// ApplyTo hands the collection to r. See Apply.
func (c *Collection) ApplyTo(r Registrar, opts ...ApplyOption) error {
	if c == nil {
		return ErrNilTable
	}
	if isNil(r) {
		return ErrNilRegistrar
	}

	cfg := newApplyConfig(opts)
	if cfg.logger == nil {
		opts = append(opts, withApplyLogger(c.log()))
	}

	if cfg.reconcile {
		// Run the sweep through the collection so hooks and logs see it.
		c.Reconcile(cfg.filter)
		opts = append(opts, withoutReconcile())
	}

	return Apply(r, c, opts...)
}

// log returns the configured logger, or a no-op logger for a zero Collection.
func (c *Collection) log() logger.Logger {
	if c == nil || isNil(c.logger) {
		return logger.NewNoopLogger()
	}
	return c.logger
}
