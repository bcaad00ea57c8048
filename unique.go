package uniq

// Upsert makes d the only entry for d.Key: every existing entry for the key
// is removed and d is appended at the end of the table.
//
// The latest registration wins, and wins alone, no matter how many
// duplicates existed before. Reconcile keeps the earliest entry instead;
// use Upsert when "most recently configured wins" is what you need.
//
// Upsert returns an INVALID_ARGUMENT error, and leaves the table untouched,
// if t is nil or d is incomplete (see Descriptor.Validate).
func Upsert(t Table, d Descriptor) error {
	_, err := upsert(t, d)
	return err
}

// AddUnique registers key by implementation, replacing existing entries.
//
// Example:
//
//	uniq.AddUnique(col, "cache", "cache.redis", uniq.Scoped)
func AddUnique(t Table, key, impl Key, lifetime Lifetime) error {
	return Upsert(t, Describe(key, impl, lifetime))
}

// AddUniqueSelf registers key as its own implementation, replacing existing entries.
func AddUniqueSelf(t Table, key Key, lifetime Lifetime) error {
	return Upsert(t, DescribeSelf(key, lifetime))
}

// AddUniqueFactory registers key by factory, replacing existing entries.
//
// Example:
//
//	uniq.AddUniqueFactory(col, "db", func(c uniq.Container) (any, error) {
//	    return sql.Open("postgres", dsn)
//	}, uniq.Singleton)
func AddUniqueFactory(t Table, key Key, factory Factory, lifetime Lifetime) error {
	return Upsert(t, DescribeFactory(key, factory, lifetime))
}

// AddUniqueInstance registers a singleton instance for key, replacing existing entries.
func AddUniqueInstance(t Table, key Key, instance any) error {
	return Upsert(t, DescribeInstance(key, instance))
}

// UpsertAll upserts several descriptors in a single call.
// Every descriptor is validated first; if any is invalid the table is not
// changed at all.
//
// Example:
//
//	err := uniq.UpsertAll(col,
//	    uniq.DescribeFactory("db", NewDatabase, uniq.Singleton),
//	    uniq.Describe("cache", "cache.redis", uniq.Scoped),
//	    uniq.DescribeInstance("config", cfg),
//	)
func UpsertAll(t Table, ds ...Descriptor) error {
	if err := checkTable(t); err != nil {
		return err
	}
	if err := validateAll(ds); err != nil {
		return err
	}

	for _, d := range ds {
		if _, err := upsert(t, d); err != nil {
			return err
		}
	}
	return nil
}

// upsert validates d, removes every entry for d.Key and appends d.
// It returns the number of entries removed.
func upsert(t Table, d Descriptor) (int, error) {
	if err := checkTable(t); err != nil {
		return 0, err
	}
	if err := d.Validate(); err != nil {
		return 0, err
	}

	removed := t.RemoveAll(d.Key)
	t.Append(d)

	return removed, nil
}

func validateAll(ds []Descriptor) error {
	for _, d := range ds {
		if err := d.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func checkTable(t Table) error {
	if isNil(t) {
		return ErrNilTable
	}
	return nil
}
