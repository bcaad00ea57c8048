package uniq

// EntryQuery defines criteria for querying table entries.
type EntryQuery struct {
	// Key filters by service key.
	// Empty key matches all keys.
	Key Key

	// Kind filters by descriptor kind.
	// Zero matches all kinds.
	Kind Kind

	// Lifetime filters by lifetime.
	// Empty string matches all lifetimes.
	Lifetime Lifetime
}

// Query returns the entries matching the query criteria in table order.
//
// Example:
//
//	// Find all scoped factory registrations
//	results := uniq.Query(col, uniq.EntryQuery{
//	    Kind:     uniq.KindFactory,
//	    Lifetime: uniq.Scoped,
//	})
func Query(t Table, query EntryQuery) []Descriptor {
	if isNil(t) {
		return nil
	}

	var results []Descriptor
	for d := range t.Scan() {
		if query.Key != "" && d.Key != query.Key {
			continue
		}
		if query.Kind != 0 && d.Kind != query.Kind {
			continue
		}
		if query.Lifetime != "" && d.Lifetime != query.Lifetime {
			continue
		}
		results = append(results, d)
	}

	return results
}

// FindByLifetime returns all entries with a specific lifetime.
func FindByLifetime(t Table, lifetime Lifetime) []Descriptor {
	return Query(t, EntryQuery{Lifetime: lifetime})
}

// FindByKind returns all entries of a specific kind.
func FindByKind(t Table, kind Kind) []Descriptor {
	return Query(t, EntryQuery{Kind: kind})
}

// Lookup returns the last entry registered for key, the one a
// last-registration-wins container would resolve.
func Lookup(t Table, key Key) (Descriptor, bool) {
	if key.IsZero() {
		return Descriptor{}, false
	}

	var (
		found Descriptor
		ok    bool
	)
	for _, d := range Query(t, EntryQuery{Key: key}) {
		found, ok = d, true
	}
	return found, ok
}

// Keys returns the distinct keys of t in first-seen order.
func Keys(t Table) []Key {
	if isNil(t) {
		return nil
	}

	seen := make(map[Key]struct{})
	var keys []Key
	for d := range t.Scan() {
		if _, ok := seen[d.Key]; ok {
			continue
		}
		seen[d.Key] = struct{}{}
		keys = append(keys, d.Key)
	}
	return keys
}
