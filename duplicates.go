package uniq

// DuplicateGroup describes a key registered more than once.
// Descriptor is the first entry for the key in table order.
type DuplicateGroup struct {
	Key        Key
	Count      int
	Descriptor Descriptor
}

// KeyFilter selects the keys a sweep looks at. A nil filter selects all keys.
type KeyFilter func(Key) bool

// AllKeys selects every key.
func AllKeys(Key) bool {
	return true
}

// OnlyKeys selects the given keys.
func OnlyKeys(keys ...Key) KeyFilter {
	set := make(map[Key]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}

	return func(k Key) bool {
		_, ok := set[k]
		return ok
	}
}

func (f KeyFilter) match(k Key) bool {
	return f == nil || f(k)
}

// FindDuplicates groups the entries of t by key and returns every group with
// more than one entry whose key matches filter.
//
// Groups are returned in the order their keys were first seen. Each group's
// representative is the earliest entry for that key, not the latest.
// The result is fully built before returning, so it stays valid while the
// caller mutates the table. A nil table has no duplicates.
func FindDuplicates(t Table, filter KeyFilter) []DuplicateGroup {
	if isNil(t) {
		return nil
	}

	index := make(map[Key]int)
	var groups []DuplicateGroup

	for d := range t.Scan() {
		if i, ok := index[d.Key]; ok {
			groups[i].Count++
			continue
		}
		index[d.Key] = len(groups)
		groups = append(groups, DuplicateGroup{Key: d.Key, Count: 1, Descriptor: d})
	}

	var duplicates []DuplicateGroup
	for _, g := range groups {
		if g.Count > 1 && filter.match(g.Key) {
			duplicates = append(duplicates, g)
		}
	}

	return duplicates
}

// Reconcile collapses every duplicated key matching filter down to its
// earliest entry, which is moved to the end of the table. It returns the
// groups it collapsed.
//
// Reconcile keeps the earliest registration while Upsert keeps the latest.
// Running Reconcile again on its result changes nothing.
func Reconcile(t Table, filter KeyFilter) []DuplicateGroup {
	duplicates := FindDuplicates(t, filter)
	if len(duplicates) == 0 {
		return nil
	}

	for _, g := range duplicates {
		t.RemoveAll(g.Key)
		t.Append(g.Descriptor)
	}

	return duplicates
}
