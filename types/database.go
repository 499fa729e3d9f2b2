package types

// HashDatabase maps fingerprints to reference image names.
//
// Every insertion is retained in order so Len reports how many images were
// indexed even when fingerprints collide. Colliding fingerprints keep the
// position of their first insertion and the name of their last.
type HashDatabase struct {
	entries []Entry
	byKey   map[string]int
	keys    []string // distinct fingerprints in first-insertion order
}

// NewHashDatabase returns an empty database
func NewHashDatabase() *HashDatabase {
	return &HashDatabase{byKey: make(map[string]int)}
}

// Add records an insertion
func (d *HashDatabase) Add(fp Fingerprint, name string) {
	if d.byKey == nil {
		d.byKey = make(map[string]int)
	}
	key := fp.String()
	if _, seen := d.byKey[key]; !seen {
		d.keys = append(d.keys, key)
	}
	d.entries = append(d.entries, Entry{Fingerprint: fp, Name: name})
	d.byKey[key] = len(d.entries) - 1
}

// Range calls fn for each distinct fingerprint in first-insertion order with
// the name last stored under it, until fn returns false
func (d *HashDatabase) Range(fn func(Entry) bool) {
	if d == nil {
		return
	}
	for _, key := range d.keys {
		if !fn(d.entries[d.byKey[key]]) {
			return
		}
	}
}

// Len returns the number of insertions
func (d *HashDatabase) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// DistinctKeys returns the number of unique fingerprints
func (d *HashDatabase) DistinctKeys() int {
	if d == nil {
		return 0
	}
	return len(d.byKey)
}

// Lookup returns the name last stored under fp
func (d *HashDatabase) Lookup(fp Fingerprint) (string, bool) {
	if d == nil {
		return "", false
	}
	idx, ok := d.byKey[fp.String()]
	if !ok {
		return "", false
	}
	return d.entries[idx].Name, true
}

// Entries returns every insertion in order, including ones a later write
// replaced. The slice must not be modified.
func (d *HashDatabase) Entries() []Entry {
	if d == nil {
		return nil
	}
	return d.entries
}
