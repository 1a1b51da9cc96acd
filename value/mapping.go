package value

// Mapping is an insertion-ordered string-to-Value map. The zero Mapping is
// not usable; construct one with [NewMappingData].
type Mapping struct {
	keys   []string
	values map[string]Value
}

// NewMappingData returns an empty, ready-to-use Mapping.
func NewMappingData() *Mapping {
	return &Mapping{values: make(map[string]Value)}
}

// MappingOf builds a Mapping from key/value pairs in the given order.
// Duplicate keys keep their first position but take the last value, which
// mirrors how a YAML decoder would merge a document's duplicate keys.
func MappingOf(pairs ...KV) *Mapping {
	m := NewMappingData()
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}

	return m
}

// KV is a single key/value pair, used by [MappingOf].
type KV struct {
	Key   string
	Value Value
}

// Get returns the value stored under key and whether it was present.
func (m *Mapping) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}

	v, ok := m.values[key]

	return v, ok
}

// GetOr returns the value stored under key, or def if absent.
func (m *Mapping) GetOr(key string, def Value) Value {
	if v, ok := m.Get(key); ok {
		return v
	}

	return def
}

// Set stores value under key, appending key to the iteration order if new.
func (m *Mapping) Set(key string, v Value) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}

	m.values[key] = v
}

// Delete removes key, preserving the relative order of the rest.
func (m *Mapping) Delete(key string) {
	if _, exists := m.values[key]; !exists {
		return
	}

	delete(m.values, key)

	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)

			break
		}
	}
}

// Has reports whether key is present.
func (m *Mapping) Has(key string) bool {
	if m == nil {
		return false
	}

	_, ok := m.values[key]

	return ok
}

// Keys returns the mapping's keys in insertion order. The returned slice
// must not be mutated by the caller.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}

	return m.keys
}

// Len returns the number of entries in m.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}

	return len(m.keys)
}

// Range calls fn for each entry in insertion order, stopping early if fn
// returns false.
func (m *Mapping) Range(fn func(key string, v Value) bool) {
	if m == nil {
		return
	}

	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// DeepCopy returns a deep copy of m with its own backing storage.
func (m *Mapping) DeepCopy() *Mapping {
	if m == nil {
		return nil
	}

	out := NewMappingData()
	for _, k := range m.keys {
		out.Set(k, m.values[k].DeepCopy())
	}

	return out
}

// Clone returns a shallow copy of m: same Values, independent key/value
// storage, so mutating the clone never affects m.
func (m *Mapping) Clone() *Mapping {
	if m == nil {
		return NewMappingData()
	}

	out := NewMappingData()
	for _, k := range m.keys {
		out.Set(k, m.values[k])
	}

	return out
}
