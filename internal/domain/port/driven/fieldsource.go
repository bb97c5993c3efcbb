package driven

// FieldSource is the injected accessor for the current values of a form's
// fields. ok is false when no element with the given id exists, which is
// distinct from an element holding the empty string.
type FieldSource interface {
	Lookup(id string) (value string, ok bool)
}

// MapFieldSource is a FieldSource backed by a plain map.
type MapFieldSource map[string]string

// Lookup implements FieldSource.
func (m MapFieldSource) Lookup(id string) (string, bool) {
	v, ok := m[id]
	return v, ok
}
