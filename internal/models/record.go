package models

// Properties is the raw wire property map of one sample object. Nested sample
// lists (correlation members, workout events, heartbeat points) appear as
// []any values holding further Properties maps.
type Properties = map[string]any

// Record is one reassembled sample: its type name plus raw wire properties,
// before typed construction.
type Record struct {
	TypeName string
	Props    Properties
}

// Document is a full dataset keyed by type name, the shape the generation
// engine produces and the streaming writer consumes.
type Document map[string][]Properties

// Add appends one sample's properties under the given type name.
func (d Document) Add(typeName string, p Properties) {
	d[typeName] = append(d[typeName], p)
}

// Count returns the total number of samples across all types.
func (d Document) Count() int {
	n := 0
	for _, samples := range d {
		n += len(samples)
	}
	return n
}

// TypeNames returns the type names present in the document.
func (d Document) TypeNames() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	return names
}
