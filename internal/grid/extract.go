package grid

import "strings"

// ListSuffix marks a declared attribute as a grid list. It is stripped from
// the attribute name used in choices.
const ListSuffix = "_grid"

// Declarer is implemented by solutions that declare their own grid lists.
type Declarer interface {
	GridAttributes() []Attribute
}

// Extract builds a space from the attributes d declares. Names starting with
// an underscore are internal and skipped; ListSuffix is stripped. A declarer
// with no attributes yields an empty, single-combination space.
func Extract(d Declarer) (*Space, error) {
	declared := d.GridAttributes()
	attrs := make([]Attribute, 0, len(declared))
	for _, a := range declared {
		if strings.HasPrefix(a.Name, "_") {
			continue
		}
		attrs = append(attrs, Attribute{
			Name:   strings.TrimSuffix(a.Name, ListSuffix),
			Values: a.Values,
		})
	}
	return NewSpace(attrs...)
}
