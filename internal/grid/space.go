package grid

import (
	"fmt"
	"math"
	"strings"
)

const (
	// FieldSeparator joins name/value pairs inside a key.
	FieldSeparator = ' '
	// ValueSeparator sits between an attribute name and its value.
	ValueSeparator = '-'

	escapeChar = '\\'
)

// Attribute is a named list of candidate values.
type Attribute struct {
	Name   string
	Values []any
}

type Space struct {
	attrs []Attribute
	index map[string]int
	size  int
}

// NewSpace validates attrs and returns them as a space in the given order.
// An empty attribute list is valid and yields a single-combination space.
func NewSpace(attrs ...Attribute) (*Space, error) {
	s := &Space{
		attrs: make([]Attribute, 0, len(attrs)),
		index: make(map[string]int, len(attrs)),
		size:  1,
	}

	for _, a := range attrs {
		if err := validateName(a.Name); err != nil {
			return nil, err
		}
		if _, dup := s.index[a.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAttribute, a.Name)
		}
		if len(a.Values) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptyAttribute, a.Name)
		}

		seen := make(map[string]struct{}, len(a.Values))
		for _, v := range a.Values {
			str := formatValue(v)
			if _, dup := seen[str]; dup {
				return nil, fmt.Errorf("%w: %s=%s", ErrDuplicateValue, a.Name, str)
			}
			seen[str] = struct{}{}
		}

		if s.size > math.MaxInt/len(a.Values) {
			return nil, ErrSpaceTooLarge
		}
		s.size *= len(a.Values)

		values := make([]any, len(a.Values))
		copy(values, a.Values)
		s.index[a.Name] = len(s.attrs)
		s.attrs = append(s.attrs, Attribute{Name: a.Name, Values: values})
	}

	return s, nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if strings.ContainsRune(name, FieldSeparator) ||
		strings.ContainsRune(name, ValueSeparator) ||
		strings.ContainsRune(name, escapeChar) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Size returns the number of distinct combinations in the space.
func (s *Space) Size() int { return s.size }

// Len returns the number of attributes.
func (s *Space) Len() int { return len(s.attrs) }

// Attribute returns the i-th attribute. The value slice must not be modified.
func (s *Space) Attribute(i int) Attribute { return s.attrs[i] }

func (s *Space) Names() []string {
	names := make([]string, len(s.attrs))
	for i, a := range s.attrs {
		names[i] = a.Name
	}
	return names
}

func (s *Space) Lookup(name string) (Attribute, bool) {
	i, ok := s.index[name]
	if !ok {
		return Attribute{}, false
	}
	return s.attrs[i], true
}

// Decode maps a linear index in [0, Size()) to a choice by mixed-radix
// division. The first attribute is the least significant digit.
func (s *Space) Decode(index int) Choice {
	c := make(Choice, len(s.attrs))
	for i, a := range s.attrs {
		n := len(a.Values)
		c[i] = Assignment{Name: a.Name, Value: a.Values[index%n]}
		index /= n
	}
	return c
}
