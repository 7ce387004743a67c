package grid

import (
	"fmt"
	"strings"
)

type Assignment struct {
	Name  string
	Value any
}

// Choice assigns one value to every attribute of a space, in space order.
type Choice []Assignment

func (c Choice) Get(name string) (any, bool) {
	for _, a := range c {
		if a.Name == name {
			return a.Value, true
		}
	}
	return nil, false
}

func (c Choice) Float64(name string) (float64, error) {
	v, ok := c.Get(name)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownAttribute, name)
	}
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	}
	return 0, fmt.Errorf("%w: %s is %T, want number", ErrTypeMismatch, name, v)
}

func (c Choice) Int(name string) (int, error) {
	v, ok := c.Get(name)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownAttribute, name)
	}
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case float64:
		if x == float64(int(x)) {
			return int(x), nil
		}
	}
	return 0, fmt.Errorf("%w: %s is %v (%T), want integer", ErrTypeMismatch, name, v, v)
}

func (c Choice) String(name string) (string, error) {
	v, ok := c.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownAttribute, name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is %T, want string", ErrTypeMismatch, name, v)
	}
	return s, nil
}

func (c Choice) Map() map[string]any {
	m := make(map[string]any, len(c))
	for _, a := range c {
		m[a.Name] = a.Value
	}
	return m
}

// Key is the canonical identity of a choice.
type Key string

// Encode renders c as "name-value" pairs joined by FieldSeparator, in the
// order the choice carries them.
func Encode(c Choice) Key {
	var b strings.Builder
	for i, a := range c {
		if i > 0 {
			b.WriteRune(FieldSeparator)
		}
		b.WriteString(a.Name)
		b.WriteRune(ValueSeparator)
		writeEscaped(&b, formatValue(a.Value))
	}
	return Key(b.String())
}

func writeEscaped(b *strings.Builder, s string) {
	for _, r := range s {
		if r == FieldSeparator || r == escapeChar {
			b.WriteRune(escapeChar)
		}
		b.WriteRune(r)
	}
}

func formatValue(v any) string { return fmt.Sprint(v) }
