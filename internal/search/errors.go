package search

import "errors"

var (
	// ErrUnknownParameter indicates a grid attribute the solution cannot accept.
	ErrUnknownParameter = errors.New("search: unknown parameter")

	// ErrMissingDependency indicates an engine built without a required collaborator.
	ErrMissingDependency = errors.New("search: missing dependency")
)
