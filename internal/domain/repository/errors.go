package repository

import "errors"

// Sentinel errors shared by all repository implementations so the
// application layer can match on state rather than driver details.
var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateUser = errors.New("user name already taken")
	ErrDuplicateEdge = errors.New("relationship edge already exists")
	ErrEdgeNotFound  = errors.New("no such pending request")
)
