package application

import "errors"

// Sentinel errors matched with errors.Is at the HTTP boundary. Anything not
// listed here is treated as an internal failure: logged server-side and
// surfaced to the client as a generic 500.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserNameTaken      = errors.New("user name already taken")
	ErrRelationshipExists = errors.New("relationship already pending or established")
	ErrNoPendingRequest   = errors.New("no pending friend request")
)
