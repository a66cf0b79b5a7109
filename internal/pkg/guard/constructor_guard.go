// Package guard provides the constructor guard pattern used by domain objects
// to detect zero-value instances that bypassed their designated constructors.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error
// is supplied. Validation always fails with a meaningful message.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard ensures that entities and value objects are only created
// through their designated constructor functions. Embedding a guard in a struct
// makes a zero-value instance detectable: only constructors set the internal flag.
//
// Example usage:
//
//	type Agent struct {
//	    id    kernel.UUID
//	    guard guard.ConstructorGuard
//	}
//
//	func NewAgent(id kernel.UUID) *Agent {
//	    return &Agent{id: id, guard: guard.NewConstructorGuard()}
//	}
//
//	func (a *Agent) Validate() error {
//	    return a.guard.Validate(ErrAgentIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard marking the owning object as properly constructed.
// Call this in every domain constructor.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil when the owning object was created through its constructor.
// Otherwise it returns validationError, or ErrDefaultConstructorGuard when
// validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
