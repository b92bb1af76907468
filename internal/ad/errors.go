package ad

import (
	"errors"
	"fmt"
)

// ErrDomain is the sentinel matched by every DomainError via errors.Is.
var ErrDomain = errors.New("argument outside operation domain")

// DomainError reports a math operation evaluated outside its domain,
// e.g. Log of a non-positive value.
type DomainError struct {
	Op  string  // Operation name (e.g. "Log", "Sqrt")
	Arg float64 // Offending argument value
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	return fmt.Sprintf("ad: %s(%g): %v", e.Op, e.Arg, ErrDomain)
}

// Is reports whether target is ErrDomain.
func (e *DomainError) Is(target error) bool {
	return target == ErrDomain
}
