package units

import (
	"fmt"
	"strings"
)

// InvalidUnit is one offending (unit, category) pair collected during
// unit system construction.
type InvalidUnit struct {
	Unit     Unit
	Category Category
}

func (u InvalidUnit) String() string {
	return fmt.Sprintf("unit '%s' is not a recognized %s unit", u.Unit, u.Category)
}

// InvalidUnitsError reports every invalid unit found while constructing a
// unit system. Construction collects all failures before reporting rather
// than stopping at the first, so a caller fixing a bad config sees the
// whole problem at once.
type InvalidUnitsError struct {
	Units []InvalidUnit
}

func (e *InvalidUnitsError) Error() string {
	parts := make([]string, len(e.Units))
	for i, u := range e.Units {
		parts[i] = u.String()
	}
	return strings.Join(parts, ", ")
}

// TypeMismatchError reports a non-numeric value passed to a conversion
// method. The underlying converter is never called in this case.
type TypeMismatchError struct {
	Value any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%v is not a numeric value", e.Value)
}

// InvalidKeyError reports an unrecognized unit system lookup key.
type InvalidKeyError struct {
	Key string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("`%s` is not a valid unit system key", e.Key)
}
