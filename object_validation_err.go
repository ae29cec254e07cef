package ocfl

import "fmt"

// ObjectValidationErr is a validation error keyed to a specific rule in the
// OCFL specification. The generated variables in errors_gen.go (ErrE001,
// ErrE002, ...) are the complete set of object-validation codes.
type ObjectValidationErr struct {
	Description string
	Code        string
	URI         string
}

func (e ObjectValidationErr) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Description)
}
