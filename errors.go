package ocfl

import (
	"errors"
	"fmt"
)

// Error kinds returned by repository and object operations. Each wraps an
// underlying cause (where one exists) so errors.Is/errors.As compose with
// both the sentinel below and the wrapped cause.

// NotFoundErr indicates an object or version does not exist.
type NotFoundErr struct {
	ID  string // object id or path
	Err error  // underlying cause, if any
}

func (e *NotFoundErr) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("not found: %s: %v", e.ID, e.Err)
	}
	return fmt.Sprintf("not found: %s", e.ID)
}

func (e *NotFoundErr) Unwrap() error { return e.Err }

// AlreadyExistsErr indicates a create-only operation collided with an
// existing storage entry.
type AlreadyExistsErr struct {
	Path string
}

func (e *AlreadyExistsErr) Error() string { return "already exists: " + e.Path }

// ObjectOutOfSyncErr indicates a caller-provided expected head version
// doesn't match the object's observed head.
type ObjectOutOfSyncErr struct {
	ID       string
	Expected VNum
	Observed VNum
}

func (e *ObjectOutOfSyncErr) Error() string {
	return fmt.Sprintf("object %q is out of sync: expected head %s, observed %s", e.ID, e.Expected, e.Observed)
}

// OverwriteConflictErr indicates a logical path collision without the
// overwrite option enabled.
type OverwriteConflictErr struct {
	Path string
}

func (e *OverwriteConflictErr) Error() string {
	return "logical path already exists (overwrite not enabled): " + e.Path
}

// FixityMismatchErr indicates a computed digest didn't match the expected
// value.
type FixityMismatchErr struct {
	Path     string
	Alg      string
	Got      string
	Expected string
}

func (e *FixityMismatchErr) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("fixity mismatch (%s): got %q, expected %q", e.Alg, e.Got, e.Expected)
	}
	return fmt.Sprintf("fixity mismatch for %q (%s): got %q, expected %q", e.Path, e.Alg, e.Got, e.Expected)
}

// InvalidInventoryErr indicates an inventory is missing required fields,
// has broken references, or violates one of the invariants in the data
// model.
type InvalidInventoryErr struct {
	Msg string
	Err error
}

func (e *InvalidInventoryErr) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid inventory: %s: %v", e.Msg, e.Err)
	}
	return "invalid inventory: " + e.Msg
}

func (e *InvalidInventoryErr) Unwrap() error { return e.Err }

// CorruptObjectErr indicates the storage state contradicts the inventory
// (a manifest file is missing, or a sidecar digest doesn't match).
type CorruptObjectErr struct {
	ID  string
	Msg string
}

func (e *CorruptObjectErr) Error() string {
	return fmt.Sprintf("corrupt object %q: %s", e.ID, e.Msg)
}

// PathConstraintViolationErr indicates a logical or content path was
// rejected by the active Path Constraint Processor. Rune is the offending
// code point for per-character rule violations, or 0 if the violation
// applies to the whole path or a segment.
type PathConstraintViolationErr struct {
	Path string
	Rule string
	Rune rune
}

func (e *PathConstraintViolationErr) Error() string {
	if e.Rune != 0 {
		return fmt.Sprintf("path constraint violation (%s): %q contains %q", e.Rule, e.Path, e.Rune)
	}
	return fmt.Sprintf("path constraint violation (%s): %q", e.Rule, e.Path)
}

// LockContentionErr indicates a lock wait exceeded its configured timeout or
// was interrupted.
type LockContentionErr struct {
	ID  string
	Err error
}

func (e *LockContentionErr) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not acquire lock for %q: %v", e.ID, e.Err)
	}
	return fmt.Sprintf("could not acquire lock for %q", e.ID)
}

func (e *LockContentionErr) Unwrap() error { return e.Err }

// RepositoryConfigurationErr indicates a storage root has no version
// marker, an unresolvable layout, or an unsupported extension.
type RepositoryConfigurationErr struct {
	Msg string
	Err error
}

func (e *RepositoryConfigurationErr) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("repository configuration error: %s: %v", e.Msg, e.Err)
	}
	return "repository configuration error: " + e.Msg
}

func (e *RepositoryConfigurationErr) Unwrap() error { return e.Err }

// StorageErr wraps a transport-level I/O failure from the storage backend.
type StorageErr struct {
	Op  string
	Err error
}

func (e *StorageErr) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageErr) Unwrap() error { return e.Err }

// ErrNoLogicalPath is returned by operations that require a logical path
// already present in the object's current version state.
var ErrNoLogicalPath = errors.New("logical path not found in version state")
