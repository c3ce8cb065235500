// Package errs defines the error type shared by the lineage model packages.
//
// Every model error carries a Class (structural, validation or configuration)
// and a Code naming the specific failure. Both can be tested with errors.Is:
//
//	errors.Is(err, errs.ErrValidation)    // any validation failure
//	errors.Is(err, errs.ErrSelfReference) // exactly this failure
package errs

import "fmt"

// Class groups errors by how callers are expected to react to them.
type Class string

const (
	// ClassStructural marks unresolved references and unknown keys. Fatal to a load.
	ClassStructural Class = "structural"
	// ClassValidation marks a rejected mutation. The model is left unchanged.
	ClassValidation Class = "validation"
	// ClassConfiguration marks a rejected registry definition.
	ClassConfiguration Class = "configuration"
)

// Code is a machine-readable error identifier.
type Code string

const (
	CodeReferenceResolution Code = "reference_resolution"
	CodeUnknownKey          Code = "unknown_key"

	CodeInvalidColor        Code = "invalid_color"
	CodeSelfReference       Code = "self_reference"
	CodeDuplicateParent     Code = "duplicate_parent"
	CodeInvalidParentSlot   Code = "invalid_parent_slot"
	CodeActorCount          Code = "actor_count"
	CodeUniqueTypeViolation Code = "unique_type_violation"
	CodeActorWitnessOverlap Code = "actor_witness_overlap"
	CodeNotInTree           Code = "not_in_tree"
	CodeAlreadyInTree       Code = "already_in_tree"
	CodeRootRemoval         Code = "root_removal"
	CodeLifeStatusLocked    Code = "life_status_locked"
	CodeEntryInUse          Code = "entry_in_use"
	CodeMissingType         Code = "missing_type"
	CodeInvalidValue        Code = "invalid_value"
	CodeOutOfRange          Code = "out_of_range"
	CodeInvalidRange        Code = "invalid_range"
	CodeEmptyAlternative    Code = "empty_alternative"
	CodeUnknownPicture      Code = "unknown_picture"

	CodeDuplicateKey     Code = "duplicate_key"
	CodeInvalidKey       Code = "invalid_key"
	CodeInvalidActorSpec Code = "invalid_actor_spec"
	CodeBuiltinEntry     Code = "builtin_entry"
)

// Error is the model error type.
type Error struct {
	Class   Class
	Code    Code
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		if e.Code == "" {
			return string(e.Class) + " error"
		}
		return string(e.Code)
	}
	return e.Message
}

// Is reports whether target matches e. A target without a Code matches on
// Class alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code == "" {
		return e.Class == t.Class
	}
	return e.Code == t.Code
}

// Class sentinels.
var (
	ErrStructural    = &Error{Class: ClassStructural}
	ErrValidation    = &Error{Class: ClassValidation}
	ErrConfiguration = &Error{Class: ClassConfiguration}
)

// Code sentinels.
var (
	ErrReferenceResolution = &Error{Class: ClassStructural, Code: CodeReferenceResolution}
	ErrUnknownKey          = &Error{Class: ClassStructural, Code: CodeUnknownKey}

	ErrInvalidColor        = &Error{Class: ClassValidation, Code: CodeInvalidColor}
	ErrSelfReference       = &Error{Class: ClassValidation, Code: CodeSelfReference}
	ErrDuplicateParent     = &Error{Class: ClassValidation, Code: CodeDuplicateParent}
	ErrInvalidParentSlot   = &Error{Class: ClassValidation, Code: CodeInvalidParentSlot}
	ErrActorCount          = &Error{Class: ClassValidation, Code: CodeActorCount}
	ErrUniqueTypeViolation = &Error{Class: ClassValidation, Code: CodeUniqueTypeViolation}
	ErrActorWitnessOverlap = &Error{Class: ClassValidation, Code: CodeActorWitnessOverlap}
	ErrNotInTree           = &Error{Class: ClassValidation, Code: CodeNotInTree}
	ErrAlreadyInTree       = &Error{Class: ClassValidation, Code: CodeAlreadyInTree}
	ErrRootRemoval         = &Error{Class: ClassValidation, Code: CodeRootRemoval}
	ErrLifeStatusLocked    = &Error{Class: ClassValidation, Code: CodeLifeStatusLocked}
	ErrEntryInUse          = &Error{Class: ClassValidation, Code: CodeEntryInUse}
	ErrMissingType         = &Error{Class: ClassValidation, Code: CodeMissingType}
	ErrInvalidValue        = &Error{Class: ClassValidation, Code: CodeInvalidValue}
	ErrOutOfRange          = &Error{Class: ClassValidation, Code: CodeOutOfRange}
	ErrInvalidRange        = &Error{Class: ClassValidation, Code: CodeInvalidRange}
	ErrEmptyAlternative    = &Error{Class: ClassValidation, Code: CodeEmptyAlternative}
	ErrUnknownPicture      = &Error{Class: ClassValidation, Code: CodeUnknownPicture}

	ErrDuplicateKey     = &Error{Class: ClassConfiguration, Code: CodeDuplicateKey}
	ErrInvalidKey       = &Error{Class: ClassConfiguration, Code: CodeInvalidKey}
	ErrInvalidActorSpec = &Error{Class: ClassConfiguration, Code: CodeInvalidActorSpec}
	ErrBuiltinEntry     = &Error{Class: ClassConfiguration, Code: CodeBuiltinEntry}
)

// New returns an error with the class and code of base and a formatted message.
func New(base *Error, format string, args ...any) *Error {
	return &Error{
		Class:   base.Class,
		Code:    base.Code,
		Message: fmt.Sprintf(format, args...),
	}
}
