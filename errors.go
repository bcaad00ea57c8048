package uniq

import (
	"fmt"

	"github.com/xraph/go-utils/errs"
)

// =============================================================================
// ERROR CODES
// =============================================================================

const (
	// CodeInvalidArgument indicates a missing table, key or registration payload
	CodeInvalidArgument = "INVALID_ARGUMENT"

	// CodeImplementationNotFound indicates an implementation key that Apply cannot bind
	CodeImplementationNotFound = "IMPLEMENTATION_NOT_FOUND"

	// CodeDuplicateService indicates duplicates left in a table applied in strict mode
	CodeDuplicateService = "DUPLICATE_SERVICE"

	// CodeApplyFailed indicates the target container rejected a registration
	CodeApplyFailed = "APPLY_FAILED"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

// ErrInvalidArgument is a sentinel for every malformed-input error (for error checking).
var ErrInvalidArgument = errs.NewError(CodeInvalidArgument, "invalid argument", nil)

// ErrNilTable is returned when an operation receives no table.
var ErrNilTable = errs.NewError(CodeInvalidArgument, "table cannot be nil", nil)

// ErrNilRegistrar is returned when Apply receives no container.
var ErrNilRegistrar = errs.NewError(CodeInvalidArgument, "registrar cannot be nil", nil)

// ErrImplementationNotFoundSentinel is a sentinel for unbound implementations (for error checking).
var ErrImplementationNotFoundSentinel = errs.NewError(CodeImplementationNotFound, "implementation not found", nil)

// ErrDuplicateServiceSentinel is a sentinel for strict-mode duplicate failures (for error checking).
var ErrDuplicateServiceSentinel = errs.NewError(CodeDuplicateService, "duplicate service", nil)

// ErrApplyFailedSentinel is a sentinel for container registration failures (for error checking).
var ErrApplyFailedSentinel = errs.NewError(CodeApplyFailed, "apply failed", nil)

// =============================================================================
// ERROR CONSTRUCTORS
// =============================================================================

// ErrEmptyKey creates an error for a registration without a key
func ErrEmptyKey() *errs.Error {
	return errs.NewError(
		CodeInvalidArgument,
		"service key cannot be empty",
		nil,
	).WithContext("argument", "key").(*errs.Error)
}

// ErrEmptyImplementation creates an error for an implementation registration without an implementation key
func ErrEmptyImplementation(key Key) *errs.Error {
	return invalidArgument(key, "implementation", "implementation key cannot be empty")
}

// ErrNilFactory creates an error for a factory registration without a factory
func ErrNilFactory(key Key) *errs.Error {
	return invalidArgument(key, "factory", "factory cannot be nil")
}

// ErrNilInstance creates an error for an instance registration without an instance
func ErrNilInstance(key Key) *errs.Error {
	return invalidArgument(key, "instance", "instance cannot be nil")
}

// ErrInvalidLifetime creates an error for an unknown or disallowed lifetime
func ErrInvalidLifetime(key Key, lifetime Lifetime) *errs.Error {
	return invalidArgument(key, "lifetime", fmt.Sprintf("invalid lifetime '%s'", lifetime))
}

// ErrInvalidKind creates an error for a descriptor of unknown kind
func ErrInvalidKind(key Key, kind Kind) *errs.Error {
	return invalidArgument(key, "kind", fmt.Sprintf("invalid descriptor %s", kind))
}

// ErrImplementationNotFound creates an error for an implementation key Apply cannot bind
func ErrImplementationNotFound(key, impl Key) *errs.Error {
	return errs.NewError(
		CodeImplementationNotFound,
		fmt.Sprintf("service '%s': implementation '%s' not found", key, impl),
		nil,
	).WithContext("service", string(key)).
		WithContext("implementation", string(impl)).(*errs.Error)
}

// ErrDuplicateService creates an error listing keys that still have duplicates
func ErrDuplicateService(groups []DuplicateGroup) *errs.Error {
	keys := make([]string, 0, len(groups))
	for _, g := range groups {
		keys = append(keys, string(g.Key))
	}

	return errs.NewError(
		CodeDuplicateService,
		fmt.Sprintf("duplicate services: %v", keys),
		nil,
	).WithContext("services", keys).(*errs.Error)
}

// NewApplyError creates an error for a registration the container rejected
func NewApplyError(key Key, cause error) *errs.Error {
	return errs.NewError(
		CodeApplyFailed,
		fmt.Sprintf("service '%s' could not be applied", key),
		cause,
	).WithContext("service", string(key)).(*errs.Error)
}

func invalidArgument(key Key, argument, message string) *errs.Error {
	return errs.NewError(
		CodeInvalidArgument,
		fmt.Sprintf("service '%s': %s", key, message),
		nil,
	).WithContext("service", string(key)).
		WithContext("argument", argument).(*errs.Error)
}
