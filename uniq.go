// Package uniq keeps service registrations unique before they are handed to
// a dependency injection container.
//
// A Collection is an ordered table of Descriptors. Like most containers it
// accepts repeated keys through Append. The helpers in this package enforce
// "one live registration per key":
//
//   - Upsert (and the AddUnique* forms) removes every existing entry for the
//     key and appends the new one. The latest registration wins.
//   - Reconcile collapses duplicates that were appended by other code paths.
//     The earliest registration of each key wins.
//
// The two tie-breaks differ on purpose. Callers that want "latest wins" must
// register through Upsert; Reconcile is a repair tool and keeps what was
// configured first.
//
// Once the table is clean, Apply hands it to a container that implements
// Registrar, such as a github.com/xraph/go-utils/di container.
package uniq

import (
	"github.com/xraph/go-utils/di"
)

// Container is the DI container a Factory resolves its dependencies from.
type Container = di.Container

// Factory creates a service instance from the target container.
type Factory = di.Factory

// RegisterOption is a configuration option forwarded to the target container.
type RegisterOption = di.RegisterOption

// Registrar is the part of a DI container that Apply needs.
type Registrar interface {
	Register(name string, factory Factory, opts ...RegisterOption) error
}
