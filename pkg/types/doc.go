// Package types defines the ledger entities (Item, Owner), the StateStore
// adapter interface, store configuration and the errors shared across the
// module.
package types
