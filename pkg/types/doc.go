// Package types defines the domain entities of the spectro client (pigments,
// spectrum analyses, line items, sessions, catalog filters), the key-value
// store interface used for durable client state, and the standard errors
// shared by the gateway and the stores.
package types
