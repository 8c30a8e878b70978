// Package contractstest provides in-memory implementations of the storage
// and provider contracts for tests.
package contractstest
