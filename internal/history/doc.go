// Package history keeps the most recent translations in a single slot of a
// key-value store. Corrupt slot contents are discarded rather than reported.
package history
