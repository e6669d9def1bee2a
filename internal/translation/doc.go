// Package translation turns user-entered text into a Translation: the
// ordered words that will be fingerspelled, stamped with a creation time.
package translation
