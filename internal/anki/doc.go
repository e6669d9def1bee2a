// Package anki exports translation history as Anki flashcards. Each card
// pairs a word with the signs that spell it, as a CSV import file or as a
// self-contained .apkg package.
package anki
