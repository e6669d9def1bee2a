// Package processor contains the application logic behind the commands.
// It builds the letter resolver from configuration, owns the translation
// history, drives terminal playback and starts the HTTP service or the GUI.
// This package serves as the main coordinator between all other components.
package processor
