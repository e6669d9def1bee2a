// Package playback drives fingerspelling playback. A WordPlayer steps
// through the letters of one word on a fixed interval; a Player steps
// through the words of a translation and advances early when the current
// word finishes spelling.
//
// Every timer is owned by the state it was armed for. Any transition that
// replaces that state stops the timer, and a callback that still runs
// after being superseded sees a stale sequence number and does nothing.
package playback
