// Package server exposes the letter resolver over HTTP so that remote
// clients, including other signopsis instances, can spell words without a
// local copy of the alphabet. It also serves the alphabet images and the
// placeholder tiles that spelled units point at.
package server
