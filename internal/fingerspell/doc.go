// Package fingerspell resolves English text into ordered fingerspelling
// units. It provides a pure local resolver, a remote resolver that talks to
// the transcribe endpoint, and a fallback resolver that silently substitutes
// the local result whenever the remote one fails.
package fingerspell
