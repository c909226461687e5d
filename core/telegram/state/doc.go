// Package state provides the per-user session map that backs multi-step
// conversation flows. Sessions are ephemeral process memory: completion,
// cancellation, navigation back to a list view, or the TTL sweep clears
// them, and a restart loses them by design.
package state
