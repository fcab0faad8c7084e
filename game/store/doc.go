// Package store keeps the authoritative copy of every game and arbitrates
// concurrent mutation with optimistic versioning.
//
// The flow for one mutation is load, mutate, commit:
//
//	g, err := registry.Get(gameID)   // deep clone at version N
//	out, err := engine.Resolve(g, p, roll)
//	err = registry.Save(g)           // commits only if still at version N
//
// A Save that returns ErrVersionConflict means another mutation committed in
// between; the caller reloads and retries. Readers always see a consistent
// snapshot because clones never share state with the stored copy.
//
// Persistence is an optional mirror: every committed state is written as a
// JSON file so running games survive a restart.
package store
