// Package connpool implements a bounded pool of live database sessions:
// borrow/return protocol, active-set bookkeeping, capacity elasticity
// (grow under high load, shrink with hysteresis under low load), top-up
// semantics when the free queue empties, validation on handout and
// release, and a background leak detector that reclaims sessions held
// past a threshold.
//
// The database driver, configuration sources, and credential carriers are
// external collaborators: connpool only assumes a Session can be tested
// for liveness and closed, and that a SessionFactory can open one given a
// context. Settings and Credentials are read-only views supplied by the
// caller; two concrete providers of each are included (hardcoded defaults
// and a key/value property file).
package connpool
