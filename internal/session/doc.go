// Package session drives one staged watch record at a time through
// verification and into the archive.
//
// A Controller owns the staged fields, the verification gate, and the
// in-memory archive. Shells call Stage, Verify, and Commit in response to user
// actions and receive change notifications through an Observer. A failed
// operation never leaves the controller half-updated: staged fields survive a
// rejected commit and the archive survives a failed load.
package session
