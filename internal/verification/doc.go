// Package verification tracks whether the staged title has been confirmed
// against a metadata lookup.
//
// A Gate holds one of two states. RequestVerification moves it to Verified
// when the lookup finds the title and back to Unverified otherwise. By default
// MayCommit only checks the state; in strict mode it also requires the
// verified title to equal the title about to be committed.
package verification
