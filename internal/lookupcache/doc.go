// Package lookupcache persists successful title lookups in SQLite so repeated
// verifications of the same film skip the network.
//
// Keys are case-folded titles. Entries older than the configured TTL read as
// misses but stay on disk until Clear or a later Put replaces them. Only
// positive results are stored; an absent title is always asked again.
package lookupcache
