// Package textutil provides film title comparison helpers.
//
// FoldTitle produces the case-folded key used for lookup cache entries and
// exact-match checks. Fingerprints are term-frequency vectors over folded
// tokens; CosineSimilarity and TitleSimilarity score near matches when a
// metadata search returns titles that differ in punctuation or word order.
package textutil
