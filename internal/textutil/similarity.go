package textutil

// CosineSimilarity computes the cosine similarity between two fingerprints.
// Returns 0 if either fingerprint is nil or has zero norm.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	var dot float64
	for token, count := range a.tokens {
		if other, ok := b.tokens[token]; ok {
			dot += count * other
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (a.norm * b.norm)
}

// TitleSimilarity scores two titles in [0, 1]. Titles that fold to the same
// text score 1 even when they carry no tokens.
func TitleSimilarity(a, b string) float64 {
	foldedA, foldedB := FoldTitle(a), FoldTitle(b)
	if foldedA == "" || foldedB == "" {
		return 0
	}
	if foldedA == foldedB {
		return 1
	}
	return CosineSimilarity(NewFingerprint(foldedA), NewFingerprint(foldedB))
}
