package retriever

import "math"

// CosineSimilarity compares two sparse term-weight vectors.
func CosineSimilarity(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	// iterate the smaller map for the dot product
	if len(b) < len(a) {
		a, b = b, a
	}

	var dotProduct, normA, normB float64
	for term, wa := range a {
		dotProduct += wa * b[term]
		normA += wa * wa
	}
	for _, wb := range b {
		normB += wb * wb
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Round2 rounds to two decimal places.
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}
