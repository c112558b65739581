package retriever

// Result is one ranked document. Score is the cosine similarity scaled to
// [0,100] with two decimals; Content is the leading snippet of the document.
type Result struct {
	Source  string  `json:"source"`
	Score   float64 `json:"score"`
	Content string  `json:"content"`
}
