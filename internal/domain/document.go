package domain

import "time"

// Document is a reference item of the retrieval corpus. Write-once.
type Document struct {
	ID         string    `json:"doc_id"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	Body       string    `json:"body"`
	Embedding  []float32 `json:"-"`
	EmbedModel string    `json:"embed_model,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// EvidenceRef is a single retrieval result embedded in a draft.
type EvidenceRef struct {
	DocID    string  `json:"doc_id"`
	Title    string  `json:"title"`
	Snippet  string  `json:"snippet"`
	Score    float64 `json:"score"`
	Category string  `json:"category,omitempty"`
}

// EvidenceIDs returns the document ids in evidence order.
func EvidenceIDs(refs []EvidenceRef) []string {
	ids := make([]string, len(refs))
	for i, r := range refs {
		ids[i] = r.DocID
	}
	return ids
}
