package types

import "time"

type KnowledgeBase struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	MemberScope  string    `json:"member_scope"`
	ChunkSize    int       `json:"chunk_size"`
	ChunkOverlap int       `json:"chunk_overlap"`
	TopK         int       `json:"top_k"`
	RerankTopN   int       `json:"rerank_top_n"`
	Status       string    `json:"status"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type KBDocument struct {
	ID      string `json:"id"`
	KBID    string `json:"kb_id"`
	Title   string `json:"title"`
	Status  string `json:"status"`
	Chunks  int    `json:"chunks"`
	Content string `json:"content,omitempty"`
}

type KBBuildResult struct {
	Documents int    `json:"documents"`
	Chunks    int    `json:"chunks"`
	Status    string `json:"status"`
}

type RetrievalHit struct {
	DocumentID string  `json:"document_id"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
}
