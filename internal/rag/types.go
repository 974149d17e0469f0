package rag

// SearchResult is a read projection of one indexed point, produced fresh per
// query and never mutated.
type SearchResult struct {
	ID       string  `json:"id"`
	Score    float32 `json:"score"`
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Category string  `json:"category"`
	Content  string  `json:"content"`
}

// Turn is one prior exchange in a conversation, oldest first.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Exchange is the unit of work for one Chat invocation. Not persisted.
type Exchange struct {
	Query          string
	RewrittenQuery string
	Retrieved      []SearchResult
	Answer         string
	Confidence     float64
}
