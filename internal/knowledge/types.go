// Package knowledge turns semi-structured Q/A source tables into normalized
// chunks ready for embedding and indexing.
//
// The parser is a pure state machine over ordered rows; all I/O lives in the
// loader so parsing is unit-testable against literal row lists.
package knowledge

import "fmt"

// RawRow is one source record: cell values in column order. Rows exist only
// during ingestion and are never persisted.
type RawRow []string

// Metadata describes where a chunk came from.
type Metadata struct {
	Source    string `json:"source"`
	RowNumber int    `json:"row_number"`
	Category  string `json:"category"`
}

// Chunk is one normalized question/answer knowledge unit. Immutable once
// created; re-ingestion replaces chunks wholesale.
type Chunk struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

// BuildContent derives the embedded text from a question/answer pair.
// Content is never stored independently of the pair; recomputing it must
// always reproduce the same string.
func BuildContent(question, answer string) string {
	return fmt.Sprintf("Question: %s\nAnswer: %s", question, answer)
}

// Validate reports whether every chunk carries all required fields.
// A false result is a pass/fail signal for the ingestion caller, not an
// error: deciding whether to abort is the caller's job.
func Validate(chunks []Chunk) bool {
	for _, c := range chunks {
		if c.ID == "" || c.Question == "" || c.Answer == "" || c.Content == "" {
			return false
		}
	}
	return true
}
