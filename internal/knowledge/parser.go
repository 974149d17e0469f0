package knowledge

import (
	"strconv"
	"strings"
)

// Marker tokens identifying question and answer cells in the source table.
const (
	questionMarker = "Q."
	answerMarker   = "A."
)

// parserState tracks whether a question row is waiting for its answer row.
// Merged source cells split one logical Q/A pair across adjacent rows, so
// the parser buffers a question until an answer arrives.
type parserState int

const (
	stateIdle parserState = iota
	stateAwaitingAnswer
)

// Parser converts ordered raw rows into chunks. Source and category are
// stamped into each chunk's metadata.
type Parser struct {
	source   string
	category string
}

// NewParser creates a parser for one source document.
func NewParser(source, category string) *Parser {
	return &Parser{source: source, category: category}
}

// Parse runs the two-state machine over rows and returns emitted chunks in
// source row order.
//
// Per row, the marked cell (first cell containing a marker) decides:
//   - both markers: complete record regardless of state
//   - question only: buffer the cell, await the answer row
//   - answer only: complete the buffered question, or discard an orphan
//   - no markers: row contributes nothing, pending state survives
//
// A dangling buffered question at end-of-input yields no chunk. IDs count
// emitted chunks only, starting at 1; row numbers are 1-based indexes of the
// row that completed the record.
func (p *Parser) Parse(rows []RawRow) []Chunk {
	var chunks []Chunk
	state := stateIdle
	var buffered string
	nextID := 1

	for i, row := range rows {
		cell := markedCell(row)
		if cell == "" {
			continue
		}

		hasQuestion := strings.Contains(cell, questionMarker)
		hasAnswer := strings.Contains(cell, answerMarker)

		var record string
		switch {
		case hasQuestion && hasAnswer:
			record = cell
			state = stateIdle
		case hasQuestion:
			buffered = cell
			state = stateAwaitingAnswer
			continue
		case hasAnswer:
			if state != stateAwaitingAnswer {
				// Orphan answer with no pending question
				continue
			}
			record = buffered + "\n" + cell
			state = stateIdle
		}

		question, answer := splitRecord(record)
		if question == "" || answer == "" {
			continue
		}

		chunks = append(chunks, Chunk{
			ID:       strconv.Itoa(nextID),
			Question: question,
			Answer:   answer,
			Content:  BuildContent(question, answer),
			Metadata: Metadata{
				Source:    p.source,
				RowNumber: i + 1,
				Category:  p.category,
			},
		})
		nextID++
	}

	return chunks
}

// markedCell scans the row's cells in column order and returns the first one
// containing a marker, or "" if the row has none.
func markedCell(row RawRow) string {
	for _, cell := range row {
		if strings.Contains(cell, questionMarker) || strings.Contains(cell, answerMarker) {
			return cell
		}
	}
	return ""
}

// splitRecord extracts the question text (after the question marker, up to
// the answer marker or end-of-text) and the answer text (after the answer
// marker to end-of-text), both trimmed.
func splitRecord(text string) (question, answer string) {
	qi := strings.Index(text, questionMarker)
	ai := strings.Index(text, answerMarker)

	if qi >= 0 {
		end := len(text)
		if ai > qi {
			end = ai
		}
		question = strings.TrimSpace(text[qi+len(questionMarker) : end])
	}
	if ai >= 0 {
		answer = strings.TrimSpace(text[ai+len(answerMarker):])
	}
	return question, answer
}
