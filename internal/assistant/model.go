// Package assistant fronts the Gemini API for farming chat and image
// analysis, keeping a capped per-user interaction history.
package assistant

import "time"

// EntryKind marks how an interaction was made.
type EntryKind string

const (
	EntryKindText  EntryKind = "text"
	EntryKindVoice EntryKind = "voice"
	EntryKindImage EntryKind = "image"
)

// HistoryCap bounds the per-user interaction history.
const HistoryCap = 100

// HistoryEntry is one stored question/answer pair.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Kind      EntryKind `json:"kind"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Language  string    `json:"language"`
	Timestamp time.Time `json:"timestamp"`
}

// AnalysisKind selects the vision prompt.
type AnalysisKind string

const (
	AnalysisCropDisease AnalysisKind = "crop-disease"
	AnalysisSoil        AnalysisKind = "soil-analysis"
	AnalysisDocumentOCR AnalysisKind = "document-ocr"
)

// ValidAnalysisKind reports whether the raw value names a known analysis.
func ValidAnalysisKind(value string) bool {
	switch AnalysisKind(value) {
	case AnalysisCropDisease, AnalysisSoil, AnalysisDocumentOCR:
		return true
	default:
		return false
	}
}

// ChatResult is the answer to a chat prompt.
type ChatResult struct {
	Answer   string `json:"answer"`
	Fallback bool   `json:"fallback"`
}

// Analysis is the structured verdict for an analyzed image.
type Analysis struct {
	Kind AnalysisKind `json:"kind"`
	// Verdict holds the parsed JSON fields of the model reply, or the
	// templated fallback when the reply was not parseable JSON.
	Verdict  map[string]interface{} `json:"verdict"`
	RawText  string                 `json:"rawText,omitempty"`
	Fallback bool                   `json:"fallback"`
}
