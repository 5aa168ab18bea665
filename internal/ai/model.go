package ai

// Confidence levels attached to extraction results.
const (
	ConfidenceHigh = "high"
	ConfidenceLow  = "low"
)

// ExtractedFields is the structured view of one receipt. Nil means the model
// could not determine the field.
type ExtractedFields struct {
	ItemName     *string  `json:"itemName"`
	Price        *float64 `json:"price"`
	PurchaseDate *string  `json:"purchaseDate"`
	Vendor       *string  `json:"vendor"`
	ModelNumber  *string  `json:"modelNumber"`
	Description  *string  `json:"description"`
	Category     *string  `json:"category"`
	Confidence   string   `json:"confidence"`
}

// Result is what the extraction bridge hands back. It is always structurally
// valid; unparseable model output degrades to a stub with the raw text kept.
type Result struct {
	Fields  ExtractedFields `json:"fields"`
	RawText string          `json:"rawText,omitempty"`
	ModelID string          `json:"modelId,omitempty"`
}

// FallbackStub is the conservative result used when the model output cannot
// be parsed. Every field is nil and confidence is low.
func FallbackStub(rawText string) Result {
	return Result{
		Fields:  ExtractedFields{Confidence: ConfidenceLow},
		RawText: rawText,
	}
}
