package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"assettracker-backend/internal/shared/metrics"
	"assettracker-backend/internal/shared/telemetry"
)

// InvokeTimeout bounds one model invocation wall-clock.
const InvokeTimeout = 30 * time.Second

const extractionPrompt = `You are an expert at analyzing receipts and invoices. Extract the following information and return it as a single JSON object:

- item_name: the main product or item name, exactly as written
- price: the total amount paid, just the number without currency symbols
- date: the purchase or invoice date in YYYY-MM-DD format
- vendor: the store, company, or brand name
- model_number: product model, SKU, or part number (null if not found)
- description: a brief product description
- category: one of Electronics, Home Appliances, Vehicles, Furniture, Tools & Equipment, Jewelry, Art & Collectibles, Sports & Recreation, Other

Choose the category from the product and vendor context. Product names like "AirPods" or "MacBook" and vendors like "Apple" or "Samsung" indicate Electronics.

Return ONLY the JSON object. No explanations or extra text.`

// Extractor turns a document into structured receipt fields. It degrades to
// a stub on any failure after the model candidates are exhausted; callers
// never see an error from Extract.
type Extractor struct {
	Invoker Invoker
	// ModelIDs is the fixed fallback order. An access-denied failure
	// advances to the next candidate; any other failure aborts the chain.
	ModelIDs []string
}

// Extract analyzes one document. PDFs have their text pulled locally and go
// to the model as a text prompt; images ride along inline.
func (e *Extractor) Extract(ctx context.Context, data []byte, mimeType string) Result {
	start := time.Now()
	defer func() { metrics.ObserveExtractionDuration(time.Since(start)) }()

	var prompt string
	var imageBase64 string
	if mimeType == "application/pdf" {
		text, err := pdfText(data)
		if err != nil || strings.TrimSpace(text) == "" {
			telemetry.Error("ai.extract.pdf_text_failed", map[string]any{
				"error": errString(err),
			})
			metrics.IncExtraction("fallback")
			return FallbackStub("")
		}
		if len(text) > 3000 {
			text = text[:3000]
		}
		prompt = extractionPrompt + "\n\nText to analyze:\n" + text
	} else {
		prompt = extractionPrompt
		imageBase64 = base64.StdEncoding.EncodeToString(data)
	}

	raw, modelID, ok := e.invokeChain(ctx, prompt, mimeType, imageBase64)
	if !ok {
		metrics.IncExtraction("fallback")
		return FallbackStub("")
	}

	result, ok := parseFields(raw)
	if !ok {
		telemetry.Error("ai.extract.unparseable", map[string]any{"model_id": modelID})
		metrics.IncExtraction("fallback")
		return FallbackStub(raw)
	}
	result.ModelID = modelID

	metrics.IncExtraction("ok")
	telemetry.Info("ai.extract.ok", map[string]any{
		"model_id":    modelID,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return result
}

// invokeChain walks the candidate models in order and returns the first
// successful response text.
func (e *Extractor) invokeChain(ctx context.Context, prompt, mimeType, imageBase64 string) (string, string, bool) {
	for _, modelID := range e.ModelIDs {
		provider, err := providerFor(modelID)
		if err != nil {
			telemetry.Error("ai.extract.bad_model_id", map[string]any{
				"model_id": modelID, "error": err.Error(),
			})
			continue
		}

		var payload []byte
		if imageBase64 != "" {
			payload, err = buildVisionPayload(provider, prompt, mimeType, imageBase64)
		} else {
			payload, err = buildTextPayload(provider, prompt)
		}
		if err != nil {
			return "", "", false
		}

		invokeCtx, cancel := context.WithTimeout(ctx, InvokeTimeout)
		body, err := e.Invoker.Invoke(invokeCtx, modelID, payload)
		cancel()
		if err != nil {
			if isAccessDenied(err) {
				telemetry.Info("ai.extract.model_unavailable", map[string]any{
					"model_id": modelID,
				})
				continue
			}
			telemetry.Error("ai.extract.invoke_failed", map[string]any{
				"model_id": modelID, "error": err.Error(),
			})
			return "", "", false
		}

		text, err := responseText(provider, body)
		if err != nil {
			telemetry.Error("ai.extract.bad_response", map[string]any{
				"model_id": modelID, "error": err.Error(),
			})
			return "", "", false
		}
		return text, modelID, true
	}
	return "", "", false
}

// parseFields pulls the first JSON object out of the model text and
// sanitizes each field.
func parseFields(raw string) (Result, bool) {
	jsonText, ok := firstJSONObject(raw)
	if !ok {
		return Result{}, false
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		return Result{}, false
	}

	fields := ExtractedFields{
		ItemName:     sanitizeString(parsed["item_name"]),
		Price:        sanitizeNumber(parsed["price"]),
		PurchaseDate: sanitizeDate(parsed["date"]),
		Vendor:       sanitizeString(parsed["vendor"]),
		ModelNumber:  sanitizeString(parsed["model_number"]),
		Description:  sanitizeString(parsed["description"]),
		Category:     sanitizeString(parsed["category"]),
		Confidence:   ConfidenceHigh,
	}
	return Result{Fields: fields, RawText: raw}, true
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
