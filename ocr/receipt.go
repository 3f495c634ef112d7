package ocr

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReceiptItem struct {
	Name     string              `json:"name"`
	Quantity decimal.NullDecimal `json:"quantity"`
	Price    decimal.NullDecimal `json:"price"`
}

// ReceiptData is the payload stored on a processed receipt.
type ReceiptData struct {
	Amount     decimal.NullDecimal `json:"amount"`
	Date       string              `json:"date,omitempty"`
	Merchant   string              `json:"merchant,omitempty"`
	Category   string              `json:"category,omitempty"`
	Items      []ReceiptItem       `json:"items"`
	CategoryID *uuid.UUID          `json:"category_id,omitempty"`
}

// ParseReceipt reads the model's text reply. Markdown fences and text around
// the outermost JSON object are ignored.
func ParseReceipt(content string) (ReceiptData, error) {
	content = cleanMarkdownWrapper(content)
	if start, end := strings.Index(content, "{"), strings.LastIndex(content, "}"); start >= 0 && end > start {
		content = content[start : end+1]
	}

	var data ReceiptData
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return ReceiptData{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if data.Items == nil {
		data.Items = []ReceiptItem{}
	}
	return data, nil
}

func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```JSON")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

// CategoryCandidate is a category the suggestion may be matched against.
type CategoryCandidate struct {
	ID   uuid.UUID
	Name string
}

// MatchCategory finds the candidate whose name contains the suggestion or is
// contained in it, ignoring case. Exact matches win over substring matches.
func MatchCategory(suggested string, candidates []CategoryCandidate) (uuid.UUID, bool) {
	s := strings.ToLower(strings.TrimSpace(suggested))
	if s == "" {
		return uuid.Nil, false
	}
	for _, c := range candidates {
		if strings.ToLower(c.Name) == s {
			return c.ID, true
		}
	}
	for _, c := range candidates {
		name := strings.ToLower(c.Name)
		if name == "" {
			continue
		}
		if strings.Contains(name, s) || strings.Contains(s, name) {
			return c.ID, true
		}
	}
	return uuid.Nil, false
}
