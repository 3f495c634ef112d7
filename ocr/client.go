// Package ocr extracts structured receipt data from images through an
// external vision model.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotConfigured is returned when no API key is available.
	ErrNotConfigured = errors.New("vision API key is not configured")
	// ErrInvalidResponse means the model reply could not be read as a receipt.
	ErrInvalidResponse = errors.New("invalid vision model response")
)

// Client sends one receipt image to a vision model and parses the reply.
type Client interface {
	ExtractReceipt(ctx context.Context, image []byte, mimeType string) (ReceiptData, error)
}

// Config selects and configures a provider.
type Config struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// NewClient builds the client for cfg.Provider. An empty provider means gemini.
func NewClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderGemini:
		return newGeminiClient(cfg), nil
	case ProviderOpenAI:
		return newOpenAIClient(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported vision provider: %s", cfg.Provider)
	}
}

// Prompt is sent with every image.
const Prompt = `Analyze this receipt image and extract the purchase information.
Respond with ONLY a valid JSON object, without markdown or commentary, using exactly this structure:
{
  "amount": <total amount as a number>,
  "date": "<purchase date as YYYY-MM-DD>",
  "merchant": "<store or merchant name>",
  "category": "<best spending category, e.g. Alimentación, Transporte, Servicios, Salud, Entretenimiento, Compras>",
  "items": [{"name": "<item>", "quantity": <number>, "price": <number>}]
}
Use null for any value you cannot read.`
