package command

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/angelmondragon/pharmaline-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Command is a fully structured operator instruction. Quantity and Price are
// pointers so "absent" and "zero" stay distinguishable; for LOW_STOCK the
// Quantity field carries the threshold.
type Command struct {
	Action   enums.CommandAction
	Name     string
	Quantity *int
	Expiry   string
	Price    *decimal.Decimal
}

// classifierPayload matches the JSON schema the classifier is instructed to
// emit. Unknown fields are tolerated; missing fields decode to zero values.
type classifierPayload struct {
	Action   string           `json:"action"`
	Name     string           `json:"name"`
	Quantity *int             `json:"quantity"`
	Expiry   string           `json:"expiry"`
	Price    *decimal.Decimal `json:"price"`
}

// DecodeClassifierJSON parses classifier output into a Command. The raw text
// is stripped of markdown fences and surrounding prose first; anything that
// still fails to decode counts as a classification failure.
func DecodeClassifierJSON(raw string) (*Command, error) {
	cleaned := ExtractJSON(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("classifier returned no JSON object")
	}

	var payload classifierPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("decoding classifier payload: %w", err)
	}

	return &Command{
		Action:   enums.CommandAction(strings.ToUpper(strings.TrimSpace(payload.Action))),
		Name:     payload.Name,
		Quantity: payload.Quantity,
		Expiry:   payload.Expiry,
		Price:    payload.Price,
	}, nil
}

// ExtractJSON strips ```json fences and, when the model wraps the object in
// extra prose, cuts out the first '{' through the last '}'.
func ExtractJSON(raw string) string {
	t := strings.TrimSpace(raw)

	if strings.HasPrefix(t, "```") {
		t = strings.TrimPrefix(t, "```")
		t = strings.TrimLeft(t, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
		t = strings.TrimSuffix(strings.TrimSpace(t), "```")
		t = strings.TrimSpace(t)
	}

	start := strings.IndexByte(t, '{')
	end := strings.LastIndexByte(t, '}')
	if start >= 0 && end > start {
		return t[start : end+1]
	}
	return t
}
