package command

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/angelmondragon/pharmaline-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Deterministic fast-path patterns. These cover the command shapes operators
// type most often; anything else falls through to the classifier.
var (
	addRe = regexp.MustCompile(`(?i)^\s*add\s+(\d+)\s+(.+?)` +
		`(?:\s+(?:price|\$)\s*(\d+(?:\.\d{1,2})?))?` +
		`\s*(?:expiring\s+(\d{2}-\d{2}-\d{4}))?\s*$`)
	removeRe   = regexp.MustCompile(`(?i)^\s*remove\s+(\d+)\s+(.+?)\s*$`)
	setRe      = regexp.MustCompile(`(?i)^\s*set\s+(\d+)\s+(.+?)\s*$`)
	lowStockRe = regexp.MustCompile(`(?i)^\s*(?:list\s+)?low\s+stock(?:\s+(\d+))?\s*$`)

	nameCleanRe = regexp.MustCompile(`[^a-zA-Z0-9 _\-]`)
)

var listAliases = map[string]struct{}{
	"list":            {},
	"list inventory":  {},
	"what's in stock": {},
	"whats in stock":  {},
}

// ParseFastPath attempts the deterministic regex tier. It returns nil when no
// pattern matches, which hands the input to the classifier.
func ParseFastPath(input string) *Command {
	if m := addRe.FindStringSubmatch(input); m != nil {
		qty, _ := strconv.Atoi(m[1])
		cmd := &Command{
			Action:   enums.CommandActionAdd,
			Name:     CleanName(m[2]),
			Quantity: &qty,
			Expiry:   m[4],
		}
		if m[3] != "" {
			if price, err := decimal.NewFromString(m[3]); err == nil {
				cmd.Price = &price
			}
		}
		return cmd
	}

	if m := removeRe.FindStringSubmatch(input); m != nil {
		qty, _ := strconv.Atoi(m[1])
		return &Command{Action: enums.CommandActionRemove, Name: CleanName(m[2]), Quantity: &qty}
	}

	if m := setRe.FindStringSubmatch(input); m != nil {
		desired, _ := strconv.Atoi(m[1])
		return &Command{Action: enums.CommandActionSet, Name: CleanName(m[2]), Quantity: &desired}
	}

	if _, ok := listAliases[strings.ToLower(strings.TrimSpace(input))]; ok {
		return &Command{Action: enums.CommandActionList}
	}

	if m := lowStockRe.FindStringSubmatch(input); m != nil {
		cmd := &Command{Action: enums.CommandActionLowStock}
		if m[1] != "" {
			threshold, _ := strconv.Atoi(m[1])
			cmd.Quantity = &threshold
		}
		return cmd
	}

	return nil
}

// CleanName trims the raw name and strips everything outside letters, digits,
// spaces, underscores and hyphens. A name that cleans down to nothing is
// returned as the empty string.
func CleanName(raw string) string {
	s := strings.TrimSpace(raw)
	s = nameCleanRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
