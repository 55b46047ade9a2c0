package command

import (
	"regexp"

	"github.com/angelmondragon/pharmaline-backend/pkg/enums"
)

var dmyRe = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)

// Validation messages surfaced verbatim to the operator.
const (
	MsgMissingAction    = "Missing action."
	MsgNameRequired     = "Medicine name required."
	MsgQuantityPositive = "Quantity must be > 0."
	MsgQuantityNonNeg   = "Quantity must be 0 or more."
	MsgExpiryRequired   = "Expiry required (DD-MM-YYYY)."
	MsgExpiryFormat     = "Expiry must be DD-MM-YYYY (e.g., 14-12-2027)."
	MsgPriceNonNeg      = "Price must be >= 0."
	MsgThresholdNonNeg  = "Threshold must be >= 0."
)

// Validate checks a normalized command and returns a user-facing message, or
// the empty string when the command is executable. UNKNOWN passes validation;
// the executor answers it with the help text.
func Validate(cmd *Command) string {
	if cmd == nil || cmd.Action == "" {
		return MsgMissingAction
	}

	switch cmd.Action {
	case enums.CommandActionAdd:
		if cmd.Name == "" {
			return MsgNameRequired
		}
		if cmd.Quantity == nil || *cmd.Quantity <= 0 {
			return MsgQuantityPositive
		}
		if cmd.Expiry == "" {
			return MsgExpiryRequired
		}
		if !dmyRe.MatchString(cmd.Expiry) {
			return MsgExpiryFormat
		}
		if cmd.Price != nil && cmd.Price.IsNegative() {
			return MsgPriceNonNeg
		}

	case enums.CommandActionRemove:
		if cmd.Name == "" {
			return MsgNameRequired
		}
		if cmd.Quantity == nil || *cmd.Quantity <= 0 {
			return MsgQuantityPositive
		}

	case enums.CommandActionSet:
		if cmd.Name == "" {
			return MsgNameRequired
		}
		if cmd.Quantity == nil || *cmd.Quantity < 0 {
			return MsgQuantityNonNeg
		}
		if cmd.Expiry != "" && !dmyRe.MatchString(cmd.Expiry) {
			return MsgExpiryFormat
		}
		if cmd.Price != nil && cmd.Price.IsNegative() {
			return MsgPriceNonNeg
		}

	case enums.CommandActionLowStock:
		if cmd.Quantity != nil && *cmd.Quantity < 0 {
			return MsgThresholdNonNeg
		}

	case enums.CommandActionUpdatePrice:
		if cmd.Name == "" {
			return MsgNameRequired
		}
		if cmd.Price == nil || cmd.Price.IsNegative() {
			return MsgPriceNonNeg
		}
	}

	return ""
}
