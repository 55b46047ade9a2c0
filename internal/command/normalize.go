package command

import (
	"regexp"
	"strings"

	"github.com/angelmondragon/pharmaline-backend/pkg/enums"
)

var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Normalize canonicalizes a decoded command in place: the action is trimmed
// and uppercased (anything outside the known set collapses to UNKNOWN), the
// name is cleaned, and ISO dates are flipped to DD-MM-YYYY. Unrecognized date
// shapes pass through untouched so validation can report them.
func Normalize(cmd *Command) *Command {
	if cmd == nil {
		return nil
	}

	action, err := enums.ParseCommandAction(string(cmd.Action))
	if err != nil {
		action = enums.CommandActionUnknown
	}
	cmd.Action = action
	cmd.Name = CleanName(cmd.Name)
	cmd.Expiry = NormalizeExpiry(cmd.Expiry)
	return cmd
}

// NormalizeExpiry converts YYYY-MM-DD to DD-MM-YYYY and otherwise returns the
// trimmed input unchanged.
func NormalizeExpiry(expiry string) string {
	e := strings.TrimSpace(expiry)
	if isoDateRe.MatchString(e) {
		parts := strings.Split(e, "-")
		return parts[2] + "-" + parts[1] + "-" + parts[0]
	}
	return e
}
