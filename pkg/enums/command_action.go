package enums

import (
	"fmt"
	"strings"
)

// CommandAction is the closed set of operations an operator command can request.
type CommandAction string

const (
	CommandActionAdd         CommandAction = "ADD"
	CommandActionRemove      CommandAction = "REMOVE"
	CommandActionSet         CommandAction = "SET"
	CommandActionList        CommandAction = "LIST"
	CommandActionLowStock    CommandAction = "LOW_STOCK"
	CommandActionUpdatePrice CommandAction = "UPDATE_PRICE"
	CommandActionUnknown     CommandAction = "UNKNOWN"
)

var validCommandActions = []CommandAction{
	CommandActionAdd,
	CommandActionRemove,
	CommandActionSet,
	CommandActionList,
	CommandActionLowStock,
	CommandActionUpdatePrice,
	CommandActionUnknown,
}

// IsValid reports whether the value is a member of the canonical action set.
func (a CommandAction) IsValid() bool {
	for _, candidate := range validCommandActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// Mutates reports whether executing the action can append a ledger event.
func (a CommandAction) Mutates() bool {
	switch a {
	case CommandActionAdd, CommandActionRemove, CommandActionSet, CommandActionUpdatePrice:
		return true
	}
	return false
}

// ParseCommandAction converts raw input into CommandAction. Input is trimmed
// and uppercased first, so classifier output like "add" parses cleanly.
func ParseCommandAction(value string) (CommandAction, error) {
	needle := CommandAction(strings.ToUpper(strings.TrimSpace(value)))
	for _, candidate := range validCommandActions {
		if candidate == needle {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid command action %q", value)
}

func (a CommandAction) String() string {
	return string(a)
}
