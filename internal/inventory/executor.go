package inventory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/angelmondragon/pharmaline-backend/internal/command"
	"github.com/angelmondragon/pharmaline-backend/internal/ledger"
	"github.com/angelmondragon/pharmaline-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// HelpText answers UNKNOWN and unsupported actions.
const HelpText = "Try: add 10 panadol expiring 14-12-2027 / remove 5 panadol / set panadol to 30 / what's in stock / low stock"

// DefaultLowStockThreshold applies when a LOW_STOCK command names none.
const DefaultLowStockThreshold = 5

// Executor runs structured commands against the ledger and renders operator
// replies. The returned error is non-nil only for infrastructure failures;
// every user-level outcome (validation, not found, overdraw) is a reply.
type Executor interface {
	Execute(ctx context.Context, cmd *command.Command) (string, error)
}

type executor struct {
	ledger ledger.Service
	inv    Aggregator

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewExecutor wires a command executor over the ledger and aggregator.
func NewExecutor(ledgerSvc ledger.Service, inv Aggregator) (Executor, error) {
	if ledgerSvc == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	if inv == nil {
		return nil, fmt.Errorf("aggregator required")
	}
	return &executor{
		ledger: ledgerSvc,
		inv:    inv,
		locks:  make(map[string]*sync.Mutex),
	}, nil
}

func (e *executor) Execute(ctx context.Context, cmd *command.Command) (string, error) {
	cmd = command.Normalize(cmd)

	if msg := command.Validate(cmd); msg != "" {
		return msg, nil
	}

	switch cmd.Action {
	case enums.CommandActionList:
		return e.list(ctx)
	case enums.CommandActionLowStock:
		return e.lowStock(ctx, cmd)
	case enums.CommandActionAdd:
		return e.add(ctx, cmd)
	case enums.CommandActionRemove:
		return e.remove(ctx, cmd)
	case enums.CommandActionSet:
		return e.set(ctx, cmd)
	case enums.CommandActionUpdatePrice:
		return e.updatePrice(ctx, cmd)
	default:
		return HelpText, nil
	}
}

func (e *executor) list(ctx context.Context) (string, error) {
	summaries, err := e.inv.Summary(ctx)
	if err != nil {
		return "", err
	}
	if len(summaries) == 0 {
		return "Inventory is empty.", nil
	}

	var sb strings.Builder
	sb.WriteString("In stock:\n")
	for _, s := range summaries {
		fmt.Fprintf(&sb, "- %s: %d\n", s.Name, s.TotalStock)
	}
	return strings.TrimSpace(sb.String()), nil
}

func (e *executor) lowStock(ctx context.Context, cmd *command.Command) (string, error) {
	threshold := DefaultLowStockThreshold
	if cmd.Quantity != nil {
		threshold = *cmd.Quantity
	}

	low, err := e.inv.ListLowStock(ctx, threshold)
	if err != nil {
		return "", err
	}
	if len(low) == 0 {
		return fmt.Sprintf("No low-stock medicines (<= %d).", threshold), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Low stock (<= %d):\n", threshold)
	for _, s := range low {
		fmt.Fprintf(&sb, "- %s: %d\n", s.Name, s.TotalStock)
	}
	return strings.TrimSpace(sb.String()), nil
}

func (e *executor) add(ctx context.Context, cmd *command.Command) (string, error) {
	unlock := e.lockItem(cmd.Name)
	defer unlock()

	price := decimal.Zero
	if cmd.Price != nil {
		price = *cmd.Price
	}

	if _, err := e.ledger.Append(ctx, ledger.AppendEventInput{
		ItemName: cmd.Name,
		DeltaQty: *cmd.Quantity,
		Price:    price,
		Expiry:   cmd.Expiry,
	}); err != nil {
		return "", err
	}
	e.inv.InvalidateItem(cmd.Name)

	now, err := e.inv.CurrentStock(ctx, cmd.Name)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Added %d %s. Now: %d", *cmd.Quantity, cmd.Name, now), nil
}

func (e *executor) remove(ctx context.Context, cmd *command.Command) (string, error) {
	unlock := e.lockItem(cmd.Name)
	defer unlock()

	exists, err := e.inv.Exists(ctx, cmd.Name)
	if err != nil {
		return "", err
	}
	if !exists {
		return "Medicine not found: " + cmd.Name, nil
	}

	current, err := e.inv.CurrentStock(ctx, cmd.Name)
	if err != nil {
		return "", err
	}
	if current <= 0 {
		return "No stock available for " + cmd.Name, nil
	}
	if *cmd.Quantity > current {
		return fmt.Sprintf("Cannot remove %d because only %d in stock.", *cmd.Quantity, current), nil
	}

	if _, err := e.ledger.Append(ctx, ledger.AppendEventInput{
		ItemName: cmd.Name,
		DeltaQty: -*cmd.Quantity,
		Price:    decimal.Zero,
	}); err != nil {
		return "", err
	}
	e.inv.InvalidateItem(cmd.Name)

	now, err := e.inv.CurrentStock(ctx, cmd.Name)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Removed %d %s. Now: %d", *cmd.Quantity, cmd.Name, now), nil
}

func (e *executor) set(ctx context.Context, cmd *command.Command) (string, error) {
	unlock := e.lockItem(cmd.Name)
	defer unlock()

	exists, err := e.inv.Exists(ctx, cmd.Name)
	if err != nil {
		return "", err
	}
	if !exists {
		return "Medicine not found: " + cmd.Name, nil
	}

	current, err := e.inv.CurrentStock(ctx, cmd.Name)
	if err != nil {
		return "", err
	}

	price := decimal.Zero
	if cmd.Price != nil {
		price = *cmd.Price
	}

	desired := *cmd.Quantity
	delta := desired - current
	if delta != 0 {
		if _, err := e.ledger.Append(ctx, ledger.AppendEventInput{
			ItemName: cmd.Name,
			DeltaQty: delta,
			Price:    price,
			Expiry:   cmd.Expiry,
		}); err != nil {
			return "", err
		}
		e.inv.InvalidateItem(cmd.Name)
	}

	return fmt.Sprintf("Set %s to %d.", cmd.Name, desired), nil
}

func (e *executor) updatePrice(ctx context.Context, cmd *command.Command) (string, error) {
	unlock := e.lockItem(cmd.Name)
	defer unlock()

	exists, err := e.inv.Exists(ctx, cmd.Name)
	if err != nil {
		return "", err
	}
	if !exists {
		return "Medicine not found: " + cmd.Name, nil
	}

	// zero delta keeps stock untouched while the event carries the price
	if _, err := e.ledger.Append(ctx, ledger.AppendEventInput{
		ItemName: cmd.Name,
		DeltaQty: 0,
		Price:    *cmd.Price,
	}); err != nil {
		return "", err
	}
	e.inv.InvalidateItem(cmd.Name)

	return fmt.Sprintf("Updated price for %s to %s", cmd.Name, cmd.Price.String()), nil
}

// lockItem serializes read-then-append sequences per item so concurrent
// mutations cannot interleave between the stock read and the event write.
func (e *executor) lockItem(name string) func() {
	key := itemKey(name)

	e.mu.Lock()
	lock, ok := e.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[key] = lock
	}
	e.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
