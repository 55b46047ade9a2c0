package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/angelmondragon/pharmaline-backend/internal/ledger"
	"github.com/angelmondragon/pharmaline-backend/pkg/db/models"
)

const expiryLayout = "02-01-2006"

// Aggregator derives inventory summaries from the event ledger.
type Aggregator interface {
	Summary(ctx context.Context) ([]ItemSummary, error)
	CurrentStock(ctx context.Context, name string) (int, error)
	Exists(ctx context.Context, name string) (bool, error)
	ListLowStock(ctx context.Context, threshold int) ([]ItemSummary, error)
	InvalidateItem(name string)
}

type aggregator struct {
	ledger ledger.Service
	cache  *summaryCache
}

// NewAggregator wires a summary aggregator over the ledger service.
func NewAggregator(ledgerSvc ledger.Service) (Aggregator, error) {
	if ledgerSvc == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	return &aggregator{ledger: ledgerSvc, cache: newSummaryCache()}, nil
}

// Summary folds the full event stream. Items appear in first-event order.
// Generations are snapshotted before the read so an item invalidated while
// the fold is in flight keeps its cache entry empty instead of taking the
// stale result.
func (a *aggregator) Summary(ctx context.Context) ([]ItemSummary, error) {
	gens := a.cache.snapshotGens()
	events, err := a.ledger.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	summaries := Fold(events)
	a.cache.putAll(summaries, gens)
	return summaries, nil
}

// CurrentStock returns the folded stock for the named item, matching
// case-insensitively on the trimmed name. Unknown items report zero.
func (a *aggregator) CurrentStock(ctx context.Context, name string) (int, error) {
	summary, ok, err := a.lookup(ctx, name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return summary.TotalStock, nil
}

// Exists reports whether any event stream exists for the named item.
func (a *aggregator) Exists(ctx context.Context, name string) (bool, error) {
	_, ok, err := a.lookup(ctx, name)
	return ok, err
}

// ListLowStock returns items at or below the threshold, lowest stock first.
func (a *aggregator) ListLowStock(ctx context.Context, threshold int) ([]ItemSummary, error) {
	summaries, err := a.Summary(ctx)
	if err != nil {
		return nil, err
	}

	low := make([]ItemSummary, 0)
	for _, s := range summaries {
		if s.TotalStock <= threshold {
			low = append(low, s)
		}
	}
	sort.SliceStable(low, func(i, j int) bool {
		return low[i].TotalStock < low[j].TotalStock
	})
	return low, nil
}

// InvalidateItem drops the cached summary for one item after its stream grows.
func (a *aggregator) InvalidateItem(name string) {
	a.cache.invalidate(itemKey(name))
}

func (a *aggregator) lookup(ctx context.Context, name string) (ItemSummary, bool, error) {
	key := itemKey(name)
	if key == "" {
		return ItemSummary{}, false, nil
	}

	if summary, ok := a.cache.get(key); ok {
		return summary, true, nil
	}

	summaries, err := a.Summary(ctx)
	if err != nil {
		return ItemSummary{}, false, err
	}
	for _, s := range summaries {
		if itemKey(s.Name) == key {
			return s, true, nil
		}
	}
	return ItemSummary{}, false, nil
}

// Fold collapses an ordered event stream into per-item summaries. Items keep
// the order of their first event. Expiry strings that fail to parse as
// DD-MM-YYYY are skipped; zero prices never move the min/max.
func Fold(events []models.InventoryEvent) []ItemSummary {
	type working struct {
		summary    ItemSummary
		expiry     time.Time
		hasExpiry  bool
		hasPrice   bool
		firstIndex int
	}

	byKey := make(map[string]*working)
	order := make([]string, 0)

	for _, event := range events {
		if strings.TrimSpace(event.ItemName) == "" {
			continue
		}
		key := itemKey(event.ItemName)
		w, ok := byKey[key]
		if !ok {
			w = &working{summary: ItemSummary{Name: event.ItemName}}
			byKey[key] = w
			order = append(order, key)
		}

		w.summary.TotalStock += event.DeltaQty

		if e := strings.TrimSpace(event.Expiry); e != "" {
			if parsed, err := time.Parse(expiryLayout, e); err == nil {
				if !w.hasExpiry || parsed.Before(w.expiry) {
					w.expiry = parsed
					w.hasExpiry = true
				}
			}
		}

		if event.Price.IsPositive() {
			if !w.hasPrice {
				w.summary.MinPrice = event.Price
				w.summary.MaxPrice = event.Price
				w.hasPrice = true
			} else {
				if event.Price.LessThan(w.summary.MinPrice) {
					w.summary.MinPrice = event.Price
				}
				if event.Price.GreaterThan(w.summary.MaxPrice) {
					w.summary.MaxPrice = event.Price
				}
			}
		}
	}

	summaries := make([]ItemSummary, 0, len(order))
	for _, key := range order {
		w := byKey[key]
		if w.hasExpiry {
			w.summary.EarliestExpiry = w.expiry.Format(expiryLayout)
		}
		summaries = append(summaries, w.summary)
	}
	return summaries
}

func itemKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
