package interpreter

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/angelmondragon/pharmaline-backend/internal/inventory"
	"github.com/angelmondragon/pharmaline-backend/internal/ledger"
	"github.com/angelmondragon/pharmaline-backend/pkg/db/models"
	"github.com/angelmondragon/pharmaline-backend/pkg/logger"
)

type fakeLedger struct {
	mu     sync.Mutex
	events []models.InventoryEvent
	nextID int64

	appendErr error
}

func (f *fakeLedger) Append(ctx context.Context, input ledger.AppendEventInput) (*models.InventoryEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	f.nextID++
	event := models.InventoryEvent{
		ID:       f.nextID,
		ItemName: input.ItemName,
		DeltaQty: input.DeltaQty,
		Price:    input.Price,
		Expiry:   input.Expiry,
	}
	f.events = append(f.events, event)
	return &event, nil
}

func (f *fakeLedger) ListAll(ctx context.Context) ([]models.InventoryEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.InventoryEvent, len(f.events))
	copy(out, f.events)
	return out, nil
}

func (f *fakeLedger) ListByName(ctx context.Context, name string) ([]models.InventoryEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.InventoryEvent
	for _, e := range f.events {
		if e.ItemName == name {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeClassifier struct {
	classifyOut string
	classifyErr error
	generateOut string
	generateErr error

	classifyCalls int
	generateCalls int
}

func (f *fakeClassifier) ClassifyCommand(ctx context.Context, input string) (string, error) {
	f.classifyCalls++
	return f.classifyOut, f.classifyErr
}

func (f *fakeClassifier) Generate(ctx context.Context, prompt string) (string, error) {
	f.generateCalls++
	return f.generateOut, f.generateErr
}

func newTestInterpreter(t *testing.T, fake *fakeLedger, classifier *fakeClassifier) Interpreter {
	t.Helper()

	agg, err := inventory.NewAggregator(fake)
	if err != nil {
		t.Fatalf("NewAggregator error: %v", err)
	}
	exec, err := inventory.NewExecutor(fake, agg)
	if err != nil {
		t.Fatalf("NewExecutor error: %v", err)
	}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	interp, err := NewInterpreter(exec, classifier, logg, nil)
	if err != nil {
		t.Fatalf("NewInterpreter error: %v", err)
	}
	return interp
}

func TestHandleBlankInput(t *testing.T) {
	classifier := &fakeClassifier{}
	interp := newTestInterpreter(t, &fakeLedger{}, classifier)

	for _, input := range []string{"", "   ", "\n\t"} {
		reply, err := interp.Handle(context.Background(), input)
		if err != nil {
			t.Fatalf("Handle error: %v", err)
		}
		if reply != EmptyInputReply {
			t.Fatalf("unexpected reply %q", reply)
		}
	}
	if classifier.classifyCalls != 0 {
		t.Fatal("blank input must not reach the classifier")
	}
}

func TestHandleFastPathSkipsClassifier(t *testing.T) {
	classifier := &fakeClassifier{}
	fake := &fakeLedger{}
	interp := newTestInterpreter(t, fake, classifier)

	reply, err := interp.Handle(context.Background(), "add 10 panadol expiring 14-12-2027")
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}
	if reply != "Added 10 panadol. Now: 10" {
		t.Fatalf("unexpected reply %q", reply)
	}
	if classifier.classifyCalls != 0 || classifier.generateCalls != 0 {
		t.Fatal("fast path input must not reach the classifier")
	}
	if len(fake.events) != 1 {
		t.Fatalf("expected one event, got %d", len(fake.events))
	}
}

func TestHandleClassifierPath(t *testing.T) {
	classifier := &fakeClassifier{
		classifyOut: "```json\n{\"action\":\"add\",\"name\":\"panadol\",\"quantity\":10,\"expiry\":\"2027-12-14\"}\n```",
	}
	fake := &fakeLedger{}
	interp := newTestInterpreter(t, fake, classifier)

	reply, err := interp.Handle(context.Background(), "please put ten boxes of panadol in, they expire december 14 2027")
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}
	if reply != "Added 10 panadol. Now: 10" {
		t.Fatalf("unexpected reply %q", reply)
	}
	if classifier.classifyCalls != 1 {
		t.Fatalf("expected one classify call, got %d", classifier.classifyCalls)
	}
	if classifier.generateCalls != 0 {
		t.Fatal("successful classification must not trigger repair")
	}
	if fake.events[0].Expiry != "14-12-2027" {
		t.Fatalf("expected normalized expiry, got %q", fake.events[0].Expiry)
	}
}

func TestHandleRepairPath(t *testing.T) {
	classifier := &fakeClassifier{
		classifyOut: "sorry, I can't produce JSON for that",
		generateOut: `{"action":"LOW_STOCK","quantity":3}`,
	}
	fake := &fakeLedger{events: []models.InventoryEvent{{ItemName: "aspirin", DeltaQty: 2}}}
	interp := newTestInterpreter(t, fake, classifier)

	reply, err := interp.Handle(context.Background(), "which meds are running out? say three or less")
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}
	if reply != "Low stock (<= 3):\n- aspirin: 2" {
		t.Fatalf("unexpected reply %q", reply)
	}
	if classifier.classifyCalls != 1 || classifier.generateCalls != 1 {
		t.Fatalf("expected classify=1 generate=1, got %d/%d", classifier.classifyCalls, classifier.generateCalls)
	}
}

func TestHandleUpstreamFailureTriggersRepair(t *testing.T) {
	classifier := &fakeClassifier{
		classifyErr: errors.New("upstream timeout"),
		generateOut: `{"action":"LIST"}`,
	}
	interp := newTestInterpreter(t, &fakeLedger{}, classifier)

	reply, err := interp.Handle(context.Background(), "show me everything")
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}
	if reply != "Inventory is empty." {
		t.Fatalf("unexpected reply %q", reply)
	}
	if classifier.generateCalls != 1 {
		t.Fatalf("expected repair after upstream failure, got %d calls", classifier.generateCalls)
	}
}

func TestHandleBothAttemptsFail(t *testing.T) {
	classifier := &fakeClassifier{
		classifyOut: "not json",
		generateOut: "still not json",
	}
	fake := &fakeLedger{}
	interp := newTestInterpreter(t, fake, classifier)

	reply, err := interp.Handle(context.Background(), "do the thing with the stuff")
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}
	if reply != ParseFailureReply {
		t.Fatalf("unexpected reply %q", reply)
	}
	// exactly one repair attempt, never more
	if classifier.classifyCalls != 1 || classifier.generateCalls != 1 {
		t.Fatalf("expected classify=1 generate=1, got %d/%d", classifier.classifyCalls, classifier.generateCalls)
	}
	if len(fake.events) != 0 {
		t.Fatal("failed interpretation must not touch the ledger")
	}
}

func TestHandleClassifiedUnknownReturnsHelp(t *testing.T) {
	classifier := &fakeClassifier{classifyOut: `{"action":"UNKNOWN"}`}
	interp := newTestInterpreter(t, &fakeLedger{}, classifier)

	reply, err := interp.Handle(context.Background(), "sing me a song")
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}
	if reply != inventory.HelpText {
		t.Fatalf("unexpected reply %q", reply)
	}
	if classifier.generateCalls != 0 {
		t.Fatal("UNKNOWN is a successful classification; no repair expected")
	}
}

func TestHandleLedgerFailureSurfacesError(t *testing.T) {
	classifier := &fakeClassifier{}
	fake := &fakeLedger{appendErr: errors.New("db down")}
	interp := newTestInterpreter(t, fake, classifier)

	if _, err := interp.Handle(context.Background(), "add 10 panadol expiring 14-12-2027"); err == nil {
		t.Fatal("expected ledger failure to surface as error")
	}
}

func TestHandleValidationFailureIsReplyNotError(t *testing.T) {
	classifier := &fakeClassifier{classifyOut: `{"action":"ADD","name":"panadol","quantity":10,"expiry":"2027/12/14"}`}
	interp := newTestInterpreter(t, &fakeLedger{}, classifier)

	reply, err := interp.Handle(context.Background(), "add panadol with a weird date")
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}
	if reply != "Expiry must be DD-MM-YYYY (e.g., 14-12-2027)." {
		t.Fatalf("unexpected reply %q", reply)
	}
}
