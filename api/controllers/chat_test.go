package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/pharmaline-backend/pkg/errors"
)

type fakeInterpreter struct {
	reply string
	err   error

	gotInput string
}

func (f *fakeInterpreter) Handle(ctx context.Context, input string) (string, error) {
	f.gotInput = input
	return f.reply, f.err
}

func postChat(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAdminChatReturnsReply(t *testing.T) {
	interp := &fakeInterpreter{reply: "Added 10 panadol. Now: 10"}
	rec := postChat(t, AdminChat(interp, nil), `{"message":"add 10 panadol expiring 14-12-2027"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if interp.gotInput != "add 10 panadol expiring 14-12-2027" {
		t.Fatalf("unexpected input %q", interp.gotInput)
	}

	var envelope struct {
		Data ChatResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	if envelope.Data.Reply != "Added 10 panadol. Now: 10" {
		t.Fatalf("unexpected reply %q", envelope.Data.Reply)
	}
}

func TestAdminChatRejectsMissingMessage(t *testing.T) {
	interp := &fakeInterpreter{}
	rec := postChat(t, AdminChat(interp, nil), `{}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if interp.gotInput != "" {
		t.Fatal("invalid body must not reach the interpreter")
	}
}

func TestAdminChatRejectsMalformedBody(t *testing.T) {
	rec := postChat(t, AdminChat(&fakeInterpreter{}, nil), `{"message":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAdminChatSurfacesLedgerFailure(t *testing.T) {
	interp := &fakeInterpreter{err: pkgerrors.Wrap(pkgerrors.CodeLedger, errors.New("db down"), "append failed")}
	rec := postChat(t, AdminChat(interp, nil), `{"message":"add 10 panadol expiring 14-12-2027"}`)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeLedger) {
		t.Fatalf("unexpected error code %q", envelope.Error.Code)
	}
}
