package controllers

import (
	"net/http"

	"github.com/angelmondragon/pharmaline-backend/api/responses"
	"github.com/angelmondragon/pharmaline-backend/api/validators"
	"github.com/angelmondragon/pharmaline-backend/internal/interpreter"
	"github.com/angelmondragon/pharmaline-backend/pkg/logger"
)

// ChatRequest is one free-text operator message.
type ChatRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

// ChatResponse carries the interpreter's reply.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// AdminChat handles POST /api/admin/v1/chat.
func AdminChat(interp interpreter.Interpreter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req ChatRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		reply, err := interp.Handle(ctx, req.Message)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, ChatResponse{Reply: reply})
	}
}
