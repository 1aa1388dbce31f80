package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/medpass/medpass/internal/logging"
	"github.com/medpass/medpass/internal/wire"
)

// HandlerFunc executes one skill invocation against a request payload.
type HandlerFunc func(ctx context.Context, payload map[string]any) (map[string]any, error)

// Server exposes one stage agent over HTTP: the agent card at CardPath and
// the message envelope endpoint at /messages. Both success and failure are
// HTTP 200; the envelope carries the outcome.
type Server struct {
	card     Card
	handlers map[string]HandlerFunc
	log      zerolog.Logger
}

// NewServer wires each skill id on the card to its handler.
func NewServer(card Card, handlers map[string]HandlerFunc) *Server {
	return &Server{
		card:     card,
		handlers: handlers,
		log:      logging.Component(card.Name),
	}
}

// Routes returns the handler tree for the agent endpoint.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+CardPath, s.handleCard)
	mux.HandleFunc("POST /messages", s.handleMessages)
	return mux
}

func (s *Server) handleCard(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.card); err != nil {
		s.log.Error().Err(err).Msg("write agent card")
	}
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.respond(w, wire.Fail("", wire.CodeInvalidRequest, "read request body", err.Error()))
		return
	}
	req, err := wire.DecodeRequest(body)
	if err != nil {
		s.respond(w, wire.Fail("", wire.CodeInvalidRequest, err.Error(), nil))
		return
	}

	handler := s.handlers[req.Capability]
	if handler == nil || !s.card.HasSkill(req.Capability) {
		s.respond(w, wire.Fail(req.MessageID, wire.CodeUnsupportedCapability,
			fmt.Sprintf("capability %q not supported", req.Capability), nil))
		return
	}

	s.log.Info().Str("capability", req.Capability).Str("message_id", req.MessageID).Msg("handling message")
	payload, err := handler(r.Context(), req.Payload)
	if err != nil {
		s.log.Error().Err(err).Str("capability", req.Capability).Msg("stage failed")
		s.respond(w, wire.Response{MessageID: req.MessageID, Error: wireError(err)})
		return
	}
	s.respond(w, wire.OK(req.MessageID, payload))
}

func (s *Server) respond(w http.ResponseWriter, resp wire.Response) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Error().Err(err).Msg("write response")
	}
}
