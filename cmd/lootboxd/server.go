package main

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fisher821/opensea-erc1155/core/events"
	"github.com/fisher821/opensea-erc1155/core/types"
	"github.com/fisher821/opensea-erc1155/gateway/middleware"
	"github.com/fisher821/opensea-erc1155/native/lootbox"
	"github.com/fisher821/opensea-erc1155/observability"
	"github.com/fisher821/opensea-erc1155/storage"
)

type server struct {
	engine  *lootbox.Engine
	catalog *lootbox.Catalog
	ledger  *storage.TokenLedger
	metrics *observability.LootboxMetrics
	logger  *slog.Logger
}

func (s *server) router(limiter *middleware.RateLimiter) http.Handler {
	r := chi.NewRouter()
	if limiter != nil {
		r.Use(limiter.Middleware)
	}
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/v1/options/{id}", s.handleOption)
	r.Post("/v1/open", s.handleOpen)
	r.Post("/v1/approvals", s.handleApproval)
	return r
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleOption(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(req, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid option id")
		return
	}
	opt, err := s.catalog.Option(lootbox.OptionID(id))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, opt)
}

type openRequest struct {
	Option uint32 `json:"option"`
	Boxes  uint32 `json:"boxes"`
	Buyer  string `json:"buyer"`
	Caller string `json:"caller"`
}

type openResponse struct {
	RequestID string        `json:"requestId"`
	Option    uint32        `json:"option"`
	Buyer     string        `json:"buyer"`
	Boxes     uint32        `json:"boxes"`
	Tally     lootbox.Tally `json:"tally"`
	Total     uint64        `json:"total"`
	Digest    string        `json:"digest"`
}

func (s *server) handleOpen(w http.ResponseWriter, req *http.Request) {
	var body openRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	buyer, ok := parseAddress(body.Buyer)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid buyer address")
		return
	}
	caller, ok := parseAddress(body.Caller)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid caller address")
		return
	}

	option := strconv.FormatUint(uint64(body.Option), 10)
	started := time.Now()
	receipt, err := s.engine.Open(lootbox.OpenRequest{
		Option: lootbox.OptionID(body.Option),
		Boxes:  body.Boxes,
		Buyer:  buyer,
		Caller: caller,
	})
	elapsed := time.Since(started).Seconds()
	if err != nil {
		s.metrics.ObserveOpen(option, "error", 0, elapsed)
		s.logger.Warn("open dispatch failed", "option", option, "error", err)
		writeError(w, statusForError(err), err.Error())
		return
	}
	s.metrics.ObserveOpen(option, "ok", receipt.Total, elapsed)

	digest, err := receipt.Digest()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, openResponse{
		RequestID: receipt.RequestID,
		Option:    uint32(receipt.Option),
		Buyer:     receipt.Buyer.Hex(),
		Boxes:     receipt.Boxes,
		Tally:     receipt.Tally,
		Total:     receipt.Total,
		Digest:    hex.EncodeToString(digest[:]),
	})
}

type approvalRequest struct {
	Owner    string `json:"owner"`
	Operator string `json:"operator"`
	Approved bool   `json:"approved"`
}

func (s *server) handleApproval(w http.ResponseWriter, req *http.Request) {
	var body approvalRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	owner, ok := parseAddress(body.Owner)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid owner address")
		return
	}
	operator, ok := parseAddress(body.Operator)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid operator address")
		return
	}
	if err := s.ledger.SetApprovalForAll(owner, operator, body.Approved); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"approved": body.Approved})
}

func parseAddress(raw string) (common.Address, bool) {
	if !common.IsHexAddress(raw) {
		return common.Address{}, false
	}
	return common.HexToAddress(raw), true
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, lootbox.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, lootbox.ErrInvalidOption):
		return http.StatusNotFound
	case errors.Is(err, lootbox.ErrInvalidQuantity):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// logEmitter forwards engine events to the structured log so every dispatch
// leaves an auditable trace even without an external event sink.
type logEmitter struct {
	logger *slog.Logger
}

func (e logEmitter) Emit(evt events.Event) {
	if e.logger == nil || evt == nil {
		return
	}
	args := []any{"type", evt.EventType()}
	if carrier, ok := evt.(interface{ Event() *types.Event }); ok {
		for key, value := range carrier.Event().Attributes {
			args = append(args, key, value)
		}
	}
	e.logger.Info("engine event", args...)
}
