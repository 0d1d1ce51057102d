package market

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"MarketLedger/internal/auth"
	"MarketLedger/internal/ledger"
	"MarketLedger/pkg/kit"
)

// Domain error codes, on top of the generic ones in kit.
const (
	CodeMalformedPrice    = "malformed_price"
	CodeNotOwner          = "not_owner"
	CodePaymentMismatch   = "payment_mismatch"
	CodeInsufficientFunds = "insufficient_funds"
	CodeTransferFailed    = "transfer_failed"
)

const maxBodyBytes = 1 << 20

type Server struct {
	Market *Marketplace
	Ledger ledger.Ledger
	JWT    *auth.TokenMaker
	Log    *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/products", s.handleProducts)
	r.Get("/products/{id}", s.handleGet)

	r.Group(func(pr chi.Router) {
		pr.Use(RequireCaller(s.JWT))
		pr.Post("/products", s.handleList)
		pr.Post("/products/{id}/buy", s.handleBuy)
		pr.Get("/ledger/balance", s.handleBalance)
	})

	return r
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, kit.CodeUnauthorized, "no caller", nil)
		return
	}

	var req ListingRequest
	if err := decodeStrict(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, kit.CodeBadRequest, "bad json", nil)
		return
	}

	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" {
		kit.WriteError(w, r, http.StatusBadRequest, kit.CodeBadRequest, "id required", nil)
		return
	}

	it, err := s.Market.List(r.Context(), caller.Account, req)
	if err != nil {
		s.writeMarketError(w, r, err, req.ID)
		return
	}

	kit.WriteJSON(w, http.StatusCreated, it)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	it, ok, err := s.Market.Get(r.Context(), id)
	if err != nil {
		s.logErr("get product failed", err, id)
		kit.WriteError(w, r, http.StatusInternalServerError, kit.CodeInternal, "server error", nil)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, kit.CodeNotFound, "product not found", map[string]any{"id": id})
		return
	}

	kit.WriteJSON(w, http.StatusOK, it)
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	items, err := s.Market.Products(r.Context())
	if err != nil {
		s.logErr("list products failed", err, "")
		kit.WriteError(w, r, http.StatusInternalServerError, kit.CodeInternal, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, items)
}

type buyReq struct {
	Attached uint64 `json:"attached"`
}

func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, kit.CodeUnauthorized, "no caller", nil)
		return
	}

	var req buyReq
	if err := decodeStrict(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, kit.CodeBadRequest, "bad json", nil)
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.Market.Buy(r.Context(), caller.Account, id, req.Attached); err != nil {
		s.writeMarketError(w, r, err, id)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, kit.CodeUnauthorized, "no caller", nil)
		return
	}

	balance, err := s.Ledger.Balance(r.Context(), caller.Account)
	if err != nil {
		s.logErr("balance lookup failed", err, caller.Account)
		kit.WriteError(w, r, http.StatusInternalServerError, kit.CodeInternal, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, map[string]any{
		"account": caller.Account,
		"balance": balance,
	})
}

func (s *Server) writeMarketError(w http.ResponseWriter, r *http.Request, err error, id string) {
	switch {
	case errors.Is(err, ErrNotFound):
		kit.WriteError(w, r, http.StatusNotFound, kit.CodeNotFound, "product not found", map[string]any{"id": id})
	case errors.Is(err, ErrMalformedPrice):
		kit.WriteError(w, r, http.StatusBadRequest, CodeMalformedPrice, "price must be an unsigned integer", nil)
	case errors.Is(err, ErrNotOwner):
		kit.WriteError(w, r, http.StatusForbidden, CodeNotOwner, "listing is owned by another account", map[string]any{"id": id})
	case errors.Is(err, ErrPaymentMismatch):
		kit.WriteError(w, r, http.StatusPaymentRequired, CodePaymentMismatch, "attached payment must equal the listed price", map[string]any{"id": id})
	case errors.Is(err, ErrInsufficientFunds):
		kit.WriteError(w, r, http.StatusPaymentRequired, CodeInsufficientFunds, "insufficient funds", nil)
	case errors.Is(err, ErrTransferFailed):
		kit.WriteError(w, r, http.StatusInternalServerError, CodeTransferFailed, "transfer failed", nil)
	default:
		s.logErr("market operation failed", err, id)
		kit.WriteError(w, r, http.StatusInternalServerError, kit.CodeInternal, "server error", nil)
	}
}

func (s *Server) logErr(msg string, err error, id string) {
	if s.Log == nil {
		return
	}
	s.Log.Error(msg, zap.Error(err), zap.String("id", id))
}

func decodeStrict(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("extra data after json object")
	}
	return nil
}
