package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/honeynil/kapitalist/internal/models"
)

type createWalletRequest struct {
	Name    string  `json:"name"    validate:"required,max=64"`
	Balance int64   `json:"balance"`
	Color   *string `json:"color"   validate:"omitempty,max=32"`
}

type updateWalletRequest struct {
	Name           *string `json:"name"            validate:"omitempty,min=1,max=64"`
	CurrentBalance *int64  `json:"current_balance"`
	Color          *string `json:"color"           validate:"omitempty,max=32"`
}

func (h *Handler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req createWalletRequest
	if !h.decode(w, r, &req) {
		return
	}

	wallet, err := h.wallets.Create(r.Context(), &models.Wallet{
		UserID:         userID,
		Name:           req.Name,
		InitialBalance: req.Balance,
		Color:          req.Color,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeCreated(w, fmt.Sprintf("/wallet/%d", wallet.ID), wallet)
}

func (h *Handler) ListWallets(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	wallets, err := h.wallets.List(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wallets)
}

func (h *Handler) GetWallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	wallet, err := h.wallets.Get(r.Context(), id, userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

func (h *Handler) UpdateWallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req updateWalletRequest
	if !h.decode(w, r, &req) {
		return
	}

	wallet, err := h.wallets.Update(r.Context(), id, userID, models.WalletPatch{
		Name:           req.Name,
		CurrentBalance: req.CurrentBalance,
		Color:          req.Color,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

func (h *Handler) DeleteWallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.wallets.Delete(r.Context(), id, userID); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListWalletTransactions accepts optional RFC 3339 from and to query
// parameters bounding the transaction timestamps.
func (h *Handler) ListWalletTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var period models.TimeRange
	q := r.URL.Query()
	for name, dst := range map[string]*time.Time{"from": &period.From, "to": &period.To} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s: expected RFC 3339 timestamp", name))
			return
		}
		*dst = ts
	}

	txs, err := h.transactions.ListByWallet(r.Context(), id, userID, period)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}
