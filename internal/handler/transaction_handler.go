package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/honeynil/kapitalist/internal/models"
)

type createTransactionRequest struct {
	WalletID    int64      `json:"wallet_id"   validate:"required,gt=0"`
	CategoryID  int64      `json:"category_id" validate:"required,gt=0"`
	Amount      int64      `json:"amount"`
	Description *string    `json:"description" validate:"omitempty,max=256"`
	Ts          *time.Time `json:"ts"`
}

type updateTransactionRequest struct {
	CategoryID  *int64     `json:"category_id" validate:"omitempty,gt=0"`
	Amount      *int64     `json:"amount"`
	Description *string    `json:"description" validate:"omitempty,max=256"`
	Ts          *time.Time `json:"ts"`
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req createTransactionRequest
	if !h.decode(w, r, &req) {
		return
	}

	tx := &models.Transaction{
		WalletID:    req.WalletID,
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.Ts != nil {
		tx.Ts = req.Ts.UTC()
	}

	tx, err := h.transactions.Create(r.Context(), userID, tx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeCreated(w, fmt.Sprintf("/transaction/%d", tx.ID), tx)
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	tx, err := h.transactions.Get(r.Context(), id, userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req updateTransactionRequest
	if !h.decode(w, r, &req) {
		return
	}

	tx, err := h.transactions.Update(r.Context(), id, userID, models.TransactionPatch{
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Description: req.Description,
		Ts:          req.Ts,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.transactions.Delete(r.Context(), id, userID); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
