package handler

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/honeynil/kapitalist/internal/infrastructure/auth"
	service "github.com/honeynil/kapitalist/internal/services"
	pkgerrors "github.com/honeynil/kapitalist/pkg/errors"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	users        service.UserService
	wallets      service.WalletService
	categories   service.CategoryService
	transactions service.TransactionService
	validate     *validator.Validate
	logger       *zap.Logger
}

func NewHandler(
	users service.UserService,
	wallets service.WalletService,
	categories service.CategoryService,
	transactions service.TransactionService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		users:        users,
		wallets:      wallets,
		categories:   categories,
		transactions: transactions,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		logger:       logger.Named("handler"),
	}
}

func (h *Handler) RegisterPublicRoutes(r *mux.Router) {
	r.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/auth", h.Login).Methods(http.MethodPost)
}

// RegisterProtectedRoutes expects r to sit behind auth.AuthMiddleware.
func (h *Handler) RegisterProtectedRoutes(r *mux.Router) {
	r.HandleFunc("/me", h.Me).Methods(http.MethodGet)
	r.HandleFunc("/me", h.UpdateMe).Methods(http.MethodPut)

	r.HandleFunc("/wallet", h.CreateWallet).Methods(http.MethodPost)
	r.HandleFunc("/wallet/all", h.ListWallets).Methods(http.MethodGet)
	r.HandleFunc("/wallet/{id:[0-9]+}", h.GetWallet).Methods(http.MethodGet)
	r.HandleFunc("/wallet/{id:[0-9]+}", h.UpdateWallet).Methods(http.MethodPut)
	r.HandleFunc("/wallet/{id:[0-9]+}", h.DeleteWallet).Methods(http.MethodDelete)
	r.HandleFunc("/wallet/{id:[0-9]+}/transactions", h.ListWalletTransactions).Methods(http.MethodGet)

	r.HandleFunc("/category", h.CreateCategory).Methods(http.MethodPost)
	r.HandleFunc("/category/all", h.ListCategories).Methods(http.MethodGet)
	r.HandleFunc("/category/{id:[0-9]+}", h.GetCategory).Methods(http.MethodGet)
	r.HandleFunc("/category/{id:[0-9]+}", h.UpdateCategory).Methods(http.MethodPut)
	r.HandleFunc("/category/{id:[0-9]+}", h.DeleteCategory).Methods(http.MethodDelete)

	r.HandleFunc("/transaction", h.CreateTransaction).Methods(http.MethodPost)
	r.HandleFunc("/transaction/{id:[0-9]+}", h.GetTransaction).Methods(http.MethodGet)
	r.HandleFunc("/transaction/{id:[0-9]+}", h.UpdateTransaction).Methods(http.MethodPut)
	r.HandleFunc("/transaction/{id:[0-9]+}", h.DeleteTransaction).Methods(http.MethodDelete)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeCreated(w http.ResponseWriter, location string, v any) {
	w.Header().Set("Location", location)
	writeJSON(w, http.StatusCreated, v)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// fail maps a service error onto a status code. Unknown errors become a
// generic 500 and are logged with their cause.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case stderrors.Is(err, pkgerrors.ErrInvalidCredentials):
		h.writeError(w, http.StatusUnauthorized, err.Error())
	case stderrors.Is(err, pkgerrors.ErrUserNotFound),
		stderrors.Is(err, pkgerrors.ErrWalletNotFound),
		stderrors.Is(err, pkgerrors.ErrCategoryNotFound),
		stderrors.Is(err, pkgerrors.ErrTransactionNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case stderrors.Is(err, pkgerrors.ErrEmailExists),
		stderrors.Is(err, pkgerrors.ErrUsernameExists),
		stderrors.Is(err, pkgerrors.ErrCategoryInUse):
		h.writeError(w, http.StatusConflict, err.Error())
	case stderrors.Is(err, pkgerrors.ErrInvalidInput),
		stderrors.Is(err, pkgerrors.ErrEmptyUpdate):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, pkgerrors.ErrInternal.Error())
	}
}

// decode reads a single JSON object into dst and validates it. On failure the
// response is already written and false is returned.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.logger.Debug("failed to decode request body", zap.String("path", r.URL.Path), zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		h.writeError(w, http.StatusBadRequest, "request body must contain a single JSON object")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return "validation failed"
	}
	parts := make([]string, 0, len(verrs))
	for _, e := range verrs {
		if e.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", strings.ToLower(e.Field()), e.Tag(), e.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", strings.ToLower(e.Field()), e.Tag()))
		}
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, pkgerrors.ErrUnauthorized.Error())
	}
	return id, ok
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		h.writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
