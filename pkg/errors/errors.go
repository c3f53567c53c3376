package errors

import (
	"errors"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrEmailExists         = errors.New("email already exists")
	ErrUsernameExists      = errors.New("username already exists")
	ErrNilUser             = errors.New("user is nil")
	ErrNilWallet           = errors.New("wallet is nil")
	ErrNilCategory         = errors.New("category is nil")
	ErrNilTransaction      = errors.New("transaction is nil")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidInput        = errors.New("invalid input")
	ErrEmptyUpdate         = errors.New("request has to contain at least one field to update")
	ErrCategoryInUse       = errors.New("category is referenced by transactions")
	ErrInternal            = errors.New("internal error")
)
