package service

import (
	stderrors "errors"
	"fmt"

	pkgerrors "github.com/honeynil/kapitalist/pkg/errors"
)

// domainErrors reach the handlers untouched. Anything else is reported as
// ErrInternal so storage details never leak to clients.
var domainErrors = []error{
	pkgerrors.ErrUserNotFound,
	pkgerrors.ErrWalletNotFound,
	pkgerrors.ErrCategoryNotFound,
	pkgerrors.ErrTransactionNotFound,
	pkgerrors.ErrEmailExists,
	pkgerrors.ErrUsernameExists,
	pkgerrors.ErrCategoryInUse,
	pkgerrors.ErrEmptyUpdate,
	pkgerrors.ErrInvalidInput,
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	for _, target := range domainErrors {
		if stderrors.Is(err, target) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", pkgerrors.ErrInternal, err)
}

func result[T any](v T, err error) (T, error) {
	if err != nil {
		var zero T
		return zero, translate(err)
	}
	return v, nil
}
