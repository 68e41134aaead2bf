package store

import (
	"errors"

	"github.com/mesh-intelligence/spectro/internal/gateway"
	"github.com/mesh-intelligence/spectro/internal/i18n"
	"github.com/mesh-intelligence/spectro/pkg/types"
)

// preconditions are failures detected before any request is sent; their
// text is shown as is.
var preconditions = []error{
	types.ErrNotAuthenticated,
	types.ErrForbidden,
	types.ErrInvalidTransition,
	types.ErrInvalidStatus,
	types.ErrInvalidAction,
	types.ErrInvalidData,
	types.ErrInvalidDate,
	types.ErrNoActiveCart,
}

// errorText renders err for a store's Error field: precondition text, the
// server-supplied message, or the localized fallback for code.
func errorText(err error, lang, code string) string {
	for _, p := range preconditions {
		if errors.Is(err, p) {
			return err.Error()
		}
	}
	return gateway.Message(err, i18n.T(lang, code))
}
