package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	domainerrors "authsvc/internal/domain/errors"
	"authsvc/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// InternalHandler holds dependencies for service-to-service endpoints.
// Its routes sit behind the internal-call gate middleware.
type InternalHandler struct {
	uc     usecase.AuthUsecase
	logger *slog.Logger
}

// NewInternalHandler is the constructor for InternalHandler, injected by Fx.
func NewInternalHandler(uc usecase.AuthUsecase, logger *slog.Logger) *InternalHandler {
	return &InternalHandler{
		uc:     uc,
		logger: logger,
	}
}

// DeleteCredential removes a credential by id on behalf of a sibling service.
func (h *InternalHandler) DeleteCredential(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("id must be an integer"))
	}

	if err := h.uc.DeleteCredential(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
