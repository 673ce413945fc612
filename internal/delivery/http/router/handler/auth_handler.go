// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"authsvc/internal/delivery/http/response"
	domainerrors "authsvc/internal/domain/errors"
	"authsvc/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const birthDateLayout = "2006-01-02"

// AuthHandler holds dependencies for the authentication handlers.
type AuthHandler struct {
	uc     usecase.AuthUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		uc:     uc,
		logger: logger,
	}
}

// registerRequest is the wire shape of a registration call.
type registerRequest struct {
	Name      string `json:"name" validate:"required,max=50"`
	Surname   string `json:"surname" validate:"required,max=50"`
	BirthDate string `json:"birthDate" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=5,max=255"`
	// Role is classified by the orchestrator, not the validator, so an
	// unknown value yields the dedicated role error rather than a generic 400.
	Role string `json:"role"`
}

// loginRequest is the wire shape of a login call.
type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// refreshRequest is the wire shape of a token refresh call.
type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// tokenPairResponse carries a freshly issued token pair.
type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Register handles the registration request.
func (h *AuthHandler) Register(c echo.Context) error {
	var input registerRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	birthDate, err := parseBirthDate(input.BirthDate)
	if err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Register(c.Request().Context(), usecase.RegisterInput{
		Name:      input.Name,
		Surname:   input.Surname,
		BirthDate: birthDate,
		Email:     input.Email,
		Password:  input.Password,
		Role:      input.Role,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toTokenPairResponse(output), "Registered successfully")
}

// Login handles the login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var input loginRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toTokenPairResponse(output), "Login successful")
}

// Refresh handles the token refresh request.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var input refreshRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid refresh input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Refresh(c.Request().Context(), input.RefreshToken)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toTokenPairResponse(output), "Token refreshed successfully")
}

// Validate reports whether the presented token is currently valid.
// The endpoint always answers 200; the verdict is in the body.
func (h *AuthHandler) Validate(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("token query parameter is required"))
	}

	valid := h.uc.Validate(c.Request().Context(), token)

	return response.Success(c, http.StatusOK, map[string]bool{"valid": valid}, "Token validated")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}

func toTokenPairResponse(output *usecase.TokenPairOutput) tokenPairResponse {
	return tokenPairResponse{
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
	}
}

// parseBirthDate parses the wire date and requires it to lie in the past.
func parseBirthDate(raw string) (time.Time, error) {
	birthDate, err := time.Parse(birthDateLayout, raw)
	if err != nil {
		return time.Time{}, domainerrors.ErrValidationFailed.WithDetails("birthDate must be formatted as YYYY-MM-DD")
	}
	if !birthDate.Before(time.Now()) {
		return time.Time{}, domainerrors.ErrValidationFailed.WithDetails("birthDate must be in the past")
	}

	return birthDate, nil
}
