// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"taskflow/internal/delivery/http/response"
	"taskflow/internal/domain/entity"
	"taskflow/internal/domain/service"
	"taskflow/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler holds dependencies for the authentication endpoints.
type AuthHandler struct {
	authUC     usecase.AuthUsecase
	tokenUC    usecase.TokenUsecase
	clientInfo service.ClientInfoExtractor
	logger     *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(authUC usecase.AuthUsecase, tokenUC usecase.TokenUsecase, clientInfo service.ClientInfoExtractor, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUC:     authUC,
		tokenUC:    tokenUC,
		clientInfo: clientInfo,
		logger:     logger,
	}
}

type registerRequest struct {
	FirstName string `json:"firstName" validate:"required,alphaspace,min=2,max=100"`
	LastName  string `json:"lastName" validate:"required,alphaspace,min=2,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,password"`
	Role      string `json:"role" validate:"omitempty,oneof=user admin guest"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type verifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

type userResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type registerResponse struct {
	User              userResponse `json:"user"`
	VerificationToken string       `json:"verificationToken"`
}

type loginResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"`
	ExpiresIn   int64        `json:"expiresIn"`
	User        userResponse `json:"user"`
}

// Register handles the account registration request.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err.Error())
	}

	output, err := h.authUC.Register(c.Request().Context(), usecase.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      entity.Role(req.Role),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	// The verification token is returned in the response body; the system
	// does not send mail itself.
	return response.Success(c, http.StatusCreated, registerResponse{
		User:              toUserResponse(output.User),
		VerificationToken: output.VerificationToken,
	}, "User registered successfully")
}

// Login handles the login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err.Error())
	}

	info := h.clientInfo.Extract(c.Request())

	output, err := h.authUC.Login(c.Request().Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Client: usecase.ClientContext{
			IP:        info.IP,
			UserAgent: info.UserAgent,
			Browser:   info.Browser,
			OS:        info.OS,
			Device:    info.Device,
		},
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, loginResponse{
		AccessToken: output.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   output.ExpiresIn,
		User:        toUserResponse(output.User),
	}, "Login successful")
}

// VerifyEmail handles email verification token consumption.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var req verifyEmailRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid verification input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err.Error())
	}

	output, err := h.tokenUC.VerifyEmail(c.Request().Context(), usecase.VerifyEmailInput{Token: req.Token})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{
		"userId": output.UserID.String(),
		"email":  output.Email,
	}, "Email verified successfully")
}

// Client echoes back the descriptors the service derives from the request.
// Useful for checking what a login attempt would record.
func (h *AuthHandler) Client(c echo.Context) error {
	info := h.clientInfo.Extract(c.Request())

	return response.Success(c, http.StatusOK, map[string]string{
		"ip":        info.IP,
		"userAgent": info.UserAgent,
		"browser":   info.Browser,
		"os":        info.OS,
		"device":    info.Device,
	}, "Client info extracted")
}

func toUserResponse(user *entity.User) userResponse {
	return userResponse{
		ID:        user.ID.String(),
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Role:      user.Role.String(),
		CreatedAt: user.CreatedAt,
	}
}
