package identity

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the login endpoint. It sits outside the JWT
// middleware: it is how tokens are obtained.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/auth/token/", h.Token)
}

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Clinic   string `json:"clinic"`
}

func (h *Handler) Token(c echo.Context) error {
	var req tokenRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": err.Error()})
	}

	token, u, err := h.svc.Login(c.Request().Context(), req.Username, req.Password)
	if err == ErrInvalidCredentials {
		return c.JSON(http.StatusUnauthorized, map[string]string{"detail": ErrInvalidCredentials.Error()})
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, tokenResponse{
		Token:    token,
		UserID:   u.ID.String(),
		Username: u.Username,
		FullName: u.FullName,
		Role:     u.Role,
		Clinic:   u.ClinicID,
	})
}
