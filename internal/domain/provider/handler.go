package provider

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/opforms/opforms/internal/platform/auth"
	"github.com/opforms/opforms/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("/providers", auth.RequireRole("admin", "physician", "nurse"))
	read.GET("/", h.List)
	read.GET("/:id/", h.Get)

	write := api.Group("/providers", auth.RequireRole("admin"))
	write.POST("/", h.Create)
	write.PATCH("/:id/", h.Update)
	write.DELETE("/:id/", h.Deactivate)
}

func (h *Handler) Create(c echo.Context) error {
	var p Provider
	if err := c.Bind(&p); err != nil {
		return detail(c, http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &p); err != nil {
		return detail(c, http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	activeOnly := c.QueryParam("active") != "false"
	items, total, err := h.svc.List(c.Request().Context(), activeOnly, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*Provider{}
	}
	return c.JSON(http.StatusOK, pagination.NewEnvelope(items, total, pg, c.Request().URL.Path))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid id")
	}
	existing, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	if err := c.Bind(existing); err != nil {
		return detail(c, http.StatusBadRequest, err.Error())
	}
	existing.ID = id
	if err := h.svc.Update(c.Request().Context(), existing); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, existing)
}

func (h *Handler) Deactivate(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.Deactivate(c.Request().Context(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) writeError(c echo.Context, err error) error {
	if errors.Is(err, ErrNotFound) {
		return detail(c, http.StatusNotFound, "Not found.")
	}
	return detail(c, http.StatusBadRequest, err.Error())
}

func detail(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"detail": msg})
}
