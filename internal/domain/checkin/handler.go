package checkin

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
	g := api.Group("/checkins", auth.RequireRole("admin", "physician", "nurse"))
	g.GET("/", h.List)
	g.POST("/", h.Create)
	g.GET("/:id/", h.Get)
	g.PATCH("/:id/", h.Update)
	g.POST("/:id/set-status/", h.SetStatus)
	g.GET("/:id/history/", h.History)
}

func (h *Handler) Create(c echo.Context) error {
	var ci CheckIn
	if err := c.Bind(&ci); err != nil {
		return detail(c, http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &ci); err != nil {
		return detail(c, http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, ci)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid id")
	}
	ci, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, ci)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	activeOnly := c.QueryParam("active") != "false"
	items, total, err := h.svc.List(c.Request().Context(), activeOnly, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*CheckIn{}
	}
	return c.JSON(http.StatusOK, pagination.NewEnvelope(items, total, pg, c.Request().URL.Path))
}

type updateRequest struct {
	Room              string `json:"room"`
	AssignedStaffName string `json:"assigned_staff_name"`
	ProviderName      string `json:"provider_name"`
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid id")
	}
	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, err.Error())
	}
	ci, err := h.svc.UpdateDetails(c.Request().Context(), id, req.Room, req.AssignedStaffName, req.ProviderName)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, ci)
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) SetStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid id")
	}
	var req setStatusRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, err.Error())
	}
	ci, err := h.svc.SetStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, ci)
}

func (h *Handler) History(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid id")
	}
	events, err := h.svc.History(c.Request().Context(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	if events == nil {
		events = []*StatusEvent{}
	}
	return c.JSON(http.StatusOK, events)
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
