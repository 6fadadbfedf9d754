package form

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

// RegisterRoutes mounts every registry form under api. The route shapes are
// fixed by the form clients: trailing-slash collection and detail paths plus
// sign/lock/unlock actions.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	chart := api.Group("", auth.RequireRole("admin", "physician", "nurse"))
	for _, def := range Registry {
		def := def
		g := chart.Group("/" + def.Path)
		g.GET("/", h.list(def))
		g.POST("/", h.create(def))
		g.GET("/:id/", h.get(def))
		g.PATCH("/:id/", h.patch(def))
		g.POST("/:id/sign/", h.sign(def))
		if def.LockStyle == MultiSign {
			g.POST("/:id/lock/", h.lock(def))
		}
		if def.Unlockable {
			g.POST("/:id/unlock/", h.unlock(def))
		}
	}
}

func (h *Handler) list(def Definition) echo.HandlerFunc {
	return func(c echo.Context) error {
		pg := pagination.FromContext(c)

		var checkinID *uuid.UUID
		if raw := c.QueryParam("checkin"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return detail(c, http.StatusBadRequest, "invalid checkin")
			}
			checkinID = &id
		}

		items, total, err := h.svc.List(c.Request().Context(), def, checkinID, pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		results := make([]map[string]interface{}, 0, len(items))
		for _, rec := range items {
			results = append(results, def.Render(rec))
		}
		return c.JSON(http.StatusOK, pagination.NewEnvelope(results, total, pg, c.Request().URL.Path))
	}
}

type createRequest struct {
	Checkin uuid.UUID `json:"checkin"`
}

func (h *Handler) create(def Definition) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createRequest
		if err := c.Bind(&req); err != nil {
			return detail(c, http.StatusBadRequest, err.Error())
		}
		rec, created, err := h.svc.ResolveOrCreate(c.Request().Context(), def, req.Checkin)
		if err != nil {
			return h.writeError(c, err)
		}
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		return c.JSON(status, def.Render(rec))
	}
}

func (h *Handler) get(def Definition) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			return detail(c, http.StatusBadRequest, "invalid id")
		}
		rec, err := h.svc.Get(c.Request().Context(), def, id)
		if err != nil {
			return h.writeError(c, err)
		}
		return c.JSON(http.StatusOK, def.Render(rec))
	}
}

func (h *Handler) patch(def Definition) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			return detail(c, http.StatusBadRequest, "invalid id")
		}
		var patch map[string]interface{}
		if err := c.Bind(&patch); err != nil {
			return detail(c, http.StatusBadRequest, err.Error())
		}
		rec, err := h.svc.Patch(c.Request().Context(), def, id, patch)
		if err != nil {
			return h.writeError(c, err)
		}
		return c.JSON(http.StatusOK, def.Render(rec))
	}
}

func (h *Handler) sign(def Definition) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			return detail(c, http.StatusBadRequest, "invalid id")
		}
		var req SignRequest
		if err := c.Bind(&req); err != nil {
			return detail(c, http.StatusBadRequest, err.Error())
		}
		rec, err := h.svc.Sign(c.Request().Context(), def, id, req)
		if err != nil {
			return h.writeError(c, err)
		}
		return c.JSON(http.StatusOK, def.Render(rec))
	}
}

func (h *Handler) lock(def Definition) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			return detail(c, http.StatusBadRequest, "invalid id")
		}
		rec, err := h.svc.Lock(c.Request().Context(), def, id)
		if err != nil {
			return h.writeError(c, err)
		}
		return c.JSON(http.StatusOK, def.Render(rec))
	}
}

func (h *Handler) unlock(def Definition) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			return detail(c, http.StatusBadRequest, "invalid id")
		}
		rec, err := h.svc.Unlock(c.Request().Context(), def, id)
		if err != nil {
			return h.writeError(c, err)
		}
		return c.JSON(http.StatusOK, def.Render(rec))
	}
}

// writeError maps domain errors onto the error envelope the form clients
// parse. Lifecycle violations are 400s carrying the exact message text.
func (h *Handler) writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return detail(c, http.StatusNotFound, ErrNotFound.Error())
	case errors.Is(err, ErrSignedLocked),
		errors.Is(err, ErrAlreadySigned),
		errors.Is(err, ErrSignatureRequired),
		errors.Is(err, ErrFormLocked),
		errors.Is(err, ErrSignatureDataURL),
		errors.Is(err, ErrCheckinRequired),
		errors.Is(err, ErrCheckinNotFound):
		return detail(c, http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func detail(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"detail": msg})
}
