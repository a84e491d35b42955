package api

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/models"
	"github.com/Dheeraj-Sharma-gif/WeFn/internal/usecase"
	xhttp "github.com/Dheeraj-Sharma-gif/WeFn/pkg/http"
	xlogger "github.com/Dheeraj-Sharma-gif/WeFn/pkg/logger"
)

// DashboardHandler exposes the live dashboard engine: the polled
// widget collection, its layout and the provider advisory.
type DashboardHandler struct {
	logger *xlogger.Logger
	engine *usecase.Dashboard
}

func NewDashboardHandler(logger *xlogger.Logger, engine *usecase.Dashboard) *DashboardHandler {
	return &DashboardHandler{logger: logger, engine: engine}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/dashboard")
	g.GET("", h.Snapshot)
	g.POST("/widgets", h.AddWidget)
	g.DELETE("/widgets/:id", h.RemoveWidget)
	g.POST("/layout", h.MoveLayout)
	g.GET("/advisory", h.Advisory)
	g.DELETE("/advisory", h.DismissAdvisory)
}

func (h *DashboardHandler) Snapshot(c echo.Context) error {
	widgets, layout := h.engine.Snapshot()
	return xhttp.SuccessResponse(c, map[string]any{
		"widgets": widgets,
		"layout":  layout,
	})
}

func (h *DashboardHandler) AddWidget(c echo.Context) error {
	req := &models.CreateWidgetRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	w, err := h.engine.Add(c.Request().Context(), usecase.Draft{
		Name:        req.Name,
		Desc:        req.Desc,
		APIURL:      req.APIURL,
		RefreshSec:  req.RefreshSec,
		DisplayMode: req.DisplayMode,
		Config:      req.Config,
	})
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_VALIDATION", verr.Field, verr.Reason, 400))
		}
		return testErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, w)
}

func (h *DashboardHandler) RemoveWidget(c echo.Context) error {
	id := c.Param("id")
	if !h.engine.Remove(c.Request().Context(), id) {
		return xhttp.NotFoundResponse(c, "widget not found")
	}
	return xhttp.SuccessResponse(c, "removed")
}

func (h *DashboardHandler) MoveLayout(c echo.Context) error {
	req := &models.UpsertLayoutRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	h.engine.MoveLayout(c.Request().Context(), req.NewLayout)
	return xhttp.SuccessResponse(c, "layout saved")
}

func (h *DashboardHandler) Advisory(c echo.Context) error {
	msg, ok := h.engine.Advisory()
	return xhttp.SuccessResponse(c, map[string]any{
		"active":  ok,
		"message": msg,
	})
}

func (h *DashboardHandler) DismissAdvisory(c echo.Context) error {
	h.engine.DismissAdvisory()
	return xhttp.SuccessResponse(c, "dismissed")
}
