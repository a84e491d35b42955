package api

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/models"
	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/repository"
	"github.com/Dheeraj-Sharma-gif/WeFn/internal/usecase"
	xhttp "github.com/Dheeraj-Sharma-gif/WeFn/pkg/http"
	xlogger "github.com/Dheeraj-Sharma-gif/WeFn/pkg/logger"
)

// WidgetsHandler exposes the widget persistence surface plus the
// endpoint probe used during authoring. All routes require a session.
type WidgetsHandler struct {
	logger  *xlogger.Logger
	widgets repository.WidgetRepository
	tester  *usecase.Tester
	auth    *AuthHandler
}

func NewWidgetsHandler(
	logger *xlogger.Logger,
	widgets repository.WidgetRepository,
	tester *usecase.Tester,
	authh *AuthHandler,
) *WidgetsHandler {
	return &WidgetsHandler{logger: logger, widgets: widgets, tester: tester, auth: authh}
}

func (h *WidgetsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/widgets", h.auth.RequireSession())
	g.GET("", h.List)
	g.POST("", h.Create)
	g.DELETE("/:id", h.Delete)
	g.GET("/layout", h.Layout)
	g.POST("/layout", h.UpsertLayout)
	g.POST("/test", h.TestEndpoint)
}

func (h *WidgetsHandler) List(c echo.Context) error {
	u := SessionUser(c)
	widgets, err := h.widgets.ListByUser(c.Request().Context(), u.ID)
	if err != nil {
		h.logger.Error("list widgets failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, widgets)
}

func (h *WidgetsHandler) Create(c echo.Context) error {
	req := &models.CreateWidgetRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !req.DisplayMode.Valid() {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("unknown display mode "+string(req.DisplayMode)))
	}
	if err := models.ValidateBinding(req.DisplayMode, req.Config); err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_BINDING", verr.Field, verr.Reason, 400))
		}
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	}
	if req.RefreshSec <= 0 {
		req.RefreshSec = 1
	}

	u := SessionUser(c)
	w := &models.Widget{
		ID:          req.ID,
		Name:        req.Name,
		Desc:        req.Desc,
		APIURL:      req.APIURL,
		RefreshSec:  req.RefreshSec,
		DisplayMode: req.DisplayMode,
		Config:      req.Config,
		ParsedData:  req.ParsedData,
		RawData:     req.RawData,
		UserID:      u.ID,
		CreatedAt:   time.Now().UTC(),
	}
	if w.ID == "" {
		w.ID = uuid.NewString()
	}

	created, err := h.widgets.Create(c.Request().Context(), w)
	if err != nil {
		h.logger.Error("create widget failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.CreatedResponse(c, created)
}

func (h *WidgetsHandler) Delete(c echo.Context) error {
	widgetID := c.Param("id")
	if widgetID == "" {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("widget id is required"))
	}

	u := SessionUser(c)
	if err := h.widgets.Delete(c.Request().Context(), u.ID, widgetID); err != nil {
		h.logger.Error("delete widget failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, "deleted")
}

func (h *WidgetsHandler) Layout(c echo.Context) error {
	u := SessionUser(c)
	layout, err := h.widgets.Layout(c.Request().Context(), u.ID)
	if err != nil {
		h.logger.Error("load layout failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, layout)
}

func (h *WidgetsHandler) UpsertLayout(c echo.Context) error {
	req := &models.UpsertLayoutRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	u := SessionUser(c)
	if err := h.widgets.UpsertLayout(c.Request().Context(), u.ID, req.NewLayout); err != nil {
		h.logger.Error("upsert layout failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, "layout saved")
}

func (h *WidgetsHandler) TestEndpoint(c echo.Context) error {
	req := &models.TestEndpointRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.tester.Test(c.Request().Context(), req.APIURL)
	if err != nil {
		return testErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// testErrorResponse maps probe failures to client-facing statuses: bad
// URLs and unusable responses are the caller's problem, transport
// failures are the endpoint's.
func testErrorResponse(c echo.Context, err error) error {
	var (
		verr *models.ValidationError
		soft *models.SoftAPIError
		terr *models.TransportError
		perr *models.ParseError
	)
	switch {
	case errors.As(err, &verr):
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_VALIDATION", verr.Field, verr.Reason, 400))
	case errors.As(err, &soft):
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_ENDPOINT_UNUSABLE", "", soft.Reason, 422))
	case errors.As(err, &terr):
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_ENDPOINT_UNREACHABLE", "", terr.Error(), 502))
	case errors.As(err, &perr):
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_NO_RECORDS", "", "endpoint returned no usable records", 422))
	default:
		return xhttp.InternalServerErrorResponse(c)
	}
}
