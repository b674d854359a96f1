package api

import (
	"errors"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"MarketSnap/internal/domain/models"
	apimetrics "MarketSnap/internal/service/metrics"
	"MarketSnap/internal/service/ratelimit"
	"MarketSnap/internal/usecase"
	xhttp "MarketSnap/pkg/http"
	xlogger "MarketSnap/pkg/logger"
)

// DashboardEchoHandler serves the snapshot tables, chart series and PDF report.
type DashboardEchoHandler struct {
	logger  *xlogger.Logger
	uc      *usecase.DashboardUseCase
	limiter *ratelimit.Limiter
}

func NewDashboardEchoHandler(logger *xlogger.Logger, uc *usecase.DashboardUseCase, limiter *ratelimit.Limiter) *DashboardEchoHandler {
	apimetrics.Register()
	return &DashboardEchoHandler{logger: logger, uc: uc, limiter: limiter}
}

func (h *DashboardEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/tables", h.Tables)
	g.GET("/series/:class/:name", h.Series)
	g.GET("/catalog", h.Catalog)
	g.GET("/report", h.Report)
}

func (h *DashboardEchoHandler) Tables(c echo.Context) error {
	defer observe("tables", time.Now())
	req := &models.TablesRequest{Days: h.uc.DefaultDays()}
	if verr := xhttp.BindAndValidate(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.uc.Tables(c.Request().Context(), req.Options())
	if err != nil {
		return h.fail(c, "tables", err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardEchoHandler) Series(c echo.Context) error {
	defer observe("series", time.Now())
	req := &models.SeriesRequest{Days: h.uc.DefaultDays()}
	if verr := xhttp.BindAndValidate(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	// names such as EUR/USD arrive escaped
	name, err := url.PathUnescape(req.Name)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("invalid name %q", req.Name))
	}

	res, err := h.uc.Series(c.Request().Context(), models.AssetClass(req.Class), name, req.Days)
	if errors.Is(err, usecase.ErrUnknownInstrument) {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("%s %q is not in the catalog", req.Class, name))
	}
	if err != nil {
		return h.fail(c, "series", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardEchoHandler) Catalog(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.uc.Catalog())
}

func (h *DashboardEchoHandler) Report(c echo.Context) error {
	defer observe("report", time.Now())
	if h.limiter != nil && !h.limiter.Allow(c.RealIP()) {
		apimetrics.APIRateLimited.WithLabelValues("report").Inc()
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("report rate limit exceeded, retry later", h.limiter.RetryAfter()))
	}
	req := &models.ReportRequest{Days: h.uc.DefaultDays()}
	if verr := xhttp.BindAndValidate(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	snap, err := h.uc.Report(c.Request().Context(), req.Options())
	if err != nil {
		return h.fail(c, "report", err)
	}
	return xhttp.AttachmentResponse(c, "application/pdf", snap.FileName, snap.Data)
}

func (h *DashboardEchoHandler) fail(c echo.Context, endpoint string, err error) error {
	apimetrics.APIErrors.WithLabelValues(endpoint).Inc()
	h.logger.Error(endpoint+" usecase error", xlogger.Error(err))
	return xhttp.AppErrorResponse(c, xhttp.InternalError(endpoint+" failed").WithError(err))
}

func observe(endpoint string, start time.Time) {
	apimetrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}
