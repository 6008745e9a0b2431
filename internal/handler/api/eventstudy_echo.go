package api

import (
	"errors"
	"time"

	models "MacroPulse/internal/domain/models"
	domrepo "MacroPulse/internal/domain/repository"
	"MacroPulse/internal/usecase"
	xhttp "MacroPulse/pkg/http"
	xlogger "MacroPulse/pkg/logger"
	"MacroPulse/pkg/util"

	"github.com/labstack/echo/v4"
)

// EventStudyHandler implements the Echo-based HTTP surface of the study.
type EventStudyHandler struct {
	logger    *xlogger.Logger
	registry  domrepo.EventRegistry
	aggregate *usecase.ReactionAggregateUseCase
	risk      *usecase.RiskReportUseCase
	corr      *usecase.CorrelationUseCase
	history   *usecase.HistoryUseCase
}

func NewEventStudyHandler(
	logger *xlogger.Logger,
	registry domrepo.EventRegistry,
	aggregate *usecase.ReactionAggregateUseCase,
	risk *usecase.RiskReportUseCase,
	corr *usecase.CorrelationUseCase,
	history *usecase.HistoryUseCase,
) *EventStudyHandler {
	return &EventStudyHandler{
		logger:    logger,
		registry:  registry,
		aggregate: aggregate,
		risk:      risk,
		corr:      corr,
		history:   history,
	}
}

func (h *EventStudyHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/reaction", h.Reaction)
	g.GET("/regimes", h.Regimes)
	g.GET("/var", h.VaR)
	g.GET("/stress", h.Stress)
	g.GET("/correlation", h.Correlation)
	g.GET("/history", h.History)
}

func (h *EventStudyHandler) Reaction(c echo.Context) error {
	req := &models.ReactionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	date, _ := time.Parse(util.DateOnly, req.Event)

	event, ok := h.registry.Lookup(date)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no event on %s", req.Event))
	}

	res, err := h.aggregate.GetEventStudy(c.Request().Context(), event)
	if err != nil {
		h.logger.Error("reaction usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *EventStudyHandler) Regimes(c echo.Context) error {
	req := &models.RegimesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.risk.GetRegimes(c.Request().Context(), req.Days)
	if err != nil {
		h.logger.Error("regimes usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

func (h *EventStudyHandler) VaR(c echo.Context) error {
	req := &models.VaRRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.risk.GetRegimeVaR(c.Request().Context(), req.Ticker, models.RegimeLabel(req.Regime), req.Days)
	if err != nil {
		if errors.Is(err, models.ErrInsufficientSample) {
			return xhttp.AppErrorResponse(c,
				xhttp.UnprocessableError("sample too small for a stable estimate").
					WithParam("regime", req.Regime).
					WithParam("observations", res.Observations))
		}
		h.logger.Error("var usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *EventStudyHandler) Stress(c echo.Context) error {
	req := &models.StressRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	date, _ := time.Parse(util.DateOnly, req.Event)

	if _, ok := h.registry.Lookup(date); !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no event on %s", req.Event))
	}

	res, err := h.risk.GetStress(c.Request().Context(), date, req.Multiplier)
	if err != nil {
		h.logger.Error("stress usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *EventStudyHandler) Correlation(c echo.Context) error {
	req := &models.CorrelationRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.corr.GetCorrelation(c.Request().Context(), usecase.CorrelationParams{
		AssetA:    req.AssetA,
		AssetB:    req.AssetB,
		Window:    req.Window,
		Threshold: req.Thresh,
	})
	if err != nil {
		if errors.Is(err, models.ErrInsufficientSample) {
			return xhttp.AppErrorResponse(c, xhttp.UnprocessableError(err.Error()))
		}
		h.logger.Error("correlation usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *EventStudyHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.history.GetHistory(c.Request().Context(), usecase.GetHistoryParams{
		Ticker: req.Ticker,
		Limit:  req.Limit,
	})
	if err != nil {
		h.logger.Error("history usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}
