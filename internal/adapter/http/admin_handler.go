package http

import (
	"net/http"
	"strconv"

	"p2p-lending-backend/internal/adapter/events"
	"p2p-lending-backend/internal/adapter/middleware"
	"p2p-lending-backend/internal/usecase/interest"
	"p2p-lending-backend/internal/usecase/ledger"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// AdminHandler serves the rule table, the profit ledger and reports.
type AdminHandler struct {
	rules  *interest.Table
	ledger *ledger.Ledger
	notes  *events.Store
	log    *logrus.Logger
}

func NewAdminHandler(rules *interest.Table, lg *ledger.Ledger, notes *events.Store, log *logrus.Logger) *AdminHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AdminHandler{rules: rules, ledger: lg, notes: notes, log: log}
}

type addRuleReq struct {
	MinAmount  decimal.Decimal `json:"min_amount" validate:"decgte0,dec2"`
	MaxAmount  decimal.Decimal `json:"max_amount" validate:"decpos,dec2"`
	Rate       decimal.Decimal `json:"rate" validate:"decgte0"`
	TermMonths int             `json:"term_months" validate:"gte=1,lte=360"`
}

type adjustBalanceReq struct {
	Amount decimal.Decimal `json:"amount" validate:"dec2"`
}

func (h *AdminHandler) ListRules(c echo.Context) error {
	out, err := h.rules.List(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) AddRule(c echo.Context) error {
	var req addRuleReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.rules.Add(c.Request().Context(), interest.AddRuleInput(req))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *AdminHandler) Reports(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	out, err := h.ledger.Reports(c.Request().Context(), actor)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) DetailedReport(c echo.Context) error {
	out, err := h.ledger.DetailedReport(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) ProfitLoss(c echo.Context) error {
	out, err := h.ledger.ProfitLoss(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) Balance(c echo.Context) error {
	b, err := h.ledger.Balance(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, ledger.BalanceDTO{Balance: b})
}

// AdjustBalance answers with the adjusted figure; nothing is stored.
func (h *AdminHandler) AdjustBalance(c echo.Context) error {
	var req adjustBalanceReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	b, err := h.ledger.AdjustBalance(c.Request().Context(), req.Amount)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, ledger.BalanceDTO{Balance: b})
}

func (h *AdminHandler) Notifications(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	out, err := h.notes.Recent(c.Request().Context(), limit)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}
