package http

import (
	"net/http"

	"p2p-lending-backend/internal/adapter/middleware"
	"p2p-lending-backend/internal/domain/decision"
	"p2p-lending-backend/internal/usecase/loan"
	"p2p-lending-backend/internal/usecase/repayment"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type LoanHandler struct {
	uc    *loan.Usecase
	repay *repayment.Processor
	log   *logrus.Logger
}

func NewLoanHandler(uc *loan.Usecase, repay *repayment.Processor, log *logrus.Logger) *LoanHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LoanHandler{uc: uc, repay: repay, log: log}
}

type applyLoanReq struct {
	LenderID string          `json:"lender_id" validate:"required,max=32"`
	Amount   decimal.Decimal `json:"amount" validate:"decpos,dec2"`
}

type loanPathReq struct {
	LoanID string `param:"loan_id" json:"-" validate:"hex32"`
}

type decisionReq struct {
	LoanID   string `param:"loan_id" json:"-" validate:"hex32"`
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
}

type repayReq struct {
	LoanID   string          `param:"loan_id" json:"-" validate:"hex32"`
	Amount   decimal.Decimal `json:"amount" validate:"decpos,dec2"`
	LenderID string          `json:"lender_id" validate:"omitempty,max=32"`
}

func (h *LoanHandler) Apply(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	var req applyLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Apply(c.Request().Context(), loan.ApplyInput{
		CustomerID: actor.ID,
		LenderID:   req.LenderID,
		Amount:     req.Amount,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) List(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	out, err := h.uc.List(c.Request().Context(), actor)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) Get(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	var req loanPathReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Get(c.Request().Context(), req.LoanID, actor)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Decide(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	var req decisionReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Decide(c.Request().Context(), loan.DecideInput{
		LoanID:  req.LoanID,
		Outcome: decision.Outcome(req.Decision),
		Actor:   actor,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Repay(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	var req repayReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.repay.Repay(c.Request().Context(), repayment.RepayInput{
		LoanID:   req.LoanID,
		PayerID:  actor.ID,
		Amount:   req.Amount,
		LenderID: req.LenderID,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) MarkDefaulted(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	var req loanPathReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.MarkDefaulted(c.Request().Context(), req.LoanID, actor)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}
