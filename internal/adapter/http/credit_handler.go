package http

import (
	"net/http"

	"p2p-lending-backend/internal/adapter/middleware"
	"p2p-lending-backend/internal/usecase/credit"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type CreditHandler struct {
	uc  *credit.Usecase
	log *logrus.Logger
}

func NewCreditHandler(uc *credit.Usecase, log *logrus.Logger) *CreditHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CreditHandler{uc: uc, log: log}
}

type creditHistoryReq struct {
	UserID string `param:"user_id" json:"-" validate:"required,max=32"`
}

type clientScoreReq struct {
	Event string `json:"event" validate:"required,oneof=application repayment"`
	Late  bool   `json:"late"`
}

func (h *CreditHandler) History(c echo.Context) error {
	var req creditHistoryReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	out, err := h.uc.History(c.Request().Context(), req.UserID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

// AdjustOwnScore applies the dashboard scoring rules to the caller's score.
func (h *CreditHandler) AdjustOwnScore(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	var req clientScoreReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	out, err := h.uc.AdjustClientScore(c.Request().Context(), credit.AdjustInput{
		BorrowerID: actor.ID,
		Event:      credit.ClientEvent(req.Event),
		Late:       req.Late,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}
