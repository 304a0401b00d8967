package credit

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	domain "p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/domain/uow"
	"p2p-lending-backend/internal/domain/user"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ClientEvent names the customer-side action a client score adjustment
// follows.
type ClientEvent string

const (
	ClientApplication ClientEvent = "application"
	ClientRepayment   ClientEvent = "repayment"
)

type AdjustInput struct {
	BorrowerID string
	Event      ClientEvent
	// Late only applies to repayments.
	Late bool
}

type ScoreDTO struct {
	UserID      string `json:"user_id"`
	CreditScore int    `json:"credit_score"`
}

type HistoryPointDTO struct {
	Date            time.Time        `json:"date"`
	LoanID          string           `json:"loan_id"`
	CreditScore     int              `json:"credit_score"`
	RepaymentAmount *decimal.Decimal `json:"repayment_amount,omitempty"`
}

type HistoryDTO struct {
	UserID      string            `json:"user_id"`
	CreditScore int               `json:"credit_score"`
	NetWorth    decimal.Decimal   `json:"net_worth"`
	History     []HistoryPointDTO `json:"history"`
}

type Usecase struct {
	users user.Repository
	loans domain.Repository
	uow   uow.UnitOfWork
	log   *logrus.Logger
}

func NewUsecase(users user.Repository, loans domain.Repository, tx uow.UnitOfWork, log *logrus.Logger) *Usecase {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Usecase{users: users, loans: loans, uow: tx, log: log}
}

// AdjustClientScore persists the dashboard's optimistic score change. The
// read and the write share one transaction.
func (u *Usecase) AdjustClientScore(ctx context.Context, in AdjustInput) (*ScoreDTO, error) {
	if in.Event != ClientApplication && in.Event != ClientRepayment {
		return nil, fmt.Errorf("%w: event must be application or repayment", domain.ErrValidation)
	}
	var from, to int
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		b, err := borrower(ctx, r.Users, in.BorrowerID)
		if err != nil {
			return err
		}
		from = b.CreditScore
		if in.Event == ClientApplication {
			to = OnApplicationClient(from)
		} else {
			to = OnRepaymentClient(from, in.Late)
		}
		return r.Users.UpdateCreditScore(ctx, b.UserID, to)
	})
	if err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{
		"user_id": in.BorrowerID, "event": in.Event, "from": from, "to": to,
	}).Info("client credit score adjusted")
	return &ScoreDTO{UserID: in.BorrowerID, CreditScore: to}, nil
}

// History rebuilds a score timeline from the borrower's repayments, oldest
// first. Loans without repayments contribute one point at the base score.
func (u *Usecase) History(ctx context.Context, borrowerID string) (*HistoryDTO, error) {
	b, err := borrower(ctx, u.users, borrowerID)
	if err != nil {
		return nil, err
	}
	loans, err := u.loans.List(ctx, domain.Filter{CustomerID: b.UserID, WithRepayments: true})
	if err != nil {
		return nil, err
	}

	base := b.CreditScore
	if base == 0 {
		base = MinScore
	}
	out := &HistoryDTO{UserID: b.UserID, CreditScore: b.CreditScore, NetWorth: b.NetWorth, History: []HistoryPointDTO{}}
	for i := range loans {
		l := &loans[i]
		if len(l.Repayments) == 0 {
			out.History = append(out.History, HistoryPointDTO{Date: l.CreatedAt, LoanID: l.LoanID, CreditScore: base})
			continue
		}
		for _, r := range l.Repayments {
			amount := r.Amount
			out.History = append(out.History, HistoryPointDTO{
				Date:            r.PaidAt,
				LoanID:          l.LoanID,
				CreditScore:     HistoryPoint(base, r.Amount),
				RepaymentAmount: &amount,
			})
		}
	}
	sort.SliceStable(out.History, func(i, j int) bool { return out.History[i].Date.Before(out.History[j].Date) })
	return out, nil
}

func borrower(ctx context.Context, users user.Repository, id string) (*user.User, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: user_id is required", domain.ErrValidation)
	}
	b, err := users.GetByUserID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrNotFound
	}
	return b, err
}
