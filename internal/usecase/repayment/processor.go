package repayment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"p2p-lending-backend/internal/domain/event"
	domain "p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/domain/profit"
	"p2p-lending-backend/internal/domain/uow"
	"p2p-lending-backend/internal/domain/user"
	"p2p-lending-backend/internal/usecase/credit"
	loanuc "p2p-lending-backend/internal/usecase/loan"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ProfitBooker books settled interest inside the caller's transaction.
type ProfitBooker interface {
	BookProfit(ctx context.Context, repo profit.Repository, l *domain.Loan, amount decimal.Decimal, at time.Time) error
}

type RepayInput struct {
	LoanID  string
	PayerID string
	Amount  decimal.Decimal
	// LenderID is optional; when set it must match the loan's lender.
	LenderID string
}

type Processor struct {
	uow    uow.UnitOfWork
	profit ProfitBooker
	sink   event.Sink
	log    *logrus.Logger
}

func NewProcessor(tx uow.UnitOfWork, booker ProfitBooker, sink event.Sink, log *logrus.Logger) *Processor {
	if sink == nil {
		sink = event.Discard{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Processor{uow: tx, profit: booker, sink: sink, log: log}
}

// Repay applies one payment against a loan. The amount due is recomputed from
// the locked row: interest is charged on whatever is still outstanding, and
// the loan completes once repaid reaches that total.
func (p *Processor) Repay(ctx context.Context, in RepayInput) (*loanuc.LoanDTO, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}

	var (
		out      *domain.Loan
		interest decimal.Decimal
		score    int
	)
	err := p.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domain.Loan) error {
		if !l.Status.IsOpen() {
			return fmt.Errorf("%w: loan is %s", domain.ErrInvalidTransition, l.Status)
		}
		if l.CustomerID != in.PayerID {
			return domain.ErrForbidden
		}
		if in.LenderID != "" && in.LenderID != l.Lender() {
			return fmt.Errorf("%w: invalid lender for this loan", domain.ErrValidation)
		}

		interest = l.InterestDue()
		totalDue := l.TotalDue()
		if in.Amount.GreaterThan(totalDue) {
			return fmt.Errorf("%w: amount due is %s", domain.ErrExceedsDue, totalDue.StringFixed(2))
		}

		now := time.Now().UTC()
		rp := domain.Repayment{LoanID: l.ID, Amount: in.Amount, PaidAt: now}
		if err := r.Loans.AppendRepayment(ctx, &rp); err != nil {
			return err
		}
		l.Repayments = append(l.Repayments, rp)
		l.RepaidTotal = l.RepaidTotal.Add(in.Amount)

		if l.RepaidTotal.GreaterThanOrEqual(totalDue) {
			l.Status = domain.StatusCompleted
			l.StatusUpdatedAt = now
			if err := p.profit.BookProfit(ctx, r.Profits, l, interest, now); err != nil {
				return err
			}
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		var err error
		score, err = rescore(ctx, r.Users, l.CustomerID, in.Amount)
		if err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	fields := logrus.Fields{
		"loan_id": out.LoanID, "amount": in.Amount.String(), "repaid": out.RepaidTotal.String(), "status": out.Status,
	}
	if score > 0 {
		fields["credit_score"] = score
	}
	p.log.WithFields(fields).Info("repayment applied")
	p.sink.Emit(ctx, event.Event{
		Type:    event.TypeLoanPayment,
		Message: fmt.Sprintf("Payment of M%s made for loan %s", in.Amount.StringFixed(2), out.LoanID),
		UserID:  out.CustomerID,
		Payload: map[string]any{
			"loan_id": out.LoanID, "amount": in.Amount.String(), "status": string(out.Status),
			"completed": out.Status == domain.StatusCompleted, "interest": interest.String(),
		},
		OccurredAt: time.Now().UTC(),
	})
	return loanuc.ToDTO(out), nil
}

// rescore applies the server-side scoring formula. A borrower row that has
// gone missing leaves the payment standing and returns a zero score.
func rescore(ctx context.Context, users user.Repository, customerID string, amount decimal.Decimal) (int, error) {
	b, err := users.GetByUserID(ctx, customerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	score := credit.OnRepaymentServer(b.NetWorth, amount)
	if err := users.UpdateCreditScore(ctx, customerID, score); err != nil {
		return 0, err
	}
	return score, nil
}
