package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"p2p-lending-backend/internal/domain/decision"
	"p2p-lending-backend/internal/domain/event"
	domain "p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/domain/uow"
	"p2p-lending-backend/internal/domain/user"
	"p2p-lending-backend/pkg/id"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// limitMultiplier caps a loan at three times the borrower's net worth.
var limitMultiplier = decimal.NewFromInt(3)

// RateResolver maps a loan amount to its interest bracket.
type RateResolver interface {
	Resolve(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, int, error)
}

// Usecase owns the loan state machine: application, the approve/reject
// decision and default. Repayments live in the repayment package.
type Usecase struct {
	repo  domain.Repository
	users user.Repository
	rates RateResolver
	uow   uow.UnitOfWork
	sink  event.Sink
	log   *logrus.Logger
}

func NewUsecase(r domain.Repository, users user.Repository, rates RateResolver, tx uow.UnitOfWork, sink event.Sink, log *logrus.Logger) *Usecase {
	if sink == nil {
		sink = event.Discard{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Usecase{repo: r, users: users, rates: rates, uow: tx, sink: sink, log: log}
}

func (u *Usecase) Apply(ctx context.Context, in ApplyInput) (*LoanDTO, error) {
	switch {
	case in.CustomerID == "":
		return nil, fmt.Errorf("%w: customer_id is required", domain.ErrValidation)
	case in.LenderID == "":
		return nil, fmt.Errorf("%w: lender_id is required", domain.ErrValidation)
	case !in.Amount.IsPositive():
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}

	ok, err := u.users.LenderExists(ctx, in.LenderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: invalid lender", domain.ErrValidation)
	}

	borrower, err := u.users.GetByUserID(ctx, in.CustomerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: unknown borrower", domain.ErrValidation)
	}
	if err != nil {
		return nil, err
	}
	limit := borrower.NetWorth.Mul(limitMultiplier)
	if in.Amount.GreaterThan(limit) {
		return nil, fmt.Errorf("%w: maximum allowed is %s", domain.ErrLimitExceeded, limit.StringFixed(2))
	}

	rate, term, err := u.rates.Resolve(ctx, in.Amount)
	if err != nil {
		return nil, err
	}

	lender := in.LenderID
	l := &domain.Loan{
		LoanID:          id.NewID32(),
		CustomerID:      in.CustomerID,
		LenderID:        &lender,
		Principal:       in.Amount,
		InterestRate:    rate,
		TermMonths:      term,
		Status:          domain.StatusPending,
		RepaidTotal:     decimal.Zero,
		StatusUpdatedAt: time.Now().UTC(),
	}
	if err := u.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"loan_id": l.LoanID, "customer_id": l.CustomerID, "amount": l.Principal.String(), "rate": rate.String(),
	}).Info("loan applied")
	u.sink.Emit(ctx, event.Event{
		Type:       event.TypeLoanApplication,
		Message:    fmt.Sprintf("New loan application for M%s by %s", l.Principal.StringFixed(2), borrowerName(borrower)),
		UserID:     l.CustomerID,
		Payload:    map[string]any{"loan_id": l.LoanID, "lender_id": lender, "amount": l.Principal.String()},
		OccurredAt: time.Now().UTC(),
	})
	return ToDTO(l), nil
}

// Decide approves or rejects a pending loan. Approval binds the deciding
// lender and prices the loan against the rule table as it stands now.
func (u *Usecase) Decide(ctx context.Context, in DecideInput) (*LoanDTO, error) {
	if in.Outcome != decision.OutcomeApprove && in.Outcome != decision.OutcomeReject {
		return nil, fmt.Errorf("%w: decision must be approve or reject", domain.ErrValidation)
	}
	if !in.Actor.IsStaff() {
		return nil, domain.ErrForbidden
	}

	// principal never changes, so the bracket can be looked up before locking
	current, err := u.repo.GetByLoanID(ctx, in.LoanID)
	if err != nil {
		return nil, notFound(err)
	}
	var rate decimal.Decimal
	var term int
	if in.Outcome == decision.OutcomeApprove {
		if rate, term, err = u.rates.Resolve(ctx, current.Principal); err != nil {
			return nil, err
		}
	}

	var out *domain.Loan
	err = u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domain.Loan) error {
		if l.Status != domain.StatusPending {
			return fmt.Errorf("%w: loan is %s", domain.ErrInvalidTransition, l.Status)
		}
		if in.Actor.Role == user.RoleLender && l.LenderID != nil && *l.LenderID != in.Actor.ID {
			return fmt.Errorf("%w: loan was requested from another lender", domain.ErrForbidden)
		}

		now := time.Now().UTC()
		d := &decision.Decision{
			DecisionID: id.NewID32(),
			LoanID:     l.ID,
			Outcome:    in.Outcome,
			ActorID:    in.Actor.ID,
			ActorRole:  string(in.Actor.Role),
			DecidedAt:  now,
		}
		if in.Outcome == decision.OutcomeApprove {
			actor := in.Actor.ID
			l.LenderID = &actor
			l.InterestRate, l.TermMonths = rate, term
			l.Status = domain.StatusActive
			d.Rate, d.TermMonths = rate, term
		} else {
			l.Status = domain.StatusRejected
		}
		l.StatusUpdatedAt = now

		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		if err := r.Decisions.Create(ctx, d); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, notFound(err)
	}

	u.log.WithFields(logrus.Fields{
		"loan_id": out.LoanID, "status": out.Status, "actor_id": in.Actor.ID,
	}).Info("loan decided")
	e := event.Event{
		UserID:     out.CustomerID,
		Payload:    map[string]any{"loan_id": out.LoanID, "lender_id": out.Lender()},
		OccurredAt: time.Now().UTC(),
	}
	if out.Status == domain.StatusActive {
		e.Type = event.TypeLoanApproval
		e.Message = fmt.Sprintf("Loan of M%s has been approved at %s%% over %d months",
			out.Principal.StringFixed(2), out.InterestRate.String(), out.TermMonths)
	} else {
		e.Type = event.TypeLoanRejection
		e.Message = fmt.Sprintf("Loan of M%s has been rejected", out.Principal.StringFixed(2))
	}
	u.sink.Emit(ctx, e)
	return ToDTO(out), nil
}

// MarkDefaulted writes off an open loan. Any lender or admin may do this;
// ownership of the loan is not checked.
func (u *Usecase) MarkDefaulted(ctx context.Context, loanID string, actor user.Actor) (*LoanDTO, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}
	var out *domain.Loan
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if !l.Status.IsOpen() {
			return fmt.Errorf("%w: loan is %s", domain.ErrInvalidTransition, l.Status)
		}
		l.Status = domain.StatusDefaulted
		l.StatusUpdatedAt = time.Now().UTC()
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, notFound(err)
	}

	loss := out.Outstanding()
	u.log.WithFields(logrus.Fields{
		"loan_id": out.LoanID, "actor_id": actor.ID, "loss": loss.String(),
	}).Warn("loan defaulted")
	u.sink.Emit(ctx, event.Event{
		Type:       event.TypeLoanDefault,
		Message:    fmt.Sprintf("Loan %s defaulted with M%s outstanding", out.LoanID, loss.StringFixed(2)),
		UserID:     out.CustomerID,
		Payload:    map[string]any{"loan_id": out.LoanID, "loss": loss.String()},
		OccurredAt: time.Now().UTC(),
	})
	return ToDTO(out), nil
}

// Get returns one loan. Customers only see their own loans.
func (u *Usecase) Get(ctx context.Context, loanID string, actor user.Actor) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, notFound(err)
	}
	if actor.Role == user.RoleCustomer && l.CustomerID != actor.ID {
		return nil, domain.ErrForbidden
	}
	return ToDTO(l), nil
}

// List scopes by role: customers get their loans, lenders the loans bound to
// them, admins everything.
func (u *Usecase) List(ctx context.Context, actor user.Actor) ([]LoanDTO, error) {
	f, err := ScopeFilter(actor)
	if err != nil {
		return nil, err
	}
	f.WithRepayments = true
	loans, err := u.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]LoanDTO, 0, len(loans))
	for i := range loans {
		out = append(out, *ToDTO(&loans[i]))
	}
	return out, nil
}

// ScopeFilter is the loan visibility rule shared by listings and reports.
func ScopeFilter(actor user.Actor) (domain.Filter, error) {
	switch actor.Role {
	case user.RoleCustomer:
		return domain.Filter{CustomerID: actor.ID}, nil
	case user.RoleLender:
		return domain.Filter{LenderID: actor.ID}, nil
	case user.RoleAdmin:
		return domain.Filter{}, nil
	}
	return domain.Filter{}, domain.ErrForbidden
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

func borrowerName(b *user.User) string {
	if b.Name != "" {
		return b.Name
	}
	return b.UserID
}
