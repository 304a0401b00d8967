package repayment

import (
	"context"
	"errors"
	"testing"

	"p2p-lending-backend/internal/domain/event"
	domain "p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/domain/profit"
	"p2p-lending-backend/internal/domain/uow"
	"p2p-lending-backend/internal/domain/user"
	"p2p-lending-backend/internal/testutil/eventmock"
	"p2p-lending-backend/internal/testutil/loanmock"
	"p2p-lending-backend/internal/testutil/profitmock"
	"p2p-lending-backend/internal/testutil/uowmock"
	"p2p-lending-backend/internal/testutil/usermock"
	"p2p-lending-backend/internal/usecase/ledger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// fixture keeps one loan in memory behind function-field mocks.
type fixture struct {
	loan    *domain.Loan
	profits []profit.Entry
	scores  []int
	sink    *eventmock.Recorder
	p       *Processor
}

func newFixture(t *testing.T, l *domain.Loan) *fixture {
	t.Helper()
	f := &fixture{loan: l, sink: &eventmock.Recorder{}}
	lender := "L1"
	if l.LenderID == nil {
		l.LenderID = &lender
	}
	repos := uow.Repos{
		Loans: &loanmock.Repo{
			GetByLoanIDForUpdateFn: func(_ context.Context, loanID string) (*domain.Loan, error) {
				if loanID != f.loan.LoanID {
					return nil, gorm.ErrRecordNotFound
				}
				cp := *f.loan
				cp.Repayments = append([]domain.Repayment(nil), f.loan.Repayments...)
				return &cp, nil
			},
			SaveFn: func(_ context.Context, l *domain.Loan) error {
				f.loan = l
				return nil
			},
		},
		Profits: &profitmock.Repo{CreateFn: func(_ context.Context, e *profit.Entry) error {
			f.profits = append(f.profits, *e)
			return nil
		}},
		Users: &usermock.Repo{
			GetByUserIDFn: func(_ context.Context, id string) (*user.User, error) {
				return &user.User{UserID: id, NetWorth: dec("10000")}, nil
			},
			UpdateCreditScoreFn: func(_ context.Context, _ string, score int) error {
				f.scores = append(f.scores, score)
				return nil
			},
		},
	}
	f.p = NewProcessor(uowmock.Inline(repos), ledger.NewLedger(nil, nil, nil), f.sink, nil)
	return f
}

func activeLoan() *domain.Loan {
	return &domain.Loan{
		ID: 1, LoanID: "LN1", CustomerID: "C1",
		Principal: dec("1000"), InterestRate: dec("15"), TermMonths: 3,
		Status: domain.StatusActive, RepaidTotal: decimal.Zero,
	}
}

func (f *fixture) repay(amount string) error {
	_, err := f.p.Repay(context.Background(), RepayInput{LoanID: "LN1", PayerID: "C1", Amount: dec(amount)})
	return err
}

func TestRepay_PartialThenBoundary(t *testing.T) {
	tests := []struct {
		name       string
		second     string
		wantStatus domain.Status
		wantProfit string
	}{
		{"one cent short stays active", "74.99", domain.StatusActive, ""},
		{"exact due completes", "75", domain.StatusCompleted, "75"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, activeLoan())

			// totalDue = 1000 + 150 = 1150, so 500 is partial
			if err := f.repay("500"); err != nil {
				t.Fatalf("first repay: %v", err)
			}
			if f.loan.Status != domain.StatusActive || len(f.profits) != 0 {
				t.Fatalf("after 500: status=%s profits=%d", f.loan.Status, len(f.profits))
			}
			// outstanding 500, interest 75, totalDue 575; repaid must reach 575
			if err := f.repay(tc.second); err != nil {
				t.Fatalf("second repay: %v", err)
			}
			if f.loan.Status != tc.wantStatus {
				t.Fatalf("status: want %s, got %s", tc.wantStatus, f.loan.Status)
			}
			if tc.wantProfit == "" {
				if len(f.profits) != 0 {
					t.Fatalf("no profit expected, got %+v", f.profits)
				}
				return
			}
			if len(f.profits) != 1 || !f.profits[0].Amount.Equal(dec(tc.wantProfit)) || f.profits[0].LoanID != 1 {
				t.Fatalf("want one profit entry of %s, got %+v", tc.wantProfit, f.profits)
			}
		})
	}
}

func TestRepay_SingleFullPayment(t *testing.T) {
	f := newFixture(t, activeLoan())
	if err := f.repay("1150"); err != nil {
		t.Fatalf("repay: %v", err)
	}
	if f.loan.Status != domain.StatusCompleted {
		t.Fatalf("want completed, got %s", f.loan.Status)
	}
	if len(f.profits) != 1 || !f.profits[0].Amount.Equal(dec("150")) {
		t.Fatalf("want profit 150, got %+v", f.profits)
	}
}

func TestRepay_HistoryMatchesRepaidTotal(t *testing.T) {
	f := newFixture(t, activeLoan())
	for _, amt := range []string{"100", "250.50", "0.01"} {
		if err := f.repay(amt); err != nil {
			t.Fatalf("repay %s: %v", amt, err)
		}
	}
	if !f.loan.HistoryTotal().Equal(f.loan.RepaidTotal) || !f.loan.RepaidTotal.Equal(dec("350.51")) {
		t.Fatalf("history %s != repaid %s", f.loan.HistoryTotal(), f.loan.RepaidTotal)
	}
	if len(f.loan.Repayments) != 3 {
		t.Fatalf("want 3 history entries, got %d", len(f.loan.Repayments))
	}
}

func TestRepay_ExceedsDue(t *testing.T) {
	f := newFixture(t, activeLoan())
	err := f.repay("1150.01")
	if !errors.Is(err, domain.ErrExceedsDue) {
		t.Fatalf("want ErrExceedsDue, got %v", err)
	}
	if !f.loan.RepaidTotal.IsZero() || len(f.loan.Repayments) != 0 {
		t.Fatalf("rejected payment must not change state: %+v", f.loan)
	}
	if len(f.sink.Events()) != 0 {
		t.Fatalf("no event expected")
	}
}

func TestRepay_Guards(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t, activeLoan())
	cases := []struct {
		name string
		in   RepayInput
		want error
	}{
		{"zero amount", RepayInput{LoanID: "LN1", PayerID: "C1", Amount: decimal.Zero}, domain.ErrValidation},
		{"negative amount", RepayInput{LoanID: "LN1", PayerID: "C1", Amount: dec("-1")}, domain.ErrValidation},
		{"wrong payer", RepayInput{LoanID: "LN1", PayerID: "C2", Amount: dec("1")}, domain.ErrForbidden},
		{"wrong lender", RepayInput{LoanID: "LN1", PayerID: "C1", Amount: dec("1"), LenderID: "L9"}, domain.ErrValidation},
		{"unknown loan", RepayInput{LoanID: "nope", PayerID: "C1", Amount: dec("1")}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		if _, err := f.p.Repay(ctx, tc.in); !errors.Is(err, tc.want) {
			t.Fatalf("%s: want %v, got %v", tc.name, tc.want, err)
		}
	}

	for _, st := range []domain.Status{domain.StatusPending, domain.StatusRejected, domain.StatusCompleted, domain.StatusDefaulted} {
		l := activeLoan()
		l.Status = st
		f := newFixture(t, l)
		if err := f.repay("1"); !errors.Is(err, domain.ErrInvalidTransition) {
			t.Fatalf("%s: want ErrInvalidTransition, got %v", st, err)
		}
	}
}

func TestRepay_LegacyApprovedIsOpen(t *testing.T) {
	l := activeLoan()
	l.Status = domain.StatusApproved
	f := newFixture(t, l)
	if err := f.repay("1150"); err != nil {
		t.Fatalf("repay: %v", err)
	}
	if f.loan.Status != domain.StatusCompleted {
		t.Fatalf("want completed, got %s", f.loan.Status)
	}
}

func TestRepay_MatchingLenderAccepted(t *testing.T) {
	f := newFixture(t, activeLoan())
	if _, err := f.p.Repay(context.Background(), RepayInput{LoanID: "LN1", PayerID: "C1", Amount: dec("10"), LenderID: "L1"}); err != nil {
		t.Fatalf("repay: %v", err)
	}
}

func TestRepay_ScoresAndEmits(t *testing.T) {
	f := newFixture(t, activeLoan())
	if err := f.repay("250"); err != nil {
		t.Fatalf("repay: %v", err)
	}
	// 300 + 10000/100 + 250/100
	if len(f.scores) != 1 || f.scores[0] != 402 {
		t.Fatalf("want score 402, got %v", f.scores)
	}
	evs := f.sink.Events()
	if len(evs) != 1 || evs[0].Type != event.TypeLoanPayment || evs[0].UserID != "C1" {
		t.Fatalf("unexpected events: %+v", evs)
	}
}
