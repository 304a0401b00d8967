package http

import (
	"net/http"
	"testing"

	"p2p-lending-backend/internal/domain/event"
	"p2p-lending-backend/internal/domain/user"
	"p2p-lending-backend/internal/usecase/interest"
	"p2p-lending-backend/internal/usecase/ledger"
	loanuc "p2p-lending-backend/internal/usecase/loan"
)

func TestInterestRules_AddListAndPricing(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodPost, "/interest-rules", asAdmin(t), map[string]any{
		"min_amount": "0", "max_amount": "500", "rate": "10", "term_months": 6,
	}, nil)
	expectCode(t, rec, http.StatusCreated)
	added := decode[interest.RuleDTO](t, rec)
	if len(added.RuleID) != 32 || !added.Rate.Equal(dec("10")) {
		t.Fatalf("unexpected rule %+v", added)
	}

	rec = s.do(http.MethodGet, "/interest-rules", asAdmin(t), nil, nil)
	expectCode(t, rec, http.StatusOK)
	if rules := decode[[]interest.RuleDTO](t, rec); len(rules) != 1 || rules[0].RuleID != added.RuleID {
		t.Fatalf("unexpected rules %+v", rules)
	}

	cheap := s.activeLoan("400")
	if !cheap.InterestRate.Equal(dec("10")) || cheap.TermMonths != 6 {
		t.Fatalf("bracketed loan priced at %s/%d", cheap.InterestRate, cheap.TermMonths)
	}
	dear := s.activeLoan("900")
	if !dear.InterestRate.Equal(dec("15")) || dear.TermMonths != 3 {
		t.Fatalf("uncovered loan priced at %s/%d", dear.InterestRate, dear.TermMonths)
	}
}

func TestInterestRules_Rejections(t *testing.T) {
	s := newTestServer(t, nil)
	tests := []struct {
		name string
		tok  string
		body map[string]any
		want int
	}{
		{"lender", asLender(t), map[string]any{"min_amount": "0", "max_amount": "10", "rate": "5", "term_months": 1}, http.StatusForbidden},
		{"zero max", asAdmin(t), map[string]any{"min_amount": "0", "max_amount": "0", "rate": "5", "term_months": 1}, http.StatusUnprocessableEntity},
		{"zero term", asAdmin(t), map[string]any{"min_amount": "0", "max_amount": "10", "rate": "5", "term_months": 0}, http.StatusUnprocessableEntity},
		{"min above max", asAdmin(t), map[string]any{"min_amount": "20", "max_amount": "10", "rate": "5", "term_months": 1}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectCode(t, s.do(http.MethodPost, "/interest-rules", tt.tok, tt.body, nil), tt.want)
		})
	}
}

func TestLedger_ProfitLossAndBalance(t *testing.T) {
	s := newTestServer(t, nil)

	settled := s.activeLoan("1000")
	rec := s.do(http.MethodPost, "/loans/"+settled.LoanID+"/repayments", asCustomer(t), map[string]string{"amount": "1150"}, nil)
	expectCode(t, rec, http.StatusOK)

	lost := s.activeLoan("600")
	expectCode(t, s.do(http.MethodPost, "/loans/"+lost.LoanID+"/default", asLender(t), nil, nil), http.StatusOK)

	rec = s.do(http.MethodGet, "/ledger/profit-loss", asAdmin(t), nil, nil)
	expectCode(t, rec, http.StatusOK)
	pl := decode[ledger.ProfitLossDTO](t, rec)
	if !pl.Profits.Equal(dec("150")) || !pl.Losses.Equal(dec("600")) {
		t.Fatalf("profit/loss = %s/%s", pl.Profits, pl.Losses)
	}

	expectCode(t, s.do(http.MethodGet, "/ledger/profit-loss", asLender(t), nil, nil), http.StatusForbidden)
}

func TestLedger_BalanceAndAdjust(t *testing.T) {
	s := newTestServer(t, nil)
	s.activeLoan("1000")
	rec := s.do(http.MethodPost, "/loans", asCustomer(t), map[string]any{"lender_id": "LENDER01", "amount": 200}, nil)
	expectCode(t, rec, http.StatusCreated)

	rec = s.do(http.MethodGet, "/ledger/balance", asAdmin(t), nil, nil)
	expectCode(t, rec, http.StatusOK)
	if got := decode[ledger.BalanceDTO](t, rec); !got.Balance.Equal(dec("1380")) {
		t.Fatalf("balance = %s, want 1380", got.Balance)
	}

	rec = s.do(http.MethodPut, "/ledger/balance", asAdmin(t), map[string]string{"amount": "-80.5"}, nil)
	expectCode(t, rec, http.StatusOK)
	if got := decode[ledger.BalanceDTO](t, rec); !got.Balance.Equal(dec("1299.5")) {
		t.Fatalf("adjusted = %s, want 1299.5", got.Balance)
	}

	// not persisted
	rec = s.do(http.MethodGet, "/ledger/balance", asAdmin(t), nil, nil)
	if got := decode[ledger.BalanceDTO](t, rec); !got.Balance.Equal(dec("1380")) {
		t.Fatalf("balance after adjust = %s", got.Balance)
	}

	expectCode(t, s.do(http.MethodPut, "/ledger/balance", asAdmin(t), map[string]string{"amount": "1.234"}, nil), http.StatusUnprocessableEntity)
}

func TestReports(t *testing.T) {
	s := newTestServer(t, nil)
	s.activeLoan("300")
	rec := s.do(http.MethodPost, "/loans", asCustomer(t), map[string]any{"lender_id": "LENDER01", "amount": 100}, nil)
	pending := decode[loanuc.LoanDTO](t, rec)
	s.do(http.MethodPost, "/loans/"+pending.LoanID+"/decision", asLender(t), map[string]string{"decision": "reject"}, nil)
	s.activeLoan("50")

	rec = s.do(http.MethodGet, "/reports", asAdmin(t), nil, nil)
	expectCode(t, rec, http.StatusOK)
	got := decode[ledger.ReportDTO](t, rec)
	if got != (ledger.ReportDTO{TotalLoans: 3, Approved: 2}) {
		t.Fatalf("report = %+v", got)
	}

	rec = s.do(http.MethodGet, "/reports/detailed", asAdmin(t), nil, nil)
	expectCode(t, rec, http.StatusOK)
	detailed := decode[ledger.DetailedReportDTO](t, rec)
	if len(detailed.ByDate) != 1 || detailed.ByDate[0].Count != 3 || len(detailed.ByDate[0].Customers) != 3 {
		t.Fatalf("detailed = %+v", detailed)
	}
	// 300 + 45 owed on the first loan
	if c := detailed.ByDate[0].Customers[0]; c.CustomerID != "CUST01" || !c.Amount.Equal(dec("345")) {
		t.Fatalf("first customer amount = %+v", c)
	}
	if len(detailed.PaymentTrends) != 0 {
		t.Fatalf("no repayments yet, trends = %+v", detailed.PaymentTrends)
	}

	expectCode(t, s.do(http.MethodGet, "/reports/detailed", asCustomer(t), nil, nil), http.StatusForbidden)
	expectCode(t, s.do(http.MethodGet, "/reports/detailed", asLender(t), nil, nil), http.StatusForbidden)
}

func TestReports_ScopedToCaller(t *testing.T) {
	s := newTestServer(t, nil)
	s.activeLoan("300")
	rec := s.do(http.MethodPost, "/loans", asCustomer(t), map[string]any{"lender_id": "LENDER01", "amount": 100}, nil)
	expectCode(t, rec, http.StatusCreated)

	tests := []struct {
		name string
		tok  string
		want ledger.ReportDTO
	}{
		{"own customer", asCustomer(t), ledger.ReportDTO{TotalLoans: 2, Pending: 1, Approved: 1}},
		{"other customer", token(t, "CUST02", user.RoleCustomer), ledger.ReportDTO{}},
		{"own lender", asLender(t), ledger.ReportDTO{TotalLoans: 2, Pending: 1, Approved: 1}},
		{"other lender", token(t, "LENDER02", user.RoleLender), ledger.ReportDTO{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.do(http.MethodGet, "/reports", tc.tok, nil, nil)
			expectCode(t, rec, http.StatusOK)
			if got := decode[ledger.ReportDTO](t, rec); got != tc.want {
				t.Fatalf("want %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestNotifications_NewestFirst(t *testing.T) {
	s := newTestServer(t, nil)
	s.activeLoan("100")

	rec := s.do(http.MethodGet, "/notifications?limit=1", asAdmin(t), nil, nil)
	expectCode(t, rec, http.StatusOK)
	got := decode[[]event.Notification](t, rec)
	if len(got) != 1 || got[0].Type != event.TypeLoanApproval {
		t.Fatalf("notifications = %+v", got)
	}

	rec = s.do(http.MethodGet, "/notifications", asAdmin(t), nil, nil)
	if got := decode[[]event.Notification](t, rec); len(got) != 2 || got[1].Type != event.TypeLoanApplication {
		t.Fatalf("notifications = %+v", got)
	}
	expectCode(t, s.do(http.MethodGet, "/notifications", asCustomer(t), nil, nil), http.StatusForbidden)
}
