package ledger

import (
	"context"
	"time"

	domain "p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/domain/profit"
	"p2p-lending-backend/internal/domain/user"
	loanuc "p2p-lending-backend/internal/usecase/loan"
	"p2p-lending-backend/pkg/id"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

// Ledger is the platform-wide profit book and the read-side aggregates over
// loans. Profit is only ever appended; losses and balances are recomputed
// from loan rows on each read.
type Ledger struct {
	loans   domain.Repository
	profits profit.Repository
	log     *logrus.Logger
}

func NewLedger(loans domain.Repository, profits profit.Repository, log *logrus.Logger) *Ledger {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Ledger{loans: loans, profits: profits, log: log}
}

// BookProfit records the interest realized when a loan completes. It writes
// through repo so it joins the caller's transaction.
func (g *Ledger) BookProfit(ctx context.Context, repo profit.Repository, l *domain.Loan, amount decimal.Decimal, at time.Time) error {
	e := &profit.Entry{EntryID: id.NewID32(), LoanID: l.ID, Amount: amount, BookedAt: at}
	if err := repo.Create(ctx, e); err != nil {
		return err
	}
	g.log.WithFields(logrus.Fields{"loan_id": l.LoanID, "amount": amount.String()}).Info("profit booked")
	return nil
}

func (g *Ledger) TotalProfit(ctx context.Context) (decimal.Decimal, error) {
	return g.profits.Total(ctx)
}

// TotalLosses is the unrepaid principal of every defaulted loan.
func (g *Ledger) TotalLosses(ctx context.Context) (decimal.Decimal, error) {
	loans, err := g.loans.List(ctx, domain.Filter{Statuses: []domain.Status{domain.StatusDefaulted}})
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for i := range loans {
		sum = sum.Add(loans[i].Outstanding())
	}
	return sum, nil
}

func (g *Ledger) ProfitLoss(ctx context.Context) (*ProfitLossDTO, error) {
	p, err := g.TotalProfit(ctx)
	if err != nil {
		return nil, err
	}
	l, err := g.TotalLosses(ctx)
	if err != nil {
		return nil, err
	}
	return &ProfitLossDTO{Profits: p, Losses: l}, nil
}

// Balance sums outstanding plus current interest over every loan regardless
// of status.
func (g *Ledger) Balance(ctx context.Context) (decimal.Decimal, error) {
	loans, err := g.loans.List(ctx, domain.Filter{})
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for i := range loans {
		sum = sum.Add(loans[i].TotalDue())
	}
	return sum, nil
}

// AdjustBalance reports what the balance would be after delta. Nothing is
// stored.
func (g *Ledger) AdjustBalance(ctx context.Context, delta decimal.Decimal) (decimal.Decimal, error) {
	b, err := g.Balance(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return b.Add(delta), nil
}

func (g *Ledger) Reports(ctx context.Context, actor user.Actor) (*ReportDTO, error) {
	f, err := loanuc.ScopeFilter(actor)
	if err != nil {
		return nil, err
	}
	loans, err := g.loans.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := &ReportDTO{TotalLoans: len(loans)}
	for i := range loans {
		switch loans[i].Status {
		case domain.StatusPending:
			out.Pending++
		case domain.StatusApproved, domain.StatusActive:
			out.Approved++
		case domain.StatusCompleted:
			out.Completed++
		case domain.StatusDefaulted:
			out.Defaulted++
		}
	}
	return out, nil
}

// DetailedReport buckets loans by the day they were created. Each customer
// amount is what that loan still owes, outstanding plus interest. Payment
// trends use the same day key but only days with repaid loans get a row.
func (g *Ledger) DetailedReport(ctx context.Context) (*DetailedReportDTO, error) {
	loans, err := g.loans.List(ctx, domain.Filter{})
	if err != nil {
		return nil, err
	}
	out := &DetailedReportDTO{ByDate: []DailyLoans{}, PaymentTrends: []PaymentTrend{}}
	days := map[string]int{}
	trends := map[string]int{}
	for i := range loans {
		l := &loans[i]
		date := l.CreatedAt.UTC().Format(dateLayout)
		idx, ok := days[date]
		if !ok {
			idx = len(out.ByDate)
			days[date] = idx
			out.ByDate = append(out.ByDate, DailyLoans{Date: date, TotalAmount: decimal.Zero})
		}
		due := l.TotalDue()
		d := &out.ByDate[idx]
		d.Count++
		d.TotalAmount = d.TotalAmount.Add(due)
		d.Customers = append(d.Customers, CustomerAmount{CustomerID: l.CustomerID, Amount: due})

		if !l.RepaidTotal.IsPositive() {
			continue
		}
		t, ok := trends[date]
		if !ok {
			t = len(out.PaymentTrends)
			trends[date] = t
			out.PaymentTrends = append(out.PaymentTrends, PaymentTrend{Date: date, TotalRepaid: decimal.Zero})
		}
		p := &out.PaymentTrends[t]
		p.TotalRepaid = p.TotalRepaid.Add(l.RepaidTotal)
	}
	return out, nil
}
