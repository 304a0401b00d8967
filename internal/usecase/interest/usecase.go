package interest

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"p2p-lending-backend/internal/domain/event"
	domain "p2p-lending-backend/internal/domain/interest"
	"p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/pkg/id"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Table resolves loan amounts to (rate, term) brackets. Rules are cached in
// memory and reloaded lazily after Add.
type Table struct {
	repo domain.Repository
	sink event.Sink
	log  *logrus.Logger

	mu     sync.RWMutex
	rules  []domain.Rule
	loaded bool
	gen    uint64
	group  singleflight.Group
}

func NewTable(r domain.Repository, sink event.Sink, log *logrus.Logger) *Table {
	if sink == nil {
		sink = event.Discard{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Table{repo: r, sink: sink, log: log}
}

// Resolve returns the first rule in table order whose [min, max] contains
// amount, or the 15% / 3 month fallback. Callers cannot tell the two apart.
func (t *Table) Resolve(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, int, error) {
	rules, err := t.snapshot(ctx)
	if err != nil {
		return decimal.Zero, 0, err
	}
	for _, r := range rules {
		if r.Covers(amount) {
			return r.Rate, r.TermMonths, nil
		}
	}
	return domain.DefaultRate, domain.DefaultTermMonths, nil
}

func (t *Table) Add(ctx context.Context, in AddRuleInput) (*RuleDTO, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	r := &domain.Rule{
		RuleID:     id.NewID32(),
		MinAmount:  in.MinAmount,
		MaxAmount:  in.MaxAmount,
		Rate:       in.Rate,
		TermMonths: in.TermMonths,
	}
	if err := t.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	t.invalidate()

	t.log.WithFields(logrus.Fields{"rule_id": r.RuleID, "rate": r.Rate.String()}).Info("interest rule added")
	t.sink.Emit(ctx, event.Event{
		Type: event.TypeInterestRule,
		Message: fmt.Sprintf("New interest rule set: %s%% for %s-%s over %d months",
			r.Rate, r.MinAmount, r.MaxAmount, r.TermMonths),
		Payload:    map[string]any{"rule_id": r.RuleID},
		OccurredAt: time.Now().UTC(),
	})
	dto := toDTO(*r)
	return &dto, nil
}

func (t *Table) List(ctx context.Context) ([]RuleDTO, error) {
	rules, err := t.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RuleDTO, 0, len(rules))
	for _, r := range rules {
		out = append(out, toDTO(r))
	}
	return out, nil
}

func (t *Table) snapshot(ctx context.Context) ([]domain.Rule, error) {
	t.mu.RLock()
	if t.loaded {
		rules := t.rules
		t.mu.RUnlock()
		return rules, nil
	}
	gen := t.gen
	t.mu.RUnlock()

	v, err, _ := t.group.Do("rules:"+strconv.FormatUint(gen, 10), func() (any, error) {
		rules, err := t.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		t.mu.Lock()
		// an Add that landed mid-reload leaves the cache cold
		if t.gen == gen {
			t.rules, t.loaded = rules, true
		}
		t.mu.Unlock()
		return rules, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Rule), nil
}

func (t *Table) invalidate() {
	t.mu.Lock()
	t.rules, t.loaded = nil, false
	t.gen++
	t.mu.Unlock()
}

func (in AddRuleInput) validate() error {
	switch {
	case !in.MinAmount.LessThan(in.MaxAmount):
		return fmt.Errorf("%w: min_amount must be less than max_amount", loan.ErrValidation)
	case in.Rate.IsNegative():
		return fmt.Errorf("%w: rate must be >= 0", loan.ErrValidation)
	case in.TermMonths < 1:
		return fmt.Errorf("%w: term_months must be >= 1", loan.ErrValidation)
	}
	return nil
}
