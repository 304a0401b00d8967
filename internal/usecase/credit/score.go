package credit

import "github.com/shopspring/decimal"

const (
	MinScore = 300
	MaxScore = 850
)

// Two unreconciled formulas exist: the server path below, driven by repayments
// and net worth, and the client path (OnApplicationClient, OnRepaymentClient)
// that the customer dashboard applies optimistically. Keep them separate.

func Clamp(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// OnRepaymentServer recomputes the score from scratch after a repayment:
// 300 + floor(netWorth/100) + floor(amount/100), capped at 850.
func OnRepaymentServer(netWorth, amount decimal.Decimal) int {
	base := MinScore + hundreds(netWorth)
	return Clamp(base + hundreds(amount))
}

// OnApplicationServer leaves the score alone.
func OnApplicationServer(current int) int { return current }

func OnApplicationClient(current int) int { return Clamp(current - 10) }

// OnRepaymentClient adds 100 for an on-time repayment and 50 for a late one
// (a repayment made against a defaulted loan).
func OnRepaymentClient(current int, late bool) int {
	if late {
		return Clamp(current + 50)
	}
	return Clamp(current + 100)
}

// HistoryPoint is min(base + floor(amount/100), 850) with base defaulting to 300.
func HistoryPoint(base int, amount decimal.Decimal) int {
	if base == 0 {
		base = MinScore
	}
	return Clamp(base + hundreds(amount))
}

func hundreds(d decimal.Decimal) int {
	return int(d.Shift(-2).Floor().IntPart())
}
