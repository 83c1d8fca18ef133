// Package report aggregates the group ledgers into the summary totals and the
// year-end interest distribution. Reports are computed on every request and
// never write back to the stored balances.
package report

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vsla/internal/apperr"
	"github.com/MrJamesThe3rd/vsla/internal/expense"
	"github.com/MrJamesThe3rd/vsla/internal/ledger"
	"github.com/MrJamesThe3rd/vsla/internal/savings"
)

var ErrGroupRequired = apperr.Validation("group is required for year-end interest report")

type SavingsLine struct {
	MemberID uuid.UUID
	Type     savings.Type
	Amount   decimal.Decimal
	Shares   int64
	Date     time.Time
}

type ExpenseLine struct {
	Type   expense.Type
	Amount decimal.Decimal
}

type CollectionLine struct {
	Date            *time.Time
	InterestPortion *decimal.Decimal
}

type MemberRef struct {
	ID     uuid.UUID
	Name   string
	Number string
}

// Dataset is the raw ledger data a report is built from. Savings holds every
// entry up to the window's end so that share balances can be replayed;
// SocialFunds and Expenses are already limited to the window.
type Dataset struct {
	GroupID     *uuid.UUID
	Members     []MemberRef
	Savings     []SavingsLine
	SocialFunds []decimal.Decimal
	Expenses    []ExpenseLine
	Collections []CollectionLine
}

type Totals struct {
	Savings         decimal.Decimal
	Interest        decimal.Decimal
	SocialFunds     decimal.Decimal
	Fines           decimal.Decimal
	Expenses        decimal.Decimal
	SharesAtYearEnd int64
}

// MemberShare is one member's slice of the interest collected in the window.
type MemberShare struct {
	MemberID       uuid.UUID
	MemberName     string
	MemberNumber   string
	Shares         int64
	Percentage     decimal.Decimal
	InterestAmount decimal.Decimal
}

type Summary struct {
	GroupID      *uuid.UUID
	Window       Window
	Totals       Totals
	Distribution []MemberShare
	GeneratedAt  time.Time
}

// Build computes the summary for w. The per-member distribution is only
// produced for a dataset scoped to a group.
func Build(w Window, ds Dataset) Summary {
	s := Summary{
		GroupID:      ds.GroupID,
		Window:       w,
		Distribution: []MemberShare{},
	}

	savingsTotal := decimal.Zero

	for _, e := range ds.Savings {
		if !w.Contains(e.Date) {
			continue
		}

		if e.Type == savings.TypeDebit {
			savingsTotal = savingsTotal.Sub(e.Amount)
		} else {
			savingsTotal = savingsTotal.Add(e.Amount)
		}
	}

	socialFunds := decimal.Zero
	for _, a := range ds.SocialFunds {
		socialFunds = socialFunds.Add(a)
	}

	fines, expenses := decimal.Zero, decimal.Zero

	for _, e := range ds.Expenses {
		if e.Type == expense.TypeFine {
			fines = fines.Add(e.Amount)
		} else {
			expenses = expenses.Add(e.Amount)
		}
	}

	interest := collectedInterest(w, ds.Collections)

	s.Totals = Totals{
		Savings:     ledger.Round2(savingsTotal),
		Interest:    ledger.Round2(interest),
		SocialFunds: ledger.Round2(socialFunds),
		Fines:       ledger.Round2(fines),
		Expenses:    ledger.Round2(expenses),
	}

	if ds.GroupID == nil {
		return s
	}

	balances := ShareBalances(w, ds.Savings)

	var total int64
	for _, n := range balances {
		total += n
	}

	s.Totals.SharesAtYearEnd = total
	s.Distribution = Distribute(interest, total, ds.Members, balances)

	return s
}

func collectedInterest(w Window, collections []CollectionLine) decimal.Decimal {
	total := decimal.Zero

	for _, c := range collections {
		if w.Bounded() && (c.Date == nil || !w.Contains(*c.Date)) {
			continue
		}

		if c.InterestPortion != nil {
			total = total.Add(*c.InterestPortion)
		}
	}

	return total
}

// ShareBalances replays savings entries in date order up to the window's end.
// A member's running balance never drops below zero.
func ShareBalances(w Window, entries []SavingsLine) map[uuid.UUID]int64 {
	ordered := slices.Clone(entries)
	slices.SortStableFunc(ordered, func(a, b SavingsLine) int {
		return cmp.Compare(a.Date.UnixNano(), b.Date.UnixNano())
	})

	balances := make(map[uuid.UUID]int64)

	for _, e := range ordered {
		if !w.NotAfterEnd(e.Date) {
			continue
		}

		next := balances[e.MemberID]
		if e.Type == savings.TypeDebit {
			next -= e.Shares
		} else {
			next += e.Shares
		}

		balances[e.MemberID] = max(0, next)
	}

	return balances
}

// Distribute apportions interest across members in proportion to their
// shares. Everyone gets zero when no shares are held.
func Distribute(interest decimal.Decimal, totalShares int64, members []MemberRef, balances map[uuid.UUID]int64) []MemberShare {
	out := make([]MemberShare, 0, len(members))
	total := decimal.NewFromInt(totalShares)

	for _, m := range members {
		shares := balances[m.ID]
		ms := MemberShare{
			MemberID:       m.ID,
			MemberName:     m.Name,
			MemberNumber:   m.Number,
			Shares:         shares,
			Percentage:     decimal.Zero,
			InterestAmount: decimal.Zero,
		}

		if totalShares > 0 {
			held := decimal.NewFromInt(shares)
			ms.Percentage = ledger.Round2(ledger.Percent(held, total))
			ms.InterestAmount = ledger.Round2(interest.Mul(held).Div(total))
		}

		out = append(out, ms)
	}

	return out
}
