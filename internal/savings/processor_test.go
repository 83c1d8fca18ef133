package savings_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/vsla/internal/savings"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func amount(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestProcess(t *testing.T) {
	rate := dec("50")

	type args struct {
		req      savings.Request
		perShare decimal.Decimal
		balance  savings.Balance
	}

	tests := []struct {
		name       string
		args       args
		wantAmount string
		wantShares int64
		wantErr    error
	}{
		{
			name:       "Credit priced from shares",
			args:       args{req: savings.Request{Shares: dec("4"), Type: savings.TypeCredit}, perShare: rate},
			wantAmount: "200",
			wantShares: 4,
		},
		{
			name:       "Credit ignores supplied amount",
			args:       args{req: savings.Request{Shares: dec("1"), Amount: amount("999"), Type: savings.TypeCredit}, perShare: rate},
			wantAmount: "50",
			wantShares: 1,
		},
		{
			name:    "Credit needs a share",
			args:    args{req: savings.Request{Shares: dec("0"), Amount: amount("50"), Type: savings.TypeCredit}, perShare: rate},
			wantErr: savings.ErrCreditShares,
		},
		{
			name:    "Credit needs a share value",
			args:    args{req: savings.Request{Shares: dec("2"), Type: savings.TypeCredit}, perShare: decimal.Zero},
			wantErr: savings.ErrRateNotConfigured,
		},
		{
			name:    "Negative shares",
			args:    args{req: savings.Request{Shares: dec("-1"), Type: savings.TypeCredit}, perShare: rate},
			wantErr: savings.ErrNegativeShares,
		},
		{
			name:    "Fractional shares",
			args:    args{req: savings.Request{Shares: dec("1.5"), Type: savings.TypeCredit}, perShare: rate},
			wantErr: savings.ErrFractionalShares,
		},
		{
			name: "Debit priced from shares",
			args: args{
				req:      savings.Request{Shares: dec("2"), Amount: amount("1"), Type: savings.TypeDebit},
				perShare: rate,
				balance:  savings.Balance{SavingsTotal: dec("200"), TotalShares: 4},
			},
			wantAmount: "100",
			wantShares: 2,
		},
		{
			name: "Debit infers whole shares from amount",
			args: args{
				req:      savings.Request{Amount: amount("150"), Type: savings.TypeDebit},
				perShare: rate,
				balance:  savings.Balance{SavingsTotal: dec("200"), TotalShares: 4},
			},
			wantAmount: "150",
			wantShares: 3,
		},
		{
			name: "Debit amount not a share multiple keeps zero shares",
			args: args{
				req:      savings.Request{Amount: amount("75"), Type: savings.TypeDebit},
				perShare: rate,
				balance:  savings.Balance{SavingsTotal: dec("200"), TotalShares: 4},
			},
			wantAmount: "75",
			wantShares: 0,
		},
		{
			name: "Debit without share value uses amount",
			args: args{
				req:      savings.Request{Amount: amount("30"), Type: savings.TypeDebit},
				perShare: decimal.Zero,
				balance:  savings.Balance{SavingsTotal: dec("30")},
			},
			wantAmount: "30",
		},
		{
			name: "Debit needs positive amount",
			args: args{
				req:      savings.Request{Type: savings.TypeDebit},
				perShare: decimal.Zero,
				balance:  savings.Balance{SavingsTotal: dec("30")},
			},
			wantErr: savings.ErrAmountRequired,
		},
		{
			name: "Debit below a cent",
			args: args{
				req:      savings.Request{Amount: amount("0.004"), Type: savings.TypeDebit},
				perShare: decimal.Zero,
				balance:  savings.Balance{SavingsTotal: dec("30")},
			},
			wantErr: savings.ErrAmountRequired,
		},
		{
			name: "Debit over savings",
			args: args{
				req:      savings.Request{Amount: amount("75"), Type: savings.TypeDebit},
				perShare: rate,
				balance:  savings.Balance{SavingsTotal: dec("70"), TotalShares: 4},
			},
			wantErr: savings.ErrInsufficientSavings,
		},
		{
			name: "Debit over shares",
			args: args{
				req:      savings.Request{Shares: dec("5"), Type: savings.TypeDebit},
				perShare: rate,
				balance:  savings.Balance{SavingsTotal: dec("100"), TotalShares: 2},
			},
			wantErr: savings.ErrInsufficientShares,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := savings.Process(tt.args.req, tt.args.perShare, tt.args.balance)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.True(t, dec(tt.wantAmount).Equal(got.Amount), "amount: got %s", got.Amount)
			assert.Equal(t, tt.wantShares, got.Shares)
			assert.Equal(t, tt.args.req.Type, got.Type)
		})
	}
}

// apply mirrors what the store does with an accepted entry.
func apply(bal savings.Balance, res savings.Result) savings.Balance {
	e := savings.Entry{Amount: res.Amount, Shares: res.Shares, Type: res.Type}
	amount, shares := e.Delta()

	return savings.Balance{SavingsTotal: bal.SavingsTotal.Add(amount), TotalShares: bal.TotalShares + shares}
}

func TestProcess_ShareScenario(t *testing.T) {
	rate := dec("50")
	bal := savings.Balance{SavingsTotal: decimal.Zero}

	res, err := savings.Process(savings.Request{Shares: dec("4"), Type: savings.TypeCredit}, rate, bal)
	require.NoError(t, err)
	assert.True(t, dec("200").Equal(res.Amount))

	bal = apply(bal, res)
	assert.True(t, dec("200").Equal(bal.SavingsTotal))
	assert.Equal(t, int64(4), bal.TotalShares)

	res, err = savings.Process(savings.Request{Shares: dec("2"), Type: savings.TypeDebit}, rate, bal)
	require.NoError(t, err)
	assert.True(t, dec("100").Equal(res.Amount))

	bal = apply(bal, res)
	assert.True(t, dec("100").Equal(bal.SavingsTotal))
	assert.Equal(t, int64(2), bal.TotalShares)

	_, err = savings.Process(savings.Request{Shares: dec("5"), Type: savings.TypeDebit}, rate, bal)
	assert.ErrorIs(t, err, savings.ErrInsufficientShares)
}

func TestProcess_RoundTrip(t *testing.T) {
	rate := dec("25.50")
	start := savings.Balance{SavingsTotal: dec("12.75"), TotalShares: 1}
	bal := start

	const n, k = 5, 3

	for range n {
		res, err := savings.Process(savings.Request{Shares: decimal.NewFromInt(k), Type: savings.TypeCredit}, rate, bal)
		require.NoError(t, err)

		bal = apply(bal, res)
	}

	res, err := savings.Process(savings.Request{Shares: decimal.NewFromInt(n * k), Type: savings.TypeDebit}, rate, bal)
	require.NoError(t, err)

	bal = apply(bal, res)
	assert.True(t, start.SavingsTotal.Equal(bal.SavingsTotal), "savings: got %s", bal.SavingsTotal)
	assert.Equal(t, start.TotalShares, bal.TotalShares)
}

func TestParseType(t *testing.T) {
	assert.Equal(t, savings.TypeDebit, savings.ParseType("debit"))
	assert.Equal(t, savings.TypeCredit, savings.ParseType("credit"))
	assert.Equal(t, savings.TypeCredit, savings.ParseType(""))
	assert.Equal(t, savings.TypeCredit, savings.ParseType("withdrawal"))
}
