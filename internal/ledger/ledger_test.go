package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/vsla/internal/ledger"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDurationToWeeks(t *testing.T) {
	type args struct {
		n    int
		unit ledger.DurationUnit
	}

	tests := []struct {
		name string
		args args
		want int
	}{
		{name: "Days round up", args: args{n: 10, unit: ledger.UnitDays}, want: 2},
		{name: "Exact days", args: args{n: 14, unit: ledger.UnitDays}, want: 2},
		{name: "Weeks", args: args{n: 10, unit: ledger.UnitWeeks}, want: 10},
		{name: "Months", args: args{n: 3, unit: ledger.UnitMonths}, want: 12},
		{name: "Years", args: args{n: 1, unit: ledger.UnitYears}, want: 52},
		{name: "Upper case unit", args: args{n: 2, unit: "MONTHS"}, want: 8},
		{name: "Unknown unit is identity", args: args{n: 7, unit: "fortnights"}, want: 7},
		{name: "Zero", args: args{n: 0, unit: ledger.UnitDays}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ledger.DurationToWeeks(tt.args.n, tt.args.unit))
		})
	}
}

func TestWeeklyInstallment(t *testing.T) {
	type args struct {
		principal string
		rate      string
		n         int
		unit      ledger.DurationUnit
	}

	tests := []struct {
		name   string
		args   args
		want   string
		wantOK bool
	}{
		{name: "Ten weeks at ten percent", args: args{"1000", "10", 10, ledger.UnitWeeks}, want: "110", wantOK: true},
		{name: "Three months", args: args{"500", "12", 3, ledger.UnitMonths}, want: "46.67", wantOK: true},
		{name: "Zero rate", args: args{"300", "0", 3, ledger.UnitWeeks}, want: "100", wantOK: true},
		{name: "Zero weeks", args: args{"1000", "10", 0, ledger.UnitWeeks}, wantOK: false},
		{name: "Zero principal", args: args{"0", "10", 10, ledger.UnitWeeks}, wantOK: false},
		{name: "Negative principal", args: args{"-5", "10", 10, ledger.UnitWeeks}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ledger.WeeklyInstallment(dec(tt.args.principal), dec(tt.args.rate), tt.args.n, tt.args.unit)

			assert.Equal(t, tt.wantOK, ok)

			if tt.wantOK {
				assert.True(t, dec(tt.want).Equal(got), "got %s want %s", got, tt.want)
			}
		})
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, "1.01", ledger.Round2(dec("1.005")).String())
	assert.Equal(t, "2.68", ledger.Round2(dec("2.675")).String())
	assert.Equal(t, "0.1", ledger.Round2(dec("0.1")).String())
}

func TestParseCurrency(t *testing.T) {
	c, err := ledger.ParseCurrency(" usd ")
	assert.NoError(t, err)
	assert.Equal(t, ledger.CurrencyUSD, c)

	_, err = ledger.ParseCurrency("EUR")
	assert.ErrorIs(t, err, ledger.ErrInvalidCurrency)
}

func TestPercent(t *testing.T) {
	assert.True(t, dec("30").Equal(ledger.Percent(dec("30"), dec("100"))))
	assert.True(t, ledger.Percent(dec("30"), decimal.Zero).IsZero())
}
