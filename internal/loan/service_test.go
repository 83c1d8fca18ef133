package loan_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/vsla/internal/apperr"
	"github.com/MrJamesThe3rd/vsla/internal/credit"
	"github.com/MrJamesThe3rd/vsla/internal/group"
	"github.com/MrJamesThe3rd/vsla/internal/ledger"
	"github.com/MrJamesThe3rd/vsla/internal/loan"
	"github.com/MrJamesThe3rd/vsla/internal/member"
)

type mocks struct {
	repo    *loan.MockRepository
	groups  *loan.MockGroupResolver
	members *loan.MockMemberGetter
}

func newService(ctrl *gomock.Controller) (*loan.Service, mocks) {
	m := mocks{
		repo:    loan.NewMockRepository(ctrl),
		groups:  loan.NewMockGroupResolver(ctrl),
		members: loan.NewMockMemberGetter(ctrl),
	}

	return loan.NewService(m.repo, m.groups, m.members), m
}

func createParams(g *group.Group, m *member.Member, amount string) loan.CreateParams {
	return loan.CreateParams{
		GroupID:               g.ID,
		ClientID:              m.ID,
		BranchName:            "Gbarnga",
		BranchCode:            "GB",
		GuarantorName:         "Moses Kollie",
		GuarantorRelationship: "Husband",
		AmountInWords:         "one thousand",
		DurationNumber:        10,
		DurationUnit:          "Weeks",
		Amount:                dec(amount),
		InterestRate:          dec("10"),
		Currency:              "USD",
		LoanOfficerName:       "J. Pewee",
	}
}

func TestService_Create(t *testing.T) {
	g := &group.Group{ID: uuid.New(), SavingsAmountPerShare: dec("50")}
	saver := &member.Member{ID: uuid.New(), GroupID: g.ID, Totals: member.Totals{SavingsTotal: dec("1200"), TotalShares: 10}}
	broke := &member.Member{ID: uuid.New(), GroupID: g.ID}

	found := func(mm mocks, who *member.Member) {
		mm.groups.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(g, nil)
		mm.members.EXPECT().GetMember(gomock.Any(), who.ID).Return(who, nil)
	}

	type testCase struct {
		name       string
		params     loan.CreateParams
		setupMocks func(mm mocks)
		check      func(t *testing.T, l *loan.Loan)
		wantErr    error
	}

	active := createParams(g, saver, "1000")
	active.Status = "active"

	noRate := createParams(g, saver, "1000")
	noRate.InterestRate = decimal.Zero

	missing := createParams(g, saver, "1000")
	missing.GuarantorName = ""

	paid := createParams(g, saver, "1000")
	paid.Status = "paid"

	tests := []testCase{
		{
			name:   "Pending loan within limit",
			params: createParams(g, saver, "1000"),
			setupMocks: func(mm mocks) {
				found(mm, saver)
				mm.repo.EXPECT().
					CreateLoan(gomock.Any(), gomock.Any(), group.Totals{TotalLoans: 1}).
					Return(nil)
			},
			check: func(t *testing.T, l *loan.Loan) {
				assert.Equal(t, loan.StatusPending, l.Status)
				assert.Nil(t, l.DisbursementDate)
				assert.Equal(t, ledger.UnitWeeks, l.DurationUnit)
				require.NotNil(t, l.WeeklyInstallment)
				assert.True(t, dec("110").Equal(*l.WeeklyInstallment))
			},
		},
		{
			name:   "Created active counts toward lent amount",
			params: active,
			setupMocks: func(mm mocks) {
				found(mm, saver)
				mm.repo.EXPECT().
					CreateLoan(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *loan.Loan, delta group.Totals) error {
						assert.Equal(t, int64(1), delta.TotalLoans)
						assert.True(t, dec("1000").Equal(delta.TotalLoanAmount))
						return nil
					})
			},
			check: func(t *testing.T, l *loan.Loan) {
				assert.Equal(t, loan.StatusActive, l.Status)
				assert.NotNil(t, l.DisbursementDate)
			},
		},
		{
			name:   "Request equal to limit",
			params: createParams(g, saver, "1200"),
			setupMocks: func(mm mocks) {
				found(mm, saver)
				mm.repo.EXPECT().CreateLoan(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, l *loan.Loan) {
				assert.True(t, dec("1200").Equal(l.Amount))
			},
		},
		{
			name:   "Over limit",
			params: createParams(g, saver, "1200.01"),
			setupMocks: func(mm mocks) {
				found(mm, saver)
			},
			wantErr: credit.ErrOverLimit,
		},
		{
			name:   "No credit",
			params: createParams(g, broke, "10"),
			setupMocks: func(mm mocks) {
				found(mm, broke)
			},
			wantErr: credit.ErrNoCredit,
		},
		{
			name:    "Rate required",
			params:  noRate,
			wantErr: loan.ErrInvalidRate,
		},
		{
			name:    "Missing field",
			params:  missing,
			wantErr: loan.ErrMissingFields,
		},
		{
			name:    "Cannot start closed",
			params:  paid,
			wantErr: loan.ErrInvalidInitialStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, mm := newService(ctrl)
			if tt.setupMocks != nil {
				tt.setupMocks(mm)
			}

			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestService_Create_EchoesLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	g := &group.Group{ID: uuid.New(), SavingsAmountPerShare: dec("50")}
	m := &member.Member{ID: uuid.New(), GroupID: g.ID, Totals: member.Totals{SavingsTotal: dec("300"), TotalShares: 4}}

	svc, mm := newService(ctrl)
	mm.groups.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(g, nil)
	mm.members.EXPECT().GetMember(gomock.Any(), m.ID).Return(m, nil)

	_, err := svc.Create(context.Background(), createParams(g, m, "500"))

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindRejected, appErr.Kind)
	assert.True(t, dec("300").Equal(appErr.Fields["creditLimit"].(decimal.Decimal)))
}

func TestService_SetStatus(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name      string
		current   loan.Status
		next      string
		wantDelta group.Totals
		wantErr   error
	}{
		{name: "Approve", current: loan.StatusPending, next: "active", wantDelta: group.Totals{TotalLoanAmount: dec("250")}},
		{name: "Deny", current: loan.StatusPending, next: "denied"},
		{name: "Repaid", current: loan.StatusActive, next: "paid"},
		{name: "Already active", current: loan.StatusActive, next: "active"},
		{name: "Deny after disbursement", current: loan.StatusActive, next: "denied", wantErr: loan.ErrInvalidTransition},
		{name: "Unknown status", current: loan.StatusPending, next: "closed", wantErr: loan.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, mm := newService(ctrl)

			var gotDelta group.Totals

			mm.repo.EXPECT().
				ModifyLoan(gomock.Any(), id, gomock.Any()).
				DoAndReturn(func(_ context.Context, _ uuid.UUID, fn func(*loan.Loan) (group.Totals, error)) (*loan.Loan, error) {
					l := &loan.Loan{ID: id, Status: tt.current, Amount: dec("250"), InterestRate: dec("10"), DurationNumber: 5, DurationUnit: ledger.UnitWeeks}

					delta, err := fn(l)
					if err != nil {
						return nil, err
					}

					gotDelta = delta

					return l, nil
				}).
				MaxTimes(1)

			got, err := svc.SetStatus(context.Background(), id, tt.next)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, loan.Status(tt.next), got.Status)
			assert.True(t, tt.wantDelta.TotalLoanAmount.Equal(gotDelta.TotalLoanAmount))
		})
	}
}

func TestService_AddCollection(t *testing.T) {
	id := uuid.New()
	collected := dec("110")
	balance := dec("990")

	valid := loan.CollectionParams{
		MemberName:      "Comfort Kollie",
		LoanAmount:      dec("1000"),
		WeeklyAmount:    dec("110"),
		FieldCollection: &collected,
		FieldBalance:    &balance,
		Currency:        "USD",
	}

	modify := func(status loan.Status, existing ...loan.Collection) func(context.Context, uuid.UUID, func(*loan.Loan) (group.Totals, error)) (*loan.Loan, error) {
		return func(_ context.Context, _ uuid.UUID, fn func(*loan.Loan) (group.Totals, error)) (*loan.Loan, error) {
			l := &loan.Loan{ID: id, Status: status, Currency: ledger.CurrencyUSD, Collections: existing}
			l.TotalRealization = loan.Realization(existing)

			if _, err := fn(l); err != nil {
				return nil, err
			}

			return l, nil
		}
	}

	t.Run("Appends with defaults", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, mm := newService(ctrl)
		mm.repo.EXPECT().ModifyLoan(gomock.Any(), id, gomock.Any()).
			DoAndReturn(modify(loan.StatusActive, loan.Collection{Seq: 1, FieldCollection: dec("110")}))

		got, err := svc.AddCollection(context.Background(), id, valid)

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, 2, got[1].Seq)
		assert.True(t, got[1].AdvancePayment.IsZero())
		assert.NotNil(t, got[1].CollectionDate)
	})

	t.Run("Rounds money to cents", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, mm := newService(ctrl)
		mm.repo.EXPECT().ModifyLoan(gomock.Any(), id, gomock.Any()).DoAndReturn(modify(loan.StatusActive))

		odd := valid
		odd.FieldCollection = new(dec("10.005"))
		odd.AdvancePayment = new(dec("0.333"))
		odd.InterestPortion = new(dec("1.005"))

		got, err := svc.AddCollection(context.Background(), id, odd)

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.True(t, dec("10.01").Equal(got[0].FieldCollection), got[0].FieldCollection.String())
		assert.True(t, dec("0.33").Equal(got[0].AdvancePayment))
		require.NotNil(t, got[0].InterestPortion)
		assert.True(t, dec("1.01").Equal(*got[0].InterestPortion))
		assert.Nil(t, got[0].FeesPortion)
	})

	t.Run("Pending loan", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, mm := newService(ctrl)
		mm.repo.EXPECT().ModifyLoan(gomock.Any(), id, gomock.Any()).DoAndReturn(modify(loan.StatusPending))

		_, err := svc.AddCollection(context.Background(), id, valid)

		assert.ErrorIs(t, err, loan.ErrNotDisbursed)
	})

	t.Run("Currency mismatch", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		lrd := valid
		lrd.Currency = "LRD"

		svc, mm := newService(ctrl)
		mm.repo.EXPECT().ModifyLoan(gomock.Any(), id, gomock.Any()).DoAndReturn(modify(loan.StatusActive))

		_, err := svc.AddCollection(context.Background(), id, lrd)

		assert.ErrorIs(t, err, loan.ErrCollectionCurrency)
	})

	t.Run("Missing field balance", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		invalid := valid
		invalid.FieldBalance = nil

		svc, _ := newService(ctrl)

		_, err := svc.AddCollection(context.Background(), id, invalid)

		assert.ErrorIs(t, err, loan.ErrMissingCollection)
	})

	t.Run("Keeps supplied date", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		when := time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)
		dated := valid
		dated.CollectionDate = &when

		svc, mm := newService(ctrl)
		mm.repo.EXPECT().ModifyLoan(gomock.Any(), id, gomock.Any()).DoAndReturn(modify(loan.StatusActive))

		got, err := svc.AddCollection(context.Background(), id, dated)

		require.NoError(t, err)
		assert.Equal(t, when, *got[0].CollectionDate)
	})
}

func TestService_Update(t *testing.T) {
	id := uuid.New()

	t.Run("Recomputes installment", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, mm := newService(ctrl)
		mm.repo.EXPECT().GetLoan(gomock.Any(), id).Return(&loan.Loan{
			ID: id, Status: loan.StatusPending, Amount: dec("1000"), InterestRate: dec("10"),
			DurationNumber: 10, DurationUnit: ledger.UnitWeeks,
		}, nil)
		mm.repo.EXPECT().UpdateLoan(gomock.Any(), gomock.Any()).Return(nil)

		weeks := 20
		got, err := svc.Update(context.Background(), id, loan.UpdateParams{DurationNumber: &weeks})

		require.NoError(t, err)
		require.NotNil(t, got.WeeklyInstallment)
		assert.True(t, dec("55").Equal(*got.WeeklyInstallment))
	})

	t.Run("Principal locked after disbursement", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, mm := newService(ctrl)
		mm.repo.EXPECT().GetLoan(gomock.Any(), id).Return(&loan.Loan{ID: id, Status: loan.StatusActive, Amount: dec("1000")}, nil)

		amount := dec("1500")
		_, err := svc.Update(context.Background(), id, loan.UpdateParams{Amount: &amount})

		assert.ErrorIs(t, err, loan.ErrPrincipalLocked)
	})

	g := &group.Group{ID: uuid.New(), SavingsAmountPerShare: dec("50")}
	borrower := &member.Member{ID: uuid.New(), GroupID: g.ID, Totals: member.Totals{SavingsTotal: dec("300"), TotalShares: 4}}

	pending := func() *loan.Loan {
		return &loan.Loan{
			ID: id, GroupID: g.ID, ClientID: borrower.ID, Status: loan.StatusPending,
			Amount: dec("200"), InterestRate: dec("10"), DurationNumber: 10, DurationUnit: ledger.UnitWeeks,
		}
	}

	t.Run("Raised principal over the limit is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, mm := newService(ctrl)
		mm.repo.EXPECT().GetLoan(gomock.Any(), id).Return(pending(), nil)
		mm.groups.EXPECT().Resolve(gomock.Any(), &g.ID).Return(g, nil)
		mm.members.EXPECT().GetMember(gomock.Any(), borrower.ID).Return(borrower, nil)

		amount := dec("1000000")
		_, err := svc.Update(context.Background(), id, loan.UpdateParams{Amount: &amount})

		assert.ErrorIs(t, err, credit.ErrOverLimit)

		appErr, ok := apperr.As(err)
		require.True(t, ok)
		assert.True(t, dec("300").Equal(appErr.Fields["creditLimit"].(decimal.Decimal)))
	})

	t.Run("Raised principal within the limit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, mm := newService(ctrl)
		mm.repo.EXPECT().GetLoan(gomock.Any(), id).Return(pending(), nil)
		mm.groups.EXPECT().Resolve(gomock.Any(), &g.ID).Return(g, nil)
		mm.members.EXPECT().GetMember(gomock.Any(), borrower.ID).Return(borrower, nil)
		mm.repo.EXPECT().UpdateLoan(gomock.Any(), gomock.Any()).Return(nil)

		amount := dec("299.999")
		got, err := svc.Update(context.Background(), id, loan.UpdateParams{Amount: &amount})

		require.NoError(t, err)
		assert.True(t, dec("300").Equal(got.Amount))
		require.NotNil(t, got.WeeklyInstallment)
		assert.True(t, dec("33").Equal(*got.WeeklyInstallment))
	})
}
