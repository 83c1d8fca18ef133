package member

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vsla/internal/apperr"
)

var (
	ErrNotFound      = apperr.NotFound("member not found")
	ErrNotInGroup    = apperr.Relationship("member does not belong to this group")
	ErrMissingFields = apperr.Validation("memberName, memberAge, guardianName, memberNumber, admissionDate and nationalId are required")
	ErrHasLedger     = apperr.Rejected("member has ledger entries and cannot be removed")
	ErrEmptyImport   = apperr.Validation("roster contains no members")
)

// Attendance is one meeting record.
type Attendance struct {
	Date    time.Time `json:"date"`
	Present bool      `json:"present"`
}

// Totals are the running aggregates of a member, changed only by ledger entries.
type Totals struct {
	SavingsTotal        decimal.Decimal
	TotalShares         int64
	InterestEarnedTotal decimal.Decimal
	SocialFundTotal     decimal.Decimal
}

type Member struct {
	ID            uuid.UUID
	GroupID       uuid.UUID
	Name          string
	Image         string
	Age           int
	GuardianName  string
	Phone         string
	Number        string
	AdmissionDate time.Time
	NationalID    string
	Signature     string
	Attendance    []Attendance

	Totals

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// BelongsTo reports whether the member is registered under groupID.
func (m *Member) BelongsTo(groupID uuid.UUID) bool {
	return m.GroupID == groupID
}
