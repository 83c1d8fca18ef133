package group

import "github.com/MrJamesThe3rd/vsla/internal/apperr"

const singleGroupMessage = "this system is configured for a single organization group"

var (
	ErrNotFound       = apperr.NotFound("group not found")
	ErrGroupRequired  = apperr.Validation("group is required")
	ErrNoActiveGroup  = apperr.NotFound("no active group found, create the organization group first")
	ErrNotActiveGroup = apperr.Validation(singleGroupMessage + ", use the active group only")
	ErrSingleGroup    = apperr.Rejected(singleGroupMessage + ", update the existing group instead of creating another one")
	ErrDeleteDisabled = apperr.Rejected(singleGroupMessage + ", group deletion is disabled")
	ErrHasMembers     = apperr.Rejected("group still has members")
	ErrDuplicateCode  = apperr.Rejected("group with this code already exists")
	ErrMissingFields  = apperr.Validation("groupName and branchName are required")
	ErrNegativeAmount = apperr.Validation("configured amounts must not be negative")
)
