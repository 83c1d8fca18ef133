package group

import (
	"github.com/MrJamesThe3rd/vsla/internal/group"
)

// toResponse flattens the committee into top-level "<office>Name" and
// "<office>Number" keys next to the group fields.
func toResponse(g *group.Group) map[string]any {
	resp := map[string]any{
		"id":                    g.ID,
		"groupName":             g.Name,
		"groupCode":             g.Code,
		"branchName":            g.BranchName,
		"organizationName":      g.OrganizationName,
		"meetingDay":            g.MeetingDay,
		"meetingTime":           g.MeetingTime,
		"loanOfficer":           g.LoanOfficer,
		"community":             g.Community,
		"status":                g.Status,
		"totalGroupCount":       g.TotalGroupCount,
		"savingsDurationMonths": g.SavingsDurationMonths,
		"savingsamount":         g.SavingsAmountPerShare,
		"socialfundamount":      g.SocialFundAmount,
		"meetingFineAmount":     g.MeetingFineAmount,
		"groupsavings":          g.GroupSavings,
		"totalShares":           g.TotalShares,
		"membersavingsshare":    g.MemberSavingsShare,
		"totalsocialfund":       g.TotalSocialFund,
		"totalExpenses":         g.TotalExpenses,
		"totalFines":            g.TotalFines,
		"totalLoanAmount":       g.TotalLoanAmount,
		"totalLoans":            g.TotalLoans,
		"totalDistributed":      g.TotalDistributed,
		"createdAt":             g.CreatedAt,
		"updatedAt":             g.UpdatedAt,
	}

	for k, v := range g.Leadership.Fields() {
		resp[k] = v
	}

	return resp
}

func toResponseList(groups []*group.Group) []map[string]any {
	resp := make([]map[string]any, len(groups))
	for i, g := range groups {
		resp[i] = toResponse(g)
	}

	return resp
}
