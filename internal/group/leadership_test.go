package group_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/vsla/internal/group"
)

func TestLeadershipFromFields(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
		want   group.Leadership
	}{
		{
			name:   "Canonical keys",
			fields: map[string]string{"chairpersonName": "Ama", "chairpersonNumber": "0770"},
			want:   group.Leadership{group.OfficeChairperson: {Name: "Ama", Number: "0770"}},
		},
		{
			name:   "Legacy keys fill canonical offices",
			fields: map[string]string{"presidentName": "Kofi", "treasurerNumber": "0880", "police2Name": "Esi"},
			want: group.Leadership{
				group.OfficeChairperson: {Name: "Kofi"},
				group.OfficeBoxKeeper:   {Number: "0880"},
				group.OfficePoliceTwo:   {Name: "Esi"},
			},
		},
		{
			name:   "Canonical key wins over legacy",
			fields: map[string]string{"recordKeeperName": "New", "securityName": "Old"},
			want:   group.Leadership{group.OfficeRecordKeeper: {Name: "New"}},
		},
		{
			name:   "Offices without legacy names",
			fields: map[string]string{"keyholderThreeName": "Yaw"},
			want:   group.Leadership{group.OfficeKeyholderThree: {Name: "Yaw"}},
		},
		{
			name:   "Empty",
			fields: map[string]string{"groupName": "ignored"},
			want:   group.Leadership{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, group.LeadershipFromFields(tt.fields))
		})
	}
}

func TestLeadership_Fields(t *testing.T) {
	l := group.Leadership{
		group.OfficeChairperson:  {Name: "Ama", Number: "0770"},
		group.OfficeKeyholderOne: {Name: "Yaw"},
	}

	got := l.Fields()

	assert.Equal(t, map[string]string{
		"chairpersonName":   "Ama",
		"chairpersonNumber": "0770",
		"presidentName":     "Ama",
		"presidentNumber":   "0770",
		"keyholderOneName":  "Yaw",
	}, got)
}

func TestLeadership_FieldsRoundTrip(t *testing.T) {
	l := group.Leadership{
		group.OfficeBoxKeeper: {Name: "Kojo", Number: "0555"},
		group.OfficePoliceOne: {Name: "Abena"},
	}

	assert.Equal(t, l, group.LeadershipFromFields(l.Fields()))
}

func TestLeadership_Merge(t *testing.T) {
	base := group.Leadership{
		group.OfficeChairperson: {Name: "Ama", Number: "0770"},
	}

	got := base.Merge(group.Leadership{
		group.OfficeChairperson:  {Number: "0999"},
		group.OfficeRecordKeeper: {Name: "Efua"},
	})

	assert.Equal(t, group.Leadership{
		group.OfficeChairperson:  {Name: "Ama", Number: "0999"},
		group.OfficeRecordKeeper: {Name: "Efua"},
	}, got)
	assert.Equal(t, "0770", base[group.OfficeChairperson].Number, "receiver is not modified")
}

func TestIsLeadershipField(t *testing.T) {
	assert.True(t, group.IsLeadershipField("boxKeeperNumber"))
	assert.True(t, group.IsLeadershipField("police1Name"))
	assert.False(t, group.IsLeadershipField("groupName"))
}
