package roster

import "strings"

// Profile is the column layout of a known roster export.
type Profile struct {
	Name          string
	NameCol       string
	AgeCol        string
	GuardianCol   string
	NumberCol     string
	AdmissionCol  string
	NationalIDCol string
	// PhoneCol is optional.
	PhoneCol string
}

func (p Profile) requiredCols() []string {
	return []string{p.NameCol, p.AgeCol, p.GuardianCol, p.NumberCol, p.AdmissionCol, p.NationalIDCol}
}

// profiles are tried in order against each candidate header row.
var profiles = []Profile{
	{
		Name:          "api",
		NameCol:       "membername",
		AgeCol:        "memberage",
		GuardianCol:   "guardianname",
		NumberCol:     "membernumber",
		AdmissionCol:  "admissiondate",
		NationalIDCol: "nationalid",
		PhoneCol:      "phone",
	},
	{
		Name:          "register",
		NameCol:       "name",
		AgeCol:        "age",
		GuardianCol:   "guardian",
		NumberCol:     "no.",
		AdmissionCol:  "date joined",
		NationalIDCol: "id number",
		PhoneCol:      "phone number",
	},
}

// normalizeHeader lowercases a header cell and collapses inner whitespace.
func normalizeHeader(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
