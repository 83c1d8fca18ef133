package group

// Office is a leadership position on the group committee.
type Office string

const (
	OfficeChairperson     Office = "chairperson"
	OfficeRecordKeeper    Office = "recordKeeper"
	OfficeBoxKeeper       Office = "boxKeeper"
	OfficeMoneyCounterOne Office = "moneyCounterOne"
	OfficeMoneyCounterTwo Office = "moneyCounterTwo"
	OfficeKeyholderOne    Office = "keyholderOne"
	OfficeKeyholderTwo    Office = "keyholderTwo"
	OfficeKeyholderThree  Office = "keyholderThree"
	OfficePoliceOne       Office = "policeOne"
	OfficePoliceTwo       Office = "policeTwo"
)

var offices = []Office{
	OfficeChairperson,
	OfficeRecordKeeper,
	OfficeBoxKeeper,
	OfficeMoneyCounterOne,
	OfficeMoneyCounterTwo,
	OfficeKeyholderOne,
	OfficeKeyholderTwo,
	OfficeKeyholderThree,
	OfficePoliceOne,
	OfficePoliceTwo,
}

// legacyOffices maps canonical offices to the names older clients still send.
var legacyOffices = map[Office]string{
	OfficeChairperson:  "president",
	OfficeRecordKeeper: "security",
	OfficeBoxKeeper:    "treasurer",
	OfficePoliceOne:    "police1",
	OfficePoliceTwo:    "police2",
}

// Officer is the person holding an office.
type Officer struct {
	Name   string `json:"name,omitempty"`
	Number string `json:"number,omitempty"`
}

// Leadership is the committee of a group, keyed by office.
type Leadership map[Office]Officer

// LeadershipFromFields reads flat "<office>Name" / "<office>Number" keys as
// sent by clients. A legacy key only fills a value whose canonical key is
// absent or empty.
func LeadershipFromFields(fields map[string]string) Leadership {
	l := Leadership{}

	for _, o := range offices {
		name := fields[string(o)+"Name"]
		number := fields[string(o)+"Number"]

		if legacy, ok := legacyOffices[o]; ok {
			if name == "" {
				name = fields[legacy+"Name"]
			}

			if number == "" {
				number = fields[legacy+"Number"]
			}
		}

		if name == "" && number == "" {
			continue
		}

		l[o] = Officer{Name: name, Number: number}
	}

	return l
}

// IsLeadershipField reports whether key is a canonical or legacy leadership key.
func IsLeadershipField(key string) bool {
	for _, o := range offices {
		if key == string(o)+"Name" || key == string(o)+"Number" {
			return true
		}

		if legacy, ok := legacyOffices[o]; ok && (key == legacy+"Name" || key == legacy+"Number") {
			return true
		}
	}

	return false
}

// Fields flattens the committee to canonical keys, mirrored onto the legacy
// keys for clients that have not migrated.
func (l Leadership) Fields() map[string]string {
	out := make(map[string]string, len(l)*4)

	for o, officer := range l {
		keys := []string{string(o)}
		if legacy, ok := legacyOffices[o]; ok {
			keys = append(keys, legacy)
		}

		for _, k := range keys {
			if officer.Name != "" {
				out[k+"Name"] = officer.Name
			}

			if officer.Number != "" {
				out[k+"Number"] = officer.Number
			}
		}
	}

	return out
}

// Merge returns l with the non-empty values of other applied on top.
func (l Leadership) Merge(other Leadership) Leadership {
	out := make(Leadership, len(l)+len(other))
	for o, officer := range l {
		out[o] = officer
	}

	for o, officer := range other {
		cur := out[o]
		if officer.Name != "" {
			cur.Name = officer.Name
		}

		if officer.Number != "" {
			cur.Number = officer.Number
		}

		out[o] = cur
	}

	return out
}
