package model

import "time"

type OccasionKind string

const (
	OccasionBirthday    OccasionKind = "birthday"
	OccasionAnniversary OccasionKind = "anniversary"
)

// Occasion is one greeting to send today.
type Occasion struct {
	Kind          OccasionKind
	OwnerID       string // user the record belongs to
	RecipientName string
	Mobile        string
	FromCustomer  bool
}

// SameCalendarDay matches month and day ignoring the year. A 29 February
// date matches 28 February when today's year is not a leap year.
func SameCalendarDay(date, today time.Time) bool {
	m, d := date.Month(), date.Day()
	if m == time.February && d == 29 && !isLeap(today.Year()) {
		d = 28
	}
	return today.Month() == m && today.Day() == d
}

func isLeap(y int) bool { return y%4 == 0 && (y%100 != 0 || y%400 == 0) }

// OccasionsOn lists every birthday and anniversary on today for the user and
// the user's customers. Stored dates are calendar dates; today must already
// be in the notifier's time zone.
func OccasionsOn(u *User, today time.Time) []Occasion {
	var out []Occasion
	match := func(d *time.Time) bool { return d != nil && SameCalendarDay(*d, today) }

	if match(u.DOB) {
		out = append(out, Occasion{Kind: OccasionBirthday, OwnerID: u.ID, RecipientName: u.DisplayName(), Mobile: u.Mobile})
	}
	if match(u.MarriageAnniversaryDate) {
		out = append(out, Occasion{Kind: OccasionAnniversary, OwnerID: u.ID, RecipientName: u.DisplayName(), Mobile: u.Mobile})
	}
	for _, c := range u.Customers {
		if match(c.DOB) {
			out = append(out, Occasion{Kind: OccasionBirthday, OwnerID: u.ID, RecipientName: c.Name, Mobile: c.Mobile, FromCustomer: true})
		}
		if match(c.AnniversaryDate) {
			out = append(out, Occasion{Kind: OccasionAnniversary, OwnerID: u.ID, RecipientName: c.Name, Mobile: c.Mobile, FromCustomer: true})
		}
	}
	return out
}

// IsBirthday reports whether the user's own birthday falls on today.
func (u *User) IsBirthday(today time.Time) bool {
	return u.DOB != nil && SameCalendarDay(*u.DOB, today)
}
