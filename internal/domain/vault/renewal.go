package vault

import "time"

// RenewalWindowDays is how far ahead the upcoming-renewals view looks.
const RenewalWindowDays = 30

// UpcomingRenewal is a derived read-only view row: a credential nearing
// expiry with its computed days remaining. It has no create/update/delete
// counterpart and must not be treated as an independent store.
type UpcomingRenewal struct {
	ClientName  string
	Category    Category
	Provider    string
	ServiceName string
	Expiry      time.Time
	DaysLeft    int
}
