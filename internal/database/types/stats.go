package types

// TicketStats holds per-status ticket counts for the dashboard.
// Counts are always derived from current rows, never stored.
type TicketStats struct {
	Open         int `json:"open"`
	InProgress   int `json:"inProgress"`
	AwaitingUser int `json:"awaitingUser"`
	Resolved     int `json:"resolved"`
	Closed       int `json:"closed"`
	Total        int `json:"total"`
}

// AppealStats holds deleted-ad and appeal counts for the dashboard.
type AppealStats struct {
	TotalDeleted int `json:"totalDeleted"`
	CanAppeal    int `json:"canAppeal"`
	Pending      int `json:"pending"`
	Approved     int `json:"approved"`
	Rejected     int `json:"rejected"`
}

// SupportStats bundles both stat groups into one dashboard snapshot.
type SupportStats struct {
	Tickets TicketStats `json:"tickets"`
	Appeals AppealStats `json:"appeals"`
}
