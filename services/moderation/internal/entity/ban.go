package entity

import "time"

// BanTicket suspends a user's content-mutating actions. A nil Expiry is a
// permanent ban until lifted.
type BanTicket struct {
	ID        string     `json:"id"`
	UserName  string     `json:"user_name"`
	Expiry    *time.Time `json:"expiry,omitempty"`
	BannedBy  string     `json:"banned_by"`
	Reason    string     `json:"reason,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (t *BanTicket) IsPermanent() bool {
	return t.Expiry == nil
}
