package entity

import "time"

// ReportTicket is a flag raised against exactly one blog or comment. Rows are
// kept after a moderator acts on them.
type ReportTicket struct {
	ID                string     `json:"id"`
	CreatedAt         time.Time  `json:"creation_date"`
	ActionDate        *time.Time `json:"action_date,omitempty"`
	BlogID            *string    `json:"blog_id,omitempty"`
	CommentID         *string    `json:"comment_id,omitempty"`
	ReportingUserName string     `json:"reporting_user_name"`
	Reason            string     `json:"reason,omitempty"`
}

func NewReportTicket(ref PostRef, reporter, reason string, now time.Time) *ReportTicket {
	ticket := &ReportTicket{
		CreatedAt:         now,
		ReportingUserName: reporter,
		Reason:            reason,
	}
	id := ref.ID
	if ref.Kind == KindComment {
		ticket.CommentID = &id
	} else {
		ticket.BlogID = &id
	}
	return ticket
}

func (r *ReportTicket) Target() PostRef {
	if r.CommentID != nil {
		return CommentRef(*r.CommentID)
	}
	if r.BlogID != nil {
		return BlogRef(*r.BlogID)
	}
	return PostRef{}
}

func (r *ReportTicket) IsOpen() bool {
	return r.ActionDate == nil
}

// Close records that a moderator dismissed or acted on the report.
func (r *ReportTicket) Close(at time.Time) bool {
	if !r.IsOpen() {
		return false
	}
	r.ActionDate = &at
	return true
}
