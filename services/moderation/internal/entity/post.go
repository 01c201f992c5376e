package entity

import "time"

type PostKind string

const (
	KindBlog    PostKind = "blog"
	KindComment PostKind = "comment"
)

func (k PostKind) Valid() bool {
	return k == KindBlog || k == KindComment
}

// PostRef addresses a blog or a comment.
type PostRef struct {
	Kind PostKind `json:"kind"`
	ID   string   `json:"id"`
}

func BlogRef(id string) PostRef    { return PostRef{Kind: KindBlog, ID: id} }
func CommentRef(id string) PostRef { return PostRef{Kind: KindComment, ID: id} }

func (r PostRef) String() string {
	return string(r.Kind) + ":" + r.ID
}

type Visibility string

const (
	VisibilityVisible  Visibility = "visible"
	VisibilityHidden   Visibility = "hidden"
	VisibilityReported Visibility = "reported"
)

// Post holds the fields shared by blogs and comments.
//
// Visibility is a single state; ReportTicketID is set exactly when the
// visibility is Reported. The transition methods below keep that invariant.
type Post struct {
	ID             string     `json:"id"`
	Body           string     `json:"body"`
	AuthorUserName string     `json:"author_user_name"`
	CreatedAt      time.Time  `json:"creation_time"`
	UpdatedAt      time.Time  `json:"last_update_time"`
	Visibility     Visibility `json:"visibility"`
	ReportTicketID *string    `json:"report_ticket_id,omitempty"`
	ToBeDeleted    bool       `json:"to_be_deleted"`
	DeletedAt      *time.Time `json:"-"`
	Version        int        `json:"-"`
}

func NewPost(body, author string, now time.Time) Post {
	return Post{
		Body:           body,
		AuthorUserName: author,
		CreatedAt:      now,
		UpdatedAt:      now,
		Visibility:     VisibilityVisible,
	}
}

func (p *Post) IsModified() bool {
	return !p.UpdatedAt.Equal(p.CreatedAt)
}

func (p *Post) IsHidden() bool {
	return p.Visibility == VisibilityHidden
}

func (p *Post) IsReported() bool {
	return p.Visibility == VisibilityReported
}

// IsHiddenOrReported reports whether a moderator flag blocks self-editing.
func (p *Post) IsHiddenOrReported() bool {
	return p.IsHidden() || p.IsReported()
}

// Hide moves the post to Hidden. A pending report is detached and its id
// returned so the caller can close the ticket.
func (p *Post) Hide() (closedReport *string, changed bool) {
	if p.IsHidden() {
		return nil, false
	}
	closedReport = p.detachReport()
	p.Visibility = VisibilityHidden
	return closedReport, true
}

func (p *Post) Unhide() bool {
	if !p.IsHidden() {
		return false
	}
	p.Visibility = VisibilityVisible
	return true
}

// AttachReport puts a visible post under review. Only one open report is
// allowed and hidden posts cannot be reported.
func (p *Post) AttachReport(ticketID string) error {
	if p.Visibility != VisibilityVisible {
		return ErrInvalidTransition
	}
	p.Visibility = VisibilityReported
	p.ReportTicketID = &ticketID
	return nil
}

// DismissReport returns a reported post to Visible.
func (p *Post) DismissReport() (closedReport *string, changed bool) {
	if !p.IsReported() {
		return nil, false
	}
	return p.detachReport(), true
}

// MarkForDeletion sets the soft-delete marker. A pending report counts as
// acted upon and is detached.
func (p *Post) MarkForDeletion(now time.Time) (closedReport *string, err error) {
	if p.ToBeDeleted {
		return nil, ErrInvalidTransition
	}
	closedReport = p.detachReport()
	p.ToBeDeleted = true
	p.DeletedAt = &now
	return closedReport, nil
}

func (p *Post) Restore() error {
	if !p.ToBeDeleted {
		return ErrInvalidTransition
	}
	p.ToBeDeleted = false
	p.DeletedAt = nil
	return nil
}

func (p *Post) detachReport() *string {
	if !p.IsReported() {
		return nil
	}
	id := p.ReportTicketID
	p.ReportTicketID = nil
	p.Visibility = VisibilityVisible
	return id
}

// Blog is a top-level thread.
type Blog struct {
	Post
	Title         string `json:"title"`
	Introduction  string `json:"introduction"`
	CoverImageURI string `json:"cover_image_uri,omitempty"`
	ViewCount     int64  `json:"view_count"`
}

func (b *Blog) Ref() PostRef {
	return BlogRef(b.ID)
}

// Comment belongs to exactly one blog and is purged with it.
type Comment struct {
	Post
	BlogID string `json:"blog_id"`
}

func (c *Comment) Ref() PostRef {
	return CommentRef(c.ID)
}
