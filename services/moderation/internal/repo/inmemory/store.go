// Package inmemory is a Repository kept in process memory for use case and
// controller tests.
package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"simple-forum/services/moderation/internal/entity"
	"simple-forum/services/moderation/internal/repo"

	"github.com/google/uuid"
)

type state struct {
	blogs    map[string]*entity.Blog
	comments map[string]*entity.Comment
	bans     map[string]*entity.BanTicket
	reports  map[string]*entity.ReportTicket
}

func newState() *state {
	return &state{
		blogs:    make(map[string]*entity.Blog),
		comments: make(map[string]*entity.Comment),
		bans:     make(map[string]*entity.BanTicket),
		reports:  make(map[string]*entity.ReportTicket),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.blogs {
		b := *v
		c.blogs[k] = &b
	}
	for k, v := range s.comments {
		cm := *v
		c.comments[k] = &cm
	}
	for k, v := range s.bans {
		t := *v
		c.bans[k] = &t
	}
	for k, v := range s.reports {
		t := *v
		c.reports[k] = &t
	}
	return c
}

// Store serializes every call behind one mutex. A transaction holds the
// mutex for its whole duration and works on a copy that replaces the live
// state only when fn succeeds.
type Store struct {
	mu    *sync.Mutex
	state *state
}

func NewStore() *Store {
	return &Store{mu: &sync.Mutex{}, state: newState()}
}

var _ repo.Repository = (*Store)(nil)

// lock is a no-op inside a transaction, where the outer store holds the mutex.
func (s *Store) lock() func() {
	if s.mu == nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) Transaction(ctx context.Context, fn func(repo.Repository) error) error {
	defer s.lock()()
	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.state.clone()
	if err := fn(&Store{state: work}); err != nil {
		return err
	}
	*s.state = *work
	return nil
}

func (s *Store) CreateBlog(ctx context.Context, blog *entity.Blog) error {
	defer s.lock()()
	if blog.ID == "" {
		blog.ID = uuid.New().String()
	}
	stored := *blog
	s.state.blogs[blog.ID] = &stored
	return nil
}

func (s *Store) GetBlog(ctx context.Context, id string) (*entity.Blog, error) {
	defer s.lock()()
	b, ok := s.state.blogs[id]
	if !ok || b.ToBeDeleted {
		return nil, entity.ErrNotFound
	}
	out := *b
	return &out, nil
}

func (s *Store) GetBlogIncludingDeleted(ctx context.Context, id string) (*entity.Blog, error) {
	defer s.lock()()
	b, ok := s.state.blogs[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	out := *b
	return &out, nil
}

func (s *Store) ListBlogs(ctx context.Context, limit, offset int) ([]*entity.Blog, error) {
	defer s.lock()()
	blogs := make([]*entity.Blog, 0, len(s.state.blogs))
	for _, b := range s.state.blogs {
		if b.ToBeDeleted {
			continue
		}
		out := *b
		blogs = append(blogs, &out)
	}
	sort.Slice(blogs, func(i, j int) bool {
		if blogs[i].CreatedAt.Equal(blogs[j].CreatedAt) {
			return blogs[i].ID < blogs[j].ID
		}
		return blogs[i].CreatedAt.After(blogs[j].CreatedAt)
	})
	return page(blogs, limit, offset), nil
}

func (s *Store) UpdateBlogContent(ctx context.Context, blog *entity.Blog) error {
	defer s.lock()()
	b, ok := s.state.blogs[blog.ID]
	if !ok || b.ToBeDeleted {
		return entity.ErrNotFound
	}
	b.Title = blog.Title
	b.Introduction = blog.Introduction
	b.Body = blog.Body
	b.CoverImageURI = blog.CoverImageURI
	b.UpdatedAt = blog.UpdatedAt
	b.Version++
	blog.Version = b.Version
	return nil
}

func (s *Store) IncrementBlogViews(ctx context.Context, id string) error {
	defer s.lock()()
	b, ok := s.state.blogs[id]
	if !ok || b.ToBeDeleted {
		return entity.ErrNotFound
	}
	b.ViewCount++
	return nil
}

func (s *Store) CreateComment(ctx context.Context, comment *entity.Comment) error {
	defer s.lock()()
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	stored := *comment
	s.state.comments[comment.ID] = &stored
	return nil
}

func (s *Store) GetComment(ctx context.Context, id string) (*entity.Comment, error) {
	defer s.lock()()
	c, ok := s.state.comments[id]
	if !ok || c.ToBeDeleted {
		return nil, entity.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (s *Store) ListCommentsByBlog(ctx context.Context, blogID string) ([]*entity.Comment, error) {
	defer s.lock()()
	comments := make([]*entity.Comment, 0)
	for _, c := range s.state.comments {
		if c.BlogID != blogID || c.ToBeDeleted {
			continue
		}
		out := *c
		comments = append(comments, &out)
	}
	sort.Slice(comments, func(i, j int) bool {
		if comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].ID < comments[j].ID
		}
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

func (s *Store) UpdateCommentContent(ctx context.Context, comment *entity.Comment) error {
	defer s.lock()()
	c, ok := s.state.comments[comment.ID]
	if !ok || c.ToBeDeleted {
		return entity.ErrNotFound
	}
	c.Body = comment.Body
	c.UpdatedAt = comment.UpdatedAt
	c.Version++
	comment.Version = c.Version
	return nil
}

// post returns the live shared state of a blog or comment, marked or not.
func (s *Store) post(ref entity.PostRef) (*entity.Post, bool) {
	switch ref.Kind {
	case entity.KindBlog:
		if b, ok := s.state.blogs[ref.ID]; ok {
			return &b.Post, true
		}
	case entity.KindComment:
		if c, ok := s.state.comments[ref.ID]; ok {
			return &c.Post, true
		}
	}
	return nil, false
}

func (s *Store) GetPostForUpdate(ctx context.Context, ref entity.PostRef) (*entity.Post, error) {
	defer s.lock()()
	p, ok := s.post(ref)
	if !ok {
		return nil, entity.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (s *Store) SavePostState(ctx context.Context, ref entity.PostRef, post *entity.Post) error {
	defer s.lock()()
	p, ok := s.post(ref)
	if !ok || p.Version != post.Version {
		return entity.ErrConcurrentUpdate
	}
	p.Visibility = post.Visibility
	p.ReportTicketID = post.ReportTicketID
	p.ToBeDeleted = post.ToBeDeleted
	p.DeletedAt = post.DeletedAt
	p.Version++
	post.Version = p.Version
	return nil
}

func (s *Store) PurgePost(ctx context.Context, ref entity.PostRef) error {
	defer s.lock()()
	switch ref.Kind {
	case entity.KindBlog:
		if _, ok := s.state.blogs[ref.ID]; !ok {
			return entity.ErrNotFound
		}
		for id, c := range s.state.comments {
			if c.BlogID == ref.ID {
				delete(s.state.comments, id)
			}
		}
		delete(s.state.blogs, ref.ID)
	case entity.KindComment:
		if _, ok := s.state.comments[ref.ID]; !ok {
			return entity.ErrNotFound
		}
		delete(s.state.comments, ref.ID)
	default:
		return entity.ErrNotFound
	}
	return nil
}

func (s *Store) ListMarkedBefore(ctx context.Context, kind entity.PostKind, cutoff time.Time) ([]string, error) {
	defer s.lock()()
	var posts []*entity.Post
	switch kind {
	case entity.KindBlog:
		for _, b := range s.state.blogs {
			posts = append(posts, &b.Post)
		}
	case entity.KindComment:
		for _, c := range s.state.comments {
			posts = append(posts, &c.Post)
		}
	}

	var marked []*entity.Post
	for _, p := range posts {
		if p.ToBeDeleted && p.DeletedAt != nil && !p.DeletedAt.After(cutoff) {
			marked = append(marked, p)
		}
	}
	sort.Slice(marked, func(i, j int) bool {
		return marked[i].DeletedAt.Before(*marked[j].DeletedAt)
	})

	ids := make([]string, len(marked))
	for i, p := range marked {
		ids[i] = p.ID
	}
	return ids, nil
}

func (s *Store) FindBanTicket(ctx context.Context, userName string) (*entity.BanTicket, error) {
	defer s.lock()()
	t, ok := s.state.bans[userName]
	if !ok {
		return nil, entity.ErrNotFound
	}
	out := *t
	return &out, nil
}

func (s *Store) UpsertBanTicket(ctx context.Context, ticket *entity.BanTicket) error {
	defer s.lock()()
	if existing, ok := s.state.bans[ticket.UserName]; ok {
		existing.Expiry = ticket.Expiry
		existing.BannedBy = ticket.BannedBy
		existing.Reason = ticket.Reason
		existing.UpdatedAt = ticket.UpdatedAt
		*ticket = *existing
		return nil
	}
	if ticket.ID == "" {
		ticket.ID = uuid.New().String()
	}
	stored := *ticket
	s.state.bans[ticket.UserName] = &stored
	return nil
}

func (s *Store) DeleteBanTicket(ctx context.Context, userName string) error {
	defer s.lock()()
	if _, ok := s.state.bans[userName]; !ok {
		return entity.ErrNotFound
	}
	delete(s.state.bans, userName)
	return nil
}

func (s *Store) CreateReportTicket(ctx context.Context, ticket *entity.ReportTicket) error {
	defer s.lock()()
	if ticket.ID == "" {
		ticket.ID = uuid.New().String()
	}
	stored := *ticket
	s.state.reports[ticket.ID] = &stored
	return nil
}

func (s *Store) GetReportTicket(ctx context.Context, id string) (*entity.ReportTicket, error) {
	defer s.lock()()
	t, ok := s.state.reports[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	out := *t
	return &out, nil
}

func (s *Store) CloseReportTicket(ctx context.Context, id string, at time.Time) error {
	defer s.lock()()
	t, ok := s.state.reports[id]
	if !ok {
		return entity.ErrNotFound
	}
	t.Close(at)
	return nil
}

func (s *Store) ListOpenReportTickets(ctx context.Context, limit, offset int) ([]*entity.ReportTicket, error) {
	defer s.lock()()
	tickets := make([]*entity.ReportTicket, 0)
	for _, t := range s.state.reports {
		if !t.IsOpen() {
			continue
		}
		out := *t
		tickets = append(tickets, &out)
	}
	sort.Slice(tickets, func(i, j int) bool {
		if tickets[i].CreatedAt.Equal(tickets[j].CreatedAt) {
			return tickets[i].ID < tickets[j].ID
		}
		return tickets[i].CreatedAt.Before(tickets[j].CreatedAt)
	})
	return page(tickets, limit, offset), nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
