package store

import (
	"context"
	"sync"

	"upi-cli/internal/api"
	"upi-cli/internal/model"
)

// ContentAPI is the slice of the API client the content store uses.
type ContentAPI interface {
	ListBlogs(ctx context.Context, f model.BlogFilters) ([]model.Post, error)
	GetBlog(ctx context.Context, slug string) (*model.Post, error)
	CreateBlog(ctx context.Context, p api.BlogPayload) (*model.Post, error)
	UpdateBlog(ctx context.Context, id string, p api.BlogPayload) (*model.Post, error)
	DeleteBlog(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, id string) (*api.LikeResult, error)
	AddComment(ctx context.Context, id, content string) (*model.Comment, error)
	BlogStats(ctx context.Context) (*model.BlogStats, error)
}

// ContentStore caches the post list, the currently viewed post, and the
// aggregate stats. Like and comment are confirmation-gated: display state
// changes only after the server response lands. Responses for superseded
// like requests are discarded (per-entity sequence fencing).
type ContentStore struct {
	api    ContentAPI
	notify Notify

	mu      sync.Mutex
	posts   []model.Post
	current *model.Post
	stats   *model.BlogStats
	lastErr string
	loading bool

	// likeSeq tracks the latest issued like request per post. A response is
	// applied only if it belongs to the latest request for that post.
	likeSeq map[string]uint64
}

func NewContentStore(a ContentAPI, notify Notify) *ContentStore {
	return &ContentStore{
		api:     a,
		notify:  notify,
		likeSeq: map[string]uint64{},
	}
}

// Posts returns the cached list (wholesale-replaced by List).
func (s *ContentStore) Posts() []model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.posts
}

// Current returns the currently viewed post, or nil.
func (s *ContentStore) Current() *model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *ContentStore) Stats() *model.BlogStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// LastError is the shared error slot set by list/get/create/update/delete
// (not by like/comment). Empty when the last such call succeeded.
func (s *ContentStore) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Loading reports whether a store operation is in flight. The flag is
// cleared on every exit path, including failures.
func (s *ContentStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *ContentStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *ContentStore) fail(err error, shared bool) error {
	s.mu.Lock()
	if shared {
		s.lastErr = err.Error()
	}
	s.mu.Unlock()
	s.notify.send(err.Error())
	return err
}

// List replaces the cached list with the server's response. No merging
// across calls: each call is a full replace.
func (s *ContentStore) List(ctx context.Context, f model.BlogFilters) error {
	s.setLoading(true)
	defer s.setLoading(false)

	posts, err := s.api.ListBlogs(ctx, f)
	if err != nil {
		return s.fail(err, true)
	}
	s.mu.Lock()
	s.posts = posts
	s.lastErr = ""
	s.mu.Unlock()
	return nil
}

// GetBySlug replaces the current-post slot wholesale.
func (s *ContentStore) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	p, err := s.api.GetBlog(ctx, slug)
	if err != nil {
		return nil, s.fail(err, true)
	}
	s.mu.Lock()
	s.current = p
	s.lastErr = ""
	s.mu.Unlock()
	return p, nil
}

// Create posts a new blog. The response is not merged into the list; the
// caller reloads when it wants fresh data.
func (s *ContentStore) Create(ctx context.Context, payload api.BlogPayload) (*model.Post, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	p, err := s.api.CreateBlog(ctx, payload)
	if err != nil {
		return nil, s.fail(err, true)
	}
	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()
	s.notify.send("post created: " + p.Title)
	return p, nil
}

func (s *ContentStore) Update(ctx context.Context, id string, payload api.BlogPayload) (*model.Post, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	p, err := s.api.UpdateBlog(ctx, id, payload)
	if err != nil {
		return nil, s.fail(err, true)
	}
	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()
	s.notify.send("post updated: " + p.Title)
	return p, nil
}

// Delete removes the post from the cached list only after the server call
// succeeds; a failed delete leaves the list unchanged.
func (s *ContentStore) Delete(ctx context.Context, id string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.api.DeleteBlog(ctx, id); err != nil {
		return s.fail(err, true)
	}
	s.mu.Lock()
	kept := s.posts[:0]
	for _, p := range s.posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.posts = kept
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	s.lastErr = ""
	s.mu.Unlock()
	s.notify.send("post deleted")
	return nil
}

// ToggleLike issues the call and applies the server's authoritative
// likes/hasLiked to the list entry and the current slot. State is never
// flipped before the response, and a response that has been superseded by a
// later toggle for the same post is dropped.
func (s *ContentStore) ToggleLike(ctx context.Context, id string) error {
	s.mu.Lock()
	s.likeSeq[id]++
	seq := s.likeSeq[id]
	s.mu.Unlock()

	res, err := s.api.ToggleLike(ctx, id)
	if err != nil {
		return s.fail(err, false)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.likeSeq[id] {
		// A newer toggle is in flight; its response owns the final state.
		return nil
	}
	for i := range s.posts {
		if s.posts[i].ID == id {
			s.posts[i].Likes = res.Likes
			s.posts[i].HasLiked = res.HasLiked
		}
	}
	if s.current != nil && s.current.ID == id {
		s.current.Likes = res.Likes
		s.current.HasLiked = res.HasLiked
	}
	return nil
}

// AddComment appends the server-returned comment to the current post's
// comment list, but only if the current post still matches at response time
// (a stale response for a navigated-away post is ignored). The list view's
// comment count is not touched.
func (s *ContentStore) AddComment(ctx context.Context, id, content string) error {
	cm, err := s.api.AddComment(ctx, id, content)
	if err != nil {
		return s.fail(err, false)
	}
	s.mu.Lock()
	if s.current != nil && s.current.ID == id {
		s.current.Comments = append(s.current.Comments, *cm)
	}
	s.mu.Unlock()
	s.notify.send("comment added")
	return nil
}

// LoadStats refreshes the aggregate stats slot.
func (s *ContentStore) LoadStats(ctx context.Context) error {
	st, err := s.api.BlogStats(ctx)
	if err != nil {
		return s.fail(err, true)
	}
	s.mu.Lock()
	s.stats = st
	s.lastErr = ""
	s.mu.Unlock()
	return nil
}
