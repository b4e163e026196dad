package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"upi-cli/internal/model"
)

// ListBlogs fetches the post list. Only non-empty filter values are sent.
func (c *Client) ListBlogs(ctx context.Context, f model.BlogFilters) ([]model.Post, error) {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("search", f.Search)
	set("category", f.Category)
	set("tag", f.Tag)
	set("sortBy", f.SortBy)
	set("sortOrder", f.SortOrder)

	path := "/blogs"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var posts []model.Post
	if err := c.getJSON(ctx, path, &posts, "failed to load posts"); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetBlog fetches a single post by slug.
func (c *Client) GetBlog(ctx context.Context, slug string) (*model.Post, error) {
	var p model.Post
	if err := c.getJSON(ctx, "/blogs/"+url.PathEscape(slug), &p, "failed to load post"); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreateBlog(ctx context.Context, payload BlogPayload) (*model.Post, error) {
	body, contentType, err := buildBlogForm(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/blogs"), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	var p model.Post
	if err := c.doJSON(req, &p, "failed to create post"); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateBlog(ctx context.Context, id string, payload BlogPayload) (*model.Post, error) {
	body, contentType, err := buildBlogForm(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.url("/blogs/"+url.PathEscape(id)), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	var p model.Post
	if err := c.doJSON(req, &p, "failed to update post"); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeleteBlog(ctx context.Context, id string) error {
	return c.sendJSON(ctx, http.MethodDelete, "/blogs/"+url.PathEscape(id), nil, nil, "failed to delete post")
}

// LikeResult is the server's authoritative like state after a toggle.
type LikeResult struct {
	Likes    []model.UserRef `json:"likes"`
	HasLiked bool            `json:"hasLiked"`
}

// ToggleLike flips the caller's like on the post. The returned values are
// the only source of truth: display state must not change before they land.
func (c *Client) ToggleLike(ctx context.Context, id string) (*LikeResult, error) {
	var r LikeResult
	if err := c.sendJSON(ctx, http.MethodPost, "/blogs/"+url.PathEscape(id)+"/like", nil, &r, "failed to update like"); err != nil {
		return nil, err
	}
	return &r, nil
}

// AddComment posts a comment and returns the server-created record.
func (c *Client) AddComment(ctx context.Context, id, content string) (*model.Comment, error) {
	in := map[string]string{"content": content}
	var cm model.Comment
	if err := c.sendJSON(ctx, http.MethodPost, "/blogs/"+url.PathEscape(id)+"/comment", in, &cm, "failed to add comment"); err != nil {
		return nil, err
	}
	return &cm, nil
}

func (c *Client) BlogStats(ctx context.Context) (*model.BlogStats, error) {
	var s model.BlogStats
	if err := c.getJSON(ctx, "/blogs/stats", &s, "failed to load stats"); err != nil {
		return nil, err
	}
	return &s, nil
}
