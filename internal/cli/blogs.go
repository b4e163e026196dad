package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"upi-cli/internal/api"
	"upi-cli/internal/model"
	"upi-cli/internal/publish"
	"upi-cli/internal/readtime"
	"upi-cli/internal/statusutil"
	"upi-cli/internal/store"

	"github.com/spf13/cobra"
)

func newBlogsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blogs",
		Short: "Blog commands",
	}
	cmd.AddCommand(newBlogsListCmd(app))
	cmd.AddCommand(newBlogsShowCmd(app))
	cmd.AddCommand(newBlogsCreateCmd(app))
	cmd.AddCommand(newBlogsUpdateCmd(app))
	cmd.AddCommand(newBlogsDeleteCmd(app))
	cmd.AddCommand(newBlogsLikeCmd(app))
	cmd.AddCommand(newBlogsCommentCmd(app))
	cmd.AddCommand(newBlogsStatsCmd(app))
	cmd.AddCommand(newBlogsPreviewCmd(app))
	cmd.AddCommand(newBlogsPublishCmd(app))
	return cmd
}

func newBlogsListCmd(app *App) *cobra.Command {
	var filters model.BlogFilters

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List published blogs",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := apiClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			posts, err := client.ListBlogs(cmd.Context(), filters)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": posts, "meta": map[string]any{"count": len(posts)}})
		},
	}

	cmd.Flags().StringVar(&filters.Search, "search", "", "Search title and excerpt")
	cmd.Flags().StringVar(&filters.Category, "category", "", "Filter by category")
	cmd.Flags().StringVar(&filters.Tag, "tag", "", "Filter by tag")
	cmd.Flags().StringVar(&filters.SortBy, "sort", "", "Sort field (publishedAt|views|readTime)")
	cmd.Flags().StringVar(&filters.SortOrder, "order", "", "Sort order (asc|desc)")
	return cmd
}

func newBlogsShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <slug>",
		Short: "Show a single blog by slug (increments its view count server-side)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := apiClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			post, err := client.GetBlog(cmd.Context(), args[0])
			if err != nil {
				var apiErr *api.Error
				if errors.As(err, &apiErr) && apiErr.Status == 404 {
					return writeErr(cmd, errNotFound("blog", args[0]))
				}
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": post})
		},
	}
	return cmd
}

// blogPayloadFlags registers the shared create/update flag set.
func blogPayloadFlags(cmd *cobra.Command, p *api.BlogPayload, status *string, contentFile *string) {
	cmd.Flags().StringVar(&p.Title, "title", "", "Blog title")
	cmd.Flags().StringVar(&p.Excerpt, "excerpt", "", "Short excerpt")
	cmd.Flags().StringVar(&p.Content, "content", "", "Blog content (HTML)")
	cmd.Flags().StringVar(contentFile, "content-file", "", "Read content from file")
	cmd.Flags().StringVar(status, "status", string(model.PostStatusDraft), "Status (draft|published|archived)")
	cmd.Flags().BoolVar(&p.Featured, "featured", false, "Mark as featured")
	cmd.Flags().StringArrayVar(&p.Categories, "category", nil, "Category (repeatable)")
	cmd.Flags().StringArrayVar(&p.Tags, "tag", nil, "Tag (repeatable)")
	cmd.Flags().StringVar(&p.FeaturedImagePath, "image", "", "Featured image file")
	cmd.Flags().StringVar(&p.FeaturedImageAlt, "image-alt", "", "Featured image alt text")
	cmd.Flags().StringVar(&p.MetaTitle, "meta-title", "", "SEO title")
	cmd.Flags().StringVar(&p.MetaDescription, "meta-description", "", "SEO description")
	cmd.Flags().StringVar(&p.Keywords, "keywords", "", "SEO keywords (comma-separated)")
}

// resolveBlogPayload finishes a payload from flags. Publishing is refused
// below the minimum content length before any request is made.
func resolveBlogPayload(p *api.BlogPayload, status, contentFile string) error {
	st, err := statusutil.NormalizePostStatus(status)
	if err != nil {
		return err
	}
	p.Status = st
	if contentFile != "" {
		b, err := os.ReadFile(contentFile)
		if err != nil {
			return err
		}
		p.Content = string(b)
	}
	if p.Status == model.PostStatusPublished && !readtime.CanPublish(p.Content) {
		return fmt.Errorf("cannot publish: content must be at least %d characters of text", readtime.MinPublishLength)
	}
	return nil
}

func newBlogsCreateCmd(app *App) *cobra.Command {
	var payload api.BlogPayload
	var status string
	var contentFile string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a blog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveBlogPayload(&payload, status, contentFile); err != nil {
				return writeErr(cmd, err)
			}
			client, err := apiClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			post, err := client.CreateBlog(cmd.Context(), payload)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": post})
		},
	}

	blogPayloadFlags(cmd, &payload, &status, &contentFile)
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newBlogsUpdateCmd(app *App) *cobra.Command {
	var payload api.BlogPayload
	var status string
	var contentFile string

	cmd := &cobra.Command{
		Use:   "update <blog-id>",
		Short: "Update a blog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveBlogPayload(&payload, status, contentFile); err != nil {
				return writeErr(cmd, err)
			}
			client, err := apiClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			post, err := client.UpdateBlog(cmd.Context(), args[0], payload)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": post})
		},
	}

	blogPayloadFlags(cmd, &payload, &status, &contentFile)
	return cmd
}

func newBlogsDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <blog-id>",
		Short: "Delete a blog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return writeErr(cmd, errors.New("refusing to delete without --yes"))
			}
			client, err := apiClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := client.DeleteBlog(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "deleted": true}})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	return cmd
}

func newBlogsLikeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "like <blog-id>",
		Short: "Toggle your like on a blog (requires login)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := apiClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := client.ToggleLike(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}
	return cmd
}

func newBlogsCommentCmd(app *App) *cobra.Command {
	var body string

	cmd := &cobra.Command{
		Use:   "comment <blog-id>",
		Short: "Add a comment to a blog (requires login)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(body) == "" {
				return writeErr(cmd, errors.New("comment body is empty"))
			}
			client, err := apiClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			c, err := client.AddComment(cmd.Context(), args[0], strings.TrimSpace(body))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": c})
		},
	}

	cmd.Flags().StringVar(&body, "body", "", "Comment body")
	_ = cmd.MarkFlagRequired("body")
	return cmd
}

func newBlogsStatsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate blog stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := apiClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			stats, err := client.BlogStats(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": stats})
		},
	}
	return cmd
}

func newBlogsPreviewCmd(app *App) *cobra.Command {
	var p store.PreviewPayload
	var contentFile string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Stage an unsaved draft for preview in the TUI",
		RunE: func(cmd *cobra.Command, args []string) error {
			if contentFile != "" {
				b, err := os.ReadFile(contentFile)
				if err != nil {
					return writeErr(cmd, err)
				}
				p.Content = string(b)
			}
			st, err := stateStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := st.SavePreview(cmd.Context(), p); err != nil {
				return writeErr(cmd, err)
			}
			rt := readtime.Compute(p.Content)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"title":    p.Title,
				"words":    rt.WordCount,
				"readTime": rt.ReadTimeMinutes,
				"staged":   true,
			}})
		},
	}

	cmd.Flags().StringVar(&p.Title, "title", "", "Draft title")
	cmd.Flags().StringVar(&p.Excerpt, "excerpt", "", "Draft excerpt")
	cmd.Flags().StringVar(&p.Content, "content", "", "Draft content (HTML)")
	cmd.Flags().StringVar(&contentFile, "content-file", "", "Read content from file")

	cmd.AddCommand(newBlogsPreviewShowCmd(app))
	return cmd
}

func newBlogsPreviewShowCmd(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Render the staged preview draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := stateStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, ok, err := st.LoadPreview(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if !ok {
				return writeErr(cmd, fmt.Errorf("no preview staged (run `upi blogs preview` first)"))
			}
			md := publish.HTMLToMarkdown(p.Content)
			if raw {
				if p.Title != "" {
					md = "# " + p.Title + "\n\n" + md
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), md)
				return err
			}
			rt := readtime.Compute(p.Content)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"title":    p.Title,
				"excerpt":  p.Excerpt,
				"markdown": md,
				"words":    rt.WordCount,
				"readTime": rt.ReadTimeMinutes,
			}})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown (no JSON envelope)")
	return cmd
}

func newBlogsPublishCmd(app *App) *cobra.Command {
	var to string
	var includeComments bool
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "publish <slug>",
		Short: "Export a blog as a markdown file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := apiClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			post, err := client.GetBlog(cmd.Context(), args[0])
			if err != nil {
				var apiErr *api.Error
				if errors.As(err, &apiErr) && apiErr.Status == 404 {
					return writeErr(cmd, errNotFound("blog", args[0]))
				}
				return writeErr(cmd, err)
			}
			res, err := publish.WritePost(*post, to, publish.WriteOptions{
				IncludeComments: includeComments,
				Overwrite:       overwrite,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}

	cmd.Flags().StringVar(&to, "to", ".", "Output directory")
	cmd.Flags().BoolVar(&includeComments, "include-comments", false, "Include comments in the export")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing file")
	return cmd
}
