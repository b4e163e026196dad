package tui

import (
	"fmt"
	"io"
	"strings"

	"upi-cli/internal/model"
	"upi-cli/internal/publish"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type blogItem struct {
	post model.Post
}

func (b blogItem) Title() string       { return b.post.Title }
func (b blogItem) FilterValue() string { return b.post.Title }

type blogDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	meta     lipgloss.Style
}

func newBlogDelegate() blogDelegate {
	return blogDelegate{
		normal:   lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true),
		meta:     styleMuted(),
	}
}

func (d blogDelegate) Height() int                             { return 1 }
func (d blogDelegate) Spacing() int                            { return 0 }
func (d blogDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d blogDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		fmt.Fprint(w, "")
		return
	}

	bi, ok := item.(blogItem)
	if !ok {
		fmt.Fprint(w, "")
		return
	}

	style := d.normal
	if index == m.Index() {
		style = d.selected
	}

	meta := fmt.Sprintf("  %d min  %d views  %d likes", bi.post.ReadTime, bi.post.Views, len(bi.post.Likes))
	line := bi.post.Title + d.meta.Render(meta)
	lineW := xansi.StringWidth(line)
	if lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	} else if lineW > contentW {
		line = xansi.Cut(line, 0, contentW)
	}
	fmt.Fprint(w, style.Render(line))
}

func (m *appModel) syncBlogsList() {
	posts := m.content.Posts()
	items := make([]list.Item, 0, len(posts))
	for _, p := range posts {
		items = append(items, blogItem{post: p})
	}
	m.blogsList.SetItems(items)
}

func (m appModel) selectedBlog() *model.Post {
	if it, ok := m.blogsList.SelectedItem().(blogItem); ok {
		p := it.post
		return &p
	}
	return nil
}

func (m appModel) updateBlogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "/":
		m.searching = true
		m.searchInput.SetValue(m.filters.Search)
		m.searchInput.Focus()
		return m, nil
	case "r":
		return m, tea.Batch(m.loadBlogsCmd(), m.loadStatsCmd())
	case "enter":
		if p := m.selectedBlog(); p != nil {
			return m, m.openBlogCmd(p.Slug)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.blogsList, cmd = m.blogsList.Update(msg)
	return m, cmd
}

func (m appModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		m.filters.Search = strings.TrimSpace(m.searchInput.Value())
		return m, m.loadBlogsCmd()
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m appModel) updateDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cur := m.content.Current()
	switch msg.String() {
	case "esc":
		m.view = viewBlogs
		return m, nil
	case "j", "down":
		m.detailScroll++
		return m, nil
	case "k", "up":
		if m.detailScroll > 0 {
			m.detailScroll--
		}
		return m, nil
	case "l":
		if cur == nil {
			return m, nil
		}
		if !m.ident.LoggedIn() {
			return m, m.flash("log in to like posts")
		}
		return m, m.toggleLikeCmd(cur.ID)
	case "c":
		if cur == nil {
			return m, nil
		}
		if !m.ident.LoggedIn() {
			return m, m.flash("log in to comment")
		}
		m.commenting = true
		m.commentArea.Reset()
		m.commentArea.Focus()
		return m, nil
	}
	return m, nil
}

func (m appModel) updateCommentModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.commenting = false
		m.commentArea.Blur()
		return m, nil
	case "ctrl+s":
		body := strings.TrimSpace(m.commentArea.Value())
		m.commenting = false
		m.commentArea.Blur()
		cur := m.content.Current()
		if body == "" || cur == nil {
			return m, nil
		}
		return m, m.addCommentCmd(cur.ID, body)
	}
	var cmd tea.Cmd
	m.commentArea, cmd = m.commentArea.Update(msg)
	return m, cmd
}

func (m appModel) viewBlogs() string {
	header := styleHeading().Render("UPI Blogs")
	if stats := m.content.Stats(); stats != nil {
		header += styleMuted().Render(fmt.Sprintf("   %d posts, %d total views", stats.TotalBlogs, stats.TotalViews))
	}
	if m.filters.Search != "" {
		header += styleMuted().Render("   search: " + m.filters.Search)
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	if m.searching {
		b.WriteString(m.searchInput.View())
		b.WriteString("\n")
	}
	if m.content.Loading() {
		b.WriteString(styleMuted().Render("loading..."))
		b.WriteString("\n")
	}
	b.WriteString(m.blogsList.View())
	return b.String()
}

func (m appModel) viewBlogDetail() string {
	p := m.content.Current()
	if p == nil {
		return styleMuted().Render("no post selected")
	}

	width := m.width - 4
	if width < 20 {
		width = 20
	}

	like := fmt.Sprintf("%d likes", len(p.Likes))
	if p.HasLiked {
		like = styleOK().Render("liked") + styleMuted().Render(fmt.Sprintf(" (%d)", len(p.Likes)))
	}
	meta := styleMuted().Render(fmt.Sprintf("%s   %d min read   %d views   ", p.Author.Name, p.ReadTime, p.Views)) + like

	var b strings.Builder
	b.WriteString(styleHeading().Render(p.Title))
	b.WriteString("\n")
	b.WriteString(meta)
	b.WriteString("\n\n")
	b.WriteString(renderMarkdown(publish.HTMLToMarkdown(p.Content), width))
	b.WriteString("\n\n")
	b.WriteString(m.renderComments(p, width))

	lines := strings.Split(b.String(), "\n")
	if m.detailScroll > 0 && m.detailScroll < len(lines) {
		lines = lines[m.detailScroll:]
	}
	visible := m.height - 3
	if visible > 0 && len(lines) > visible {
		lines = lines[:visible]
	}
	return strings.Join(lines, "\n")
}

func (m appModel) renderComments(p *model.Post, width int) string {
	var b strings.Builder
	b.WriteString(styleHeading().Render(fmt.Sprintf("Comments (%d)", len(p.Comments))))
	b.WriteString("\n")
	for _, c := range p.Comments {
		b.WriteString(renderComment(c, width, 0, m.opts.DateFormat))
		for _, r := range c.Replies {
			b.WriteString(renderComment(r, width, 2, m.opts.DateFormat))
		}
	}
	return b.String()
}

func renderComment(c model.Comment, width, indent int, dateFormat string) string {
	pad := strings.Repeat(" ", indent)
	head := pad + c.User.Name + styleMuted().Render("  "+c.CreatedAt.Format(dateFormat))
	body := pad + wordWrap(c.Content, width-indent)
	return head + "\n" + body + "\n"
}

func wordWrap(s string, width int) string {
	if width < 10 {
		width = 10
	}
	words := strings.Fields(s)
	var b strings.Builder
	line := 0
	for i, w := range words {
		if i > 0 {
			if line+1+len(w) > width {
				b.WriteString("\n")
				line = 0
			} else {
				b.WriteString(" ")
				line++
			}
		}
		b.WriteString(w)
		line += len(w)
	}
	return b.String()
}
