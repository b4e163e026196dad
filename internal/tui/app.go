package tui

import (
	"context"
	"time"

	"upi-cli/internal/model"
	"upi-cli/internal/store"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type view int

const (
	viewBlogs view = iota
	viewBlogDetail
	viewAdmin
)

type appModel struct {
	opts    Options
	content *store.ContentStore
	regs    *store.RegistrationsStore
	ident   *store.IdentityProbe

	width  int
	height int
	view   view

	blogsList   list.Model
	searchInput textinput.Model
	searching   bool
	filters     model.BlogFilters

	detailScroll int
	commentArea  textarea.Model
	commenting   bool

	adminIdx       int
	adminSearch    textinput.Model
	adminSearching bool
	adminFilter    string
	confirmDelete  bool
	confirmFocus   confirmModalFocus

	minibuffer string
	flashSeq   int
}

type (
	identityFetchedMsg struct{}
	blogsLoadedMsg     struct{}
	blogLoadedMsg      struct{ slug string }
	likeDoneMsg        struct{ err error }
	commentDoneMsg     struct{ err error }
	statsLoadedMsg     struct{}
	appsLoadedMsg      struct{}
	statusDoneMsg      struct{ id string }
	deleteDoneMsg      struct{ id string }
	exportDoneMsg      struct {
		file string
		err  error
	}
	flashDoneMsg struct{ seq int }
)

func newAppModel(opts Options) appModel {
	m := appModel{
		opts:    opts,
		content: store.NewContentStore(opts.Client, nil),
		regs:    store.NewRegistrationsStore(opts.Client, nil),
		ident:   store.NewIdentityProbe(opts.Client),
	}

	m.blogsList = list.New(nil, newBlogDelegate(), 0, 0)
	m.blogsList.Title = "Blogs"
	m.blogsList.SetShowHelp(false)
	m.blogsList.SetFilteringEnabled(false)
	m.blogsList.SetShowStatusBar(false)

	m.searchInput = textinput.New()
	m.searchInput.Prompt = "/"
	m.searchInput.Placeholder = "search title or excerpt"

	m.adminSearch = textinput.New()
	m.adminSearch.Prompt = "/"
	m.adminSearch.Placeholder = "filter by name, email, nationality"

	m.commentArea = textarea.New()
	m.commentArea.Placeholder = "Write a comment"
	m.commentArea.SetHeight(4)

	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.fetchIdentityCmd(), m.loadBlogsCmd(), m.loadStatsCmd())
}

// Async store calls. Stores are synchronous and safe for concurrent use, so
// each command just runs the call and reports back.

func (m appModel) fetchIdentityCmd() tea.Cmd {
	ident := m.ident
	return func() tea.Msg {
		_ = ident.Fetch(context.Background())
		return identityFetchedMsg{}
	}
}

func (m appModel) loadBlogsCmd() tea.Cmd {
	content, f := m.content, m.filters
	return func() tea.Msg {
		_ = content.List(context.Background(), f)
		return blogsLoadedMsg{}
	}
}

func (m appModel) loadStatsCmd() tea.Cmd {
	content := m.content
	return func() tea.Msg {
		_ = content.LoadStats(context.Background())
		return statsLoadedMsg{}
	}
}

func (m appModel) openBlogCmd(slug string) tea.Cmd {
	content := m.content
	return func() tea.Msg {
		_, _ = content.GetBySlug(context.Background(), slug)
		return blogLoadedMsg{slug: slug}
	}
}

func (m appModel) toggleLikeCmd(id string) tea.Cmd {
	content := m.content
	return func() tea.Msg {
		return likeDoneMsg{err: content.ToggleLike(context.Background(), id)}
	}
}

func (m appModel) addCommentCmd(id, body string) tea.Cmd {
	content := m.content
	return func() tea.Msg {
		return commentDoneMsg{err: content.AddComment(context.Background(), id, body)}
	}
}

func (m appModel) loadAppsCmd() tea.Cmd {
	regs := m.regs
	return func() tea.Msg {
		_ = regs.Load(context.Background())
		return appsLoadedMsg{}
	}
}

func (m appModel) setStatusCmd(id string, st model.ApplicationStatus) tea.Cmd {
	regs := m.regs
	return func() tea.Msg {
		_ = regs.SetStatus(context.Background(), id, st)
		return statusDoneMsg{id: id}
	}
}

func (m appModel) deleteAppCmd(id string) tea.Cmd {
	regs := m.regs
	return func() tea.Msg {
		_ = regs.Delete(context.Background(), id)
		return deleteDoneMsg{id: id}
	}
}

func (m *appModel) flash(msg string) tea.Cmd {
	m.minibuffer = msg
	m.flashSeq++
	seq := m.flashSeq
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.blogsList.SetSize(msg.Width-2, msg.Height-6)
		m.searchInput.Width = msg.Width - 6
		m.adminSearch.Width = msg.Width - 6
		m.commentArea.SetWidth(modalBodyWidth(msg.Width))
		return m, nil

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.minibuffer = ""
		}
		return m, nil

	case identityFetchedMsg, statsLoadedMsg:
		return m, nil

	case blogsLoadedMsg:
		m.syncBlogsList()
		if e := m.content.LastError(); e != "" {
			return m, m.flash(e)
		}
		return m, nil

	case blogLoadedMsg:
		if m.content.Current() != nil {
			m.view = viewBlogDetail
			m.detailScroll = 0
		} else if e := m.content.LastError(); e != "" {
			return m, m.flash(e)
		}
		return m, nil

	// Like/comment failures never touch the shared error slot, so the
	// message itself carries the error to surface.
	case likeDoneMsg:
		if msg.err != nil {
			return m, m.flash(msg.err.Error())
		}
		return m, nil

	case commentDoneMsg:
		if msg.err != nil {
			return m, m.flash("comment failed: " + msg.err.Error())
		}
		return m, nil

	case appsLoadedMsg, statusDoneMsg, deleteDoneMsg:
		if m.adminIdx >= len(m.visibleApps()) {
			m.adminIdx = 0
		}
		if e := m.regs.LastError(); e != "" {
			return m, m.flash(e)
		}
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			return m, m.flash("export failed: " + msg.err.Error())
		}
		return m, m.flash("exported " + msg.file)

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modal and text-entry states capture input first.
	if m.commenting {
		return m.updateCommentModal(msg)
	}
	if m.confirmDelete {
		return m.updateConfirmDelete(msg)
	}
	if m.searching {
		return m.updateSearch(msg)
	}
	if m.adminSearching {
		return m.updateAdminSearch(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		if m.view == viewBlogDetail {
			m.view = viewBlogs
			return m, nil
		}
		return m, tea.Quit
	case "tab":
		if m.view == viewAdmin {
			m.view = viewBlogs
			return m, nil
		}
		m.view = viewAdmin
		return m, m.loadAppsCmd()
	}

	switch m.view {
	case viewBlogs:
		return m.updateBlogsKey(msg)
	case viewBlogDetail:
		return m.updateDetailKey(msg)
	case viewAdmin:
		return m.updateAdminKey(msg)
	}
	return m, nil
}

func (m appModel) View() string {
	var body string
	switch m.view {
	case viewBlogs:
		body = m.viewBlogs()
	case viewBlogDetail:
		body = m.viewBlogDetail()
	case viewAdmin:
		body = m.viewAdmin()
	}

	if m.commenting {
		return placeCentered(m.width, m.height, renderModalBox(m.width, "Add comment",
			m.commentArea.View()+"\n\nctrl+s: post   esc: cancel"))
	}
	if m.confirmDelete {
		app := m.selectedApp()
		name := ""
		if app != nil {
			name = app.FullName
		}
		return placeCentered(m.width, m.height, renderConfirmModal(m.width,
			"Delete application",
			"Delete the application from "+name+"? This cannot be undone.",
			"Delete", "Cancel", m.confirmFocus))
	}

	status := m.statusLine()
	if m.minibuffer != "" {
		status = m.minibuffer
	}
	return body + "\n" + renderStatusBar(m.width, status, m.identityLabel())
}

func (m appModel) identityLabel() string {
	if id := m.ident.Identity(); id != nil {
		if id.Role == "admin" {
			return id.Name + " (admin)"
		}
		return id.Name
	}
	return "not logged in"
}

func (m appModel) statusLine() string {
	switch m.view {
	case viewAdmin:
		return "tab: blogs   /: filter   s: cycle status   d: delete   e: export   q: quit"
	case viewBlogDetail:
		return "l: like   c: comment   j/k: scroll   q: back"
	default:
		return "tab: admin   /: search   enter: open   r: reload   q: quit"
	}
}
