package picker

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"coursemenu/internal/modules/course/dto"
	"coursemenu/internal/ui/theme"
)

// CoursePort is what the picker needs from the course module.
type CoursePort interface {
	ListCourses(ctx context.Context, page int) (dto.CoursePageOutput, error)
	Preview(ctx context.Context, courseID int64, content string) (dto.PreviewOutput, error)
}

type PageLoadedMsg struct {
	Page dto.CoursePageOutput
	Err  error
}

type PreviewLoadedMsg struct {
	CourseID int64
	Menu     string
	Err      error
}

type courseItem struct {
	course dto.CourseSummaryOutput
}

func (i courseItem) Title() string { return i.course.Title }
func (i courseItem) Description() string {
	return fmt.Sprintf("#%d  %d sections", i.course.ID, i.course.Sections)
}
func (i courseItem) FilterValue() string { return i.course.Title }

type keyMap struct {
	Choose  key.Binding
	Preview key.Binding
	Next    key.Binding
	Prev    key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Choose:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "export")),
		Preview: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "preview menu")),
		Next:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n/p", "page")),
		Prev:    key.NewBinding(key.WithKeys("p")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q", "esc"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Choose, k.Preview, k.Next, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// Model lists the account's courses one API page at a time. Enter picks the
// highlighted course and quits; Chosen reports the pick afterwards.
type Model struct {
	ctx     context.Context
	port    CoursePort
	keys    keyMap
	help    help.Model
	list    list.Model
	preview viewport.Model
	spinner spinner.Model
	menus   map[int64]string
	page    int
	hasNext bool
	loading bool
	status  string
	chosen  int64
	width   int
	height  int
}

func New(ctx context.Context, port CoursePort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Courses"
	l.Styles.Title = theme.Title
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Foreground(theme.Text)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		ctx:     ctx,
		port:    port,
		keys:    defaultKeys(),
		help:    help.New(),
		list:    l,
		preview: vp,
		spinner: sp,
		menus:   map[int64]string{},
		page:    1,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadPageCmd(m.page), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case PageLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.status = msg.Err.Error()
			return m, nil
		}
		m.status = ""
		m.page = msg.Page.Page
		m.hasNext = msg.Page.HasNext
		items := make([]list.Item, len(msg.Page.Courses))
		for i, c := range msg.Page.Courses {
			items[i] = courseItem{course: c}
		}
		m.list.Title = fmt.Sprintf("Courses, page %d", m.page)
		cmds = append(cmds, m.list.SetItems(items))

	case PreviewLoadedMsg:
		if msg.Err != nil {
			m.status = msg.Err.Error()
			return m, nil
		}
		m.menus[msg.CourseID] = msg.Menu
		m.syncPreview()

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() != list.Filtering {
			switch {
			case key.Matches(msg, m.keys.Quit):
				return m, tea.Quit
			case key.Matches(msg, m.keys.Choose):
				if id, ok := m.selectedID(); ok {
					m.chosen = id
					return m, tea.Quit
				}
				return m, nil
			case key.Matches(msg, m.keys.Preview):
				if id, ok := m.selectedID(); ok {
					if _, cached := m.menus[id]; !cached {
						m.status = fmt.Sprintf("loading course %d…", id)
						return m, m.loadPreviewCmd(id)
					}
				}
				return m, nil
			case key.Matches(msg, m.keys.Next):
				if m.hasNext && !m.loading {
					m.loading = true
					return m, tea.Batch(m.loadPageCmd(m.page+1), m.spinner.Tick)
				}
				return m, nil
			case key.Matches(msg, m.keys.Prev):
				if m.page > 1 && !m.loading {
					m.loading = true
					return m, tea.Batch(m.loadPageCmd(m.page-1), m.spinner.Tick)
				}
				return m, nil
			}
		}
	}

	if !m.loading {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
		m.syncPreview()

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading courses…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW
	listPane := lipgloss.NewStyle().Width(listW).Height(m.height - 2).Render(m.list.View())
	detailPane := theme.Pane.Width(detailW - 2).Height(m.height - 4).Render(m.preview.View())

	footer := m.help.View(m.keys)
	if m.status != "" {
		footer = theme.Error.Render(m.status) + "  " + footer
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane),
		footer,
	)
}

// Chosen returns the course picked with enter, if any.
func (m Model) Chosen() (int64, bool) {
	return m.chosen, m.chosen > 0
}

func (m Model) selectedID() (int64, bool) {
	if item, ok := m.list.SelectedItem().(courseItem); ok {
		return item.course.ID, true
	}
	return 0, false
}

func (m *Model) syncPreview() {
	id, ok := m.selectedID()
	if !ok {
		m.preview.SetContent("")
		return
	}
	if menu, cached := m.menus[id]; cached {
		m.preview.SetContent(menu)
		return
	}
	m.preview.SetContent(theme.Muted.Render("press v to preview the menu"))
}

func (m *Model) resize() {
	listW := m.width * 4 / 10
	m.list.SetSize(listW, max(m.height-2, 1))
	m.preview.Width = max(m.width-listW-6, 1)
	m.preview.Height = max(m.height-6, 1)
	m.help.Width = m.width
}

func (m Model) loadPageCmd(page int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.ListCourses(m.ctx, page)
		return PageLoadedMsg{Page: out, Err: err}
	}
}

func (m Model) loadPreviewCmd(courseID int64) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Preview(m.ctx, courseID, "text")
		if err != nil {
			return PreviewLoadedMsg{CourseID: courseID, Err: err}
		}
		return PreviewLoadedMsg{CourseID: courseID, Menu: strings.TrimRight(out.MenuText, "\n")}
	}
}

// Run shows the picker on the alternate screen and returns the chosen course.
func Run(ctx context.Context, port CoursePort) (int64, bool, error) {
	program := tea.NewProgram(New(ctx, port), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return 0, false, err
	}
	id, ok := final.(Model).Chosen()
	return id, ok, nil
}
