// Package browse implements the interactive member list for "jattr
// browse": a bubbletea model over a decoded container, listing its
// class/method/field members and, on selection, the raw attribute
// records in that member's stream — the same list-then-detail shape as
// the corpus's process selector (internal/watch/process_selector.go),
// adapted from picking a live Java process to picking a static member.
package browse

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nullvm/jattr/internal/attr/container"
	"github.com/nullvm/jattr/internal/attr/cursor"
	"github.com/nullvm/jattr/internal/attr/iter"
	"github.com/nullvm/jattr/internal/attr/model"
	"github.com/nullvm/jattr/utils"
)

type memberItem struct {
	member *container.Member
}

func (i memberItem) FilterValue() string { return i.member.Name }
func (i memberItem) Title() string       { return fmt.Sprintf("%s %s", i.member.Kind, i.member.Name) }
func (i memberItem) Description() string {
	return fmt.Sprintf("%d byte stream", len(i.member.Stream))
}

// Model is the top-level bubbletea model: a member list, and — once a
// member is selected — a static, non-scrolling record view for that
// member.
type Model struct {
	container *container.Container
	members   list.Model
	selected  *container.Member
	records   []string
	width     int
	height    int
	err       error
}

func New(c *container.Container) Model {
	items := make([]list.Item, len(c.Members))
	for i, m := range c.Members {
		items[i] = memberItem{member: m}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Container members"
	l.Styles.Title = utils.TitleStyle

	return Model{container: c, members: l}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.members.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.selected != nil {
				m.selected = nil
				m.records = nil
				return m, nil
			}
		case "enter":
			if item, ok := m.members.SelectedItem().(memberItem); ok {
				m.selected = item.member
				m.records, m.err = decodeRecords(m.container, item.member)
			}
			return m, nil
		}
	}

	if m.selected == nil {
		var cmd tea.Cmd
		m.members, cmd = m.members.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	if m.selected == nil {
		return m.members.View()
	}

	header := utils.TitleStyle.Render(fmt.Sprintf("%s %s", m.selected.Kind, m.selected.Name))
	var body string
	if m.err != nil {
		body = utils.CriticalStyle.Render(m.err.Error())
	} else if len(m.records) == 0 {
		body = utils.MutedStyle.Render("(no attribute records)")
	} else {
		body = strings.Join(m.records, "\n")
	}
	footer := utils.MutedStyle.Render("esc: back  q: quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func decodeRecords(c *container.Container, member *container.Member) ([]string, error) {
	var records []string
	cur := cursor.New(member.Stream, c.Pool)
	err := iter.Iterate(cur, func(tag model.AttributeTag, rec *cursor.Cursor) (bool, error) {
		records = append(records, "  "+model.Describe(tag, rec))
		return true, nil
	})
	return records, err
}
