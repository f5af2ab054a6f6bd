package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"
	"github.com/tgienger/nestedtodo/internal/models"
	"github.com/tgienger/nestedtodo/internal/ui/styles"
)

// View renders the view
func (v *TodoListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.alert != "" {
		return v.renderAlert()
	}

	if _, ok := v.list.PendingDelete(); ok {
		return v.renderDeleteConfirm()
	}

	if _, ok := v.list.EditSession(); ok {
		return v.renderEditForm()
	}

	var b strings.Builder

	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")

	b.WriteString(v.renderTodoList())

	b.WriteString(v.renderToast())

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

// renderToast returns the pending acknowledgment on its own line, or ""
func (v *TodoListView) renderToast() string {
	if v.toast == "" {
		return ""
	}
	return "\n" + v.styles.Toast.Render(v.toast)
}

func (v *TodoListView) inputWidth() int {
	return clamp(styles.ContentWidth(v.width)-10, 20, 50)
}

// itemWidth is the width of one todo row
func (v *TodoListView) itemWidth() int {
	return max(styles.ContentWidth(v.width)-4, 20)
}

func (v *TodoListView) wrapDescription(desc string) string {
	return wordwrap.String(desc, max(v.itemWidth()-6, 10))
}

func (v *TodoListView) renderHeader() string {
	s := v.styles
	width := v.inputWidth()

	nameStyle, descStyle := s.Input, s.Input
	switch v.focus {
	case FocusNameInput:
		nameStyle = s.InputFocused
	case FocusDescInput:
		descStyle = s.InputFocused
	}

	rows := []string{
		s.Title.Render("Todo App"),
		"",
		"Name:",
		nameStyle.Width(width).Render(v.nameInput.View()),
	}
	if v.list.MissingName() {
		rows = append(rows, s.FieldError.Render(missingFieldText))
	}

	rows = append(rows,
		"Description:",
		descStyle.Width(width).Render(v.descInput.View()),
	)
	if v.list.MissingDescription() {
		rows = append(rows, s.FieldError.Render(missingFieldText))
	}

	btnStyle := s.Button
	switch {
	case !v.list.CanAdd():
		btnStyle = s.ButtonDisabled
	case v.focus == FocusAddButton:
		btnStyle = s.ButtonFocused
	}
	rows = append(rows, btnStyle.Render(" Add Todo "))

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// listHeight is the number of lines available to todo rows
func (v *TodoListView) listHeight() int {
	if v.height <= 0 {
		return int(^uint(0) >> 1)
	}
	used := lipgloss.Height(v.renderHeader()) + lipgloss.Height(v.renderHelp()) + 4
	return max(v.height-used, 3)
}

// itemHeight is the rendered height of row i, margin included
func (v *TodoListView) itemHeight(i int) int {
	todo := v.list.At(i)
	// Sub-description lines are truncated to one row each
	h := 2 + len(todo.SubDescriptions)
	if todo.Description != "" {
		h += strings.Count(v.wrapDescription(todo.Description), "\n") + 1
	}
	return h
}

func (v *TodoListView) renderTodoList() string {
	s := v.styles

	if v.list.Len() == 0 {
		return s.TitleMuted.Render("No todos yet. Fill in a name and a description above.")
	}

	available := v.listHeight()
	used := 0

	var items []string
	for i := v.scrollY; i < v.list.Len(); i++ {
		h := v.itemHeight(i)
		if used+h > available && len(items) > 0 {
			break
		}
		used += h
		items = append(items, v.renderTodoItem(v.list.At(i), i == v.cursor && v.focus == FocusTodoList))
	}

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *TodoListView) renderTodoItem(todo models.Todo, selected bool) string {
	s := v.styles
	width := v.itemWidth()

	mark := "[ ] "
	if todo.Completed {
		mark = "[x] "
	}
	text := ansi.Truncate(todo.Text, width-len(mark)-4, "…")
	if todo.Completed {
		text = s.Completed.Render(text)
	}

	titleStyle := s.ListItem.Width(width)
	if selected {
		titleStyle = s.ListSelected.Width(width)
	}
	lines := []string{titleStyle.Render(mark + text)}

	if todo.Description != "" {
		descStyle := s.TitleMuted.PaddingLeft(6)
		if todo.Completed {
			descStyle = descStyle.Strikethrough(true)
		}
		lines = append(lines, descStyle.Render(v.wrapDescription(todo.Description)))
	}

	for j, sub := range todo.SubDescriptions {
		if selected && v.editingSubs && j == v.subCursor {
			lines = append(lines, s.SubSelected.Render("› "+v.subInput.View()))
			continue
		}
		line := ansi.Truncate(sub, max(width-8, 10), "…")
		if line == "" {
			line = s.TitleMuted.Render("(empty)")
		}
		lines = append(lines, s.SubItem.Render("- "+line))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}

func (v *TodoListView) renderHelp() string {
	s := v.styles
	var items []string
	add := func(k, desc string) {
		items = append(items, s.HelpKey.Render(k)+" "+desc)
	}

	switch {
	case v.editingSubs:
		add("↑↓", "line")
		add("ctrl+n", "new line")
		add("ctrl+d", "remove")
		add("esc", "done")
	case v.focus == FocusTodoList:
		if v.list.Len() > 0 {
			toggleLabel := "complete"
			if v.list.At(v.cursor).Completed {
				toggleLabel = "undo"
			}
			add("space", toggleLabel)
			add("e", "edit")
			add("d", "delete")
			add("s", "sub")
		}
		add("tab", "form")
		add("?", "help")
		add("q", "quit")
	default:
		add("↵", "add")
		add("tab", "next")
		add("esc", "list")
		add("ctrl+c", "quit")
	}

	return s.Help.Render(strings.Join(items, " • "))
}

func (v *TodoListView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	helpItems := []string{
		s.HelpKey.Render("tab") + "      next field",
		s.HelpKey.Render("↵") + "        add todo / open sub-descriptions",
		s.HelpKey.Render("space") + "    complete / undo",
		s.HelpKey.Render("e") + "        edit todo",
		s.HelpKey.Render("d") + "        delete todo",
		s.HelpKey.Render("s") + "        add sub-description",
		s.HelpKey.Render("ctrl+n") + "   new sub-description line",
		s.HelpKey.Render("ctrl+d") + "   remove sub-description line",
		s.HelpKey.Render("esc") + "      back",
		s.HelpKey.Render("q") + "        quit",
		"",
		s.TitleMuted.Render("Press any key to close"),
	}
	if v.toast != "" {
		helpItems = append(helpItems, "", s.Toast.Render(v.toast))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Modal.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TodoListView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	titleStyle, descStyle := s.Input, s.Input
	updateStyle, cancelStyle := s.Button, s.Button
	switch v.editFocusIdx {
	case editFieldName:
		titleStyle = s.InputFocused
	case editFieldDesc:
		descStyle = s.InputFocused
	case editFieldUpdate:
		updateStyle = s.ButtonFocused
	case editFieldCancel:
		cancelStyle = s.ButtonFocused
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Edit Task"),
		"",
		"Edit Name:",
		titleStyle.Width(v.inputWidth()).Render(v.editTitle.View()),
		"",
		"Edit Description:",
		descStyle.Render(v.editDesc.View()),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			updateStyle.Render(" Update "),
			"  ",
			cancelStyle.Render(" Cancel "),
		),
		"",
		s.TitleMuted.Render("Tab: next • Ctrl+S: update • Esc: cancel"),
	) + v.renderToast()

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Modal.Render(form),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TodoListView) renderAlert() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(s.Theme.Error).Render(v.alert),
		"",
		s.TitleMuted.Render("Press any key to continue"),
	) + v.renderToast()

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Alert.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TodoListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	pending, _ := v.list.PendingDelete()
	name := ansi.Truncate(v.list.At(pending.TargetIndex).Text, max(contentWidth-30, 10), "…")

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(s.Theme.Error).Render("Please confirm again before pressing OK!"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("You are deleting the todo %q", name)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - OK "),
			"  ",
			s.Button.Render(" N - Cancel "),
		),
	) + v.renderToast()

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Modal.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}
