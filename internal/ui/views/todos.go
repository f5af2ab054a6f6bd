package views

import (
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/tgienger/nestedtodo/internal/config"
	"github.com/tgienger/nestedtodo/internal/todolist"
	"github.com/tgienger/nestedtodo/internal/ui/keys"
	"github.com/tgienger/nestedtodo/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// FocusArea represents which part of the UI has focus
type FocusArea int

const (
	FocusNameInput FocusArea = iota
	FocusDescInput
	FocusAddButton
	FocusTodoList
)

const focusAreaCount = 4

// Fields of the edit modal, in tab order
const (
	editFieldName = iota
	editFieldDesc
	editFieldUpdate
	editFieldCancel
	editFieldCount
)

const (
	missingFieldText = "Please fill in the input field"
	missingNameAlert = "Task name is required!"
)

// editAcknowledgedMsg is delivered once the acknowledgment delay of a
// committed edit has elapsed
type editAcknowledgedMsg struct {
	ack todolist.Acknowledgment
}

// Options configures a TodoListView
type Options struct {
	Styles *styles.Styles
	Limits config.Limits
	Logger *log.Logger
}

// TodoListView shows the add form and the todo list
type TodoListView struct {
	list   *todolist.Model
	styles *styles.Styles
	keys   keys.KeyMap
	logger *log.Logger

	width  int
	height int

	// UI state
	focus     FocusArea
	cursor    int
	scrollY   int
	nameInput textinput.Model
	descInput textinput.Model

	// Sub-description editor for the todo under the cursor
	editingSubs bool
	subCursor   int
	subInput    textinput.Model

	// Edit modal
	editTitle    textinput.Model
	editDesc     textarea.Model
	editFocusIdx int

	// Blocking alert, dismissed by any key
	alert string

	// Last acknowledgment that fired, cleared by the next key pressed
	// on the list screen
	toast string

	// Help popup (shown with ?)
	showHelpPopup bool

	// tick schedules acknowledgments; tea.Tick outside tests
	tick func(time.Duration, func(time.Time) tea.Msg) tea.Cmd
}

// NewTodoListView creates a new todo list view over list
func NewTodoListView(list *todolist.Model, opts Options) *TodoListView {
	s := opts.Styles
	if s == nil {
		s = styles.NewStyles(styles.TokyoNight)
	}
	limits := opts.Limits
	if limits == (config.Limits{}) {
		limits = config.Default().Limits
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	nameInput := textinput.New()
	nameInput.Placeholder = "Task"
	nameInput.CharLimit = limits.Name

	descInput := textinput.New()
	descInput.Placeholder = "Description"
	descInput.CharLimit = limits.Description

	subInput := textinput.New()
	subInput.Placeholder = "Sub-description"
	subInput.CharLimit = limits.SubDescription
	subInput.Prompt = ""

	editTitle := textinput.New()
	editTitle.Placeholder = "Task"
	editTitle.CharLimit = limits.Name

	editDesc := textarea.New()
	editDesc.Placeholder = "Description"
	editDesc.CharLimit = limits.Description
	editDesc.SetWidth(50)
	editDesc.SetHeight(3)
	editDesc.ShowLineNumbers = false

	v := &TodoListView{
		list:      list,
		styles:    s,
		keys:      keys.DefaultKeyMap(),
		logger:    logger,
		focus:     FocusNameInput,
		nameInput: nameInput,
		descInput: descInput,
		subInput:  subInput,
		editTitle: editTitle,
		editDesc:  editDesc,
		tick:      tea.Tick,
	}
	v.nameInput.Focus()
	return v
}

// Init initializes the view
func (v *TodoListView) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (v *TodoListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		inputWidth := clamp(contentWidth-10, 20, 50)
		v.nameInput.Width = inputWidth
		v.descInput.Width = inputWidth
		v.editTitle.Width = inputWidth
		v.editDesc.SetWidth(inputWidth)
		v.subInput.Width = clamp(contentWidth-12, 10, 60)
		v.ensureVisible()
		return v, nil

	case editAcknowledgedMsg:
		v.toast = msg.ack.Message
		v.logger.Debug("edit acknowledged", "index", msg.ack.Index)
		return v, nil

	case tea.KeyMsg:
		// Help popup and alert swallow the key that closes them
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		if v.alert != "" {
			v.alert = ""
			return v, nil
		}

		if _, ok := v.list.PendingDelete(); ok {
			return v.updateConfirmDelete(msg)
		}

		if _, ok := v.list.EditSession(); ok {
			return v.updateEditing(msg)
		}

		v.toast = ""

		if v.editingSubs {
			return v.updateSubDescriptions(msg)
		}

		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TodoListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Inputs take every key except navigation and submit
	if v.focus == FocusNameInput || v.focus == FocusDescInput {
		switch {
		case msg.Type == tea.KeyCtrlC:
			return v, tea.Quit
		case key.Matches(msg, v.keys.Tab):
			return v, v.cycleFocus(1)
		case key.Matches(msg, v.keys.ShiftTab):
			return v, v.cycleFocus(-1)
		case key.Matches(msg, v.keys.Back):
			return v, v.setFocus(FocusTodoList)
		case key.Matches(msg, v.keys.Enter):
			return v, v.submitAdd()
		}

		var cmd tea.Cmd
		if v.focus == FocusNameInput {
			v.nameInput, cmd = v.nameInput.Update(msg)
		} else {
			v.descInput, cmd = v.descInput.Update(msg)
		}
		v.list.SetInput(v.nameInput.Value(), v.descInput.Value())
		return v, cmd
	}

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Tab):
		return v, v.cycleFocus(1)

	case key.Matches(msg, v.keys.ShiftTab):
		return v, v.cycleFocus(-1)

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil
	}

	if v.focus == FocusAddButton {
		if key.Matches(msg, v.keys.Enter) && v.list.CanAdd() {
			return v, v.submitAdd()
		}
		return v, nil
	}

	// FocusTodoList
	if v.list.Len() == 0 {
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}

	case key.Matches(msg, v.keys.Down):
		if v.cursor < v.list.Len()-1 {
			v.cursor++
			v.ensureVisible()
		}

	case key.Matches(msg, v.keys.Toggle):
		v.list.ToggleComplete(v.cursor)

	case key.Matches(msg, v.keys.Edit):
		return v, v.startEdit()

	case key.Matches(msg, v.keys.Delete):
		if err := v.list.RequestDelete(v.cursor); err != nil {
			v.logger.Warn("delete request refused", "index", v.cursor, "err", err)
		}

	case key.Matches(msg, v.keys.AddSub):
		v.list.AddSubDescription(v.cursor)
		return v, v.openSubDescriptions(len(v.list.At(v.cursor).SubDescriptions) - 1)

	case key.Matches(msg, v.keys.OpenSub):
		if len(v.list.At(v.cursor).SubDescriptions) > 0 {
			return v, v.openSubDescriptions(0)
		}
	}

	return v, nil
}

// submitAdd tries to add the todo held in the form inputs
func (v *TodoListView) submitAdd() tea.Cmd {
	err := v.list.Add(v.nameInput.Value(), v.descInput.Value())
	switch {
	case errors.Is(err, todolist.ErrMissingName):
		return v.setFocus(FocusNameInput)
	case errors.Is(err, todolist.ErrMissingDescription):
		return v.setFocus(FocusDescInput)
	case err != nil:
		return nil
	}

	v.nameInput.Reset()
	v.descInput.Reset()
	v.cursor = v.list.Len() - 1
	v.ensureVisible()
	return v.setFocus(FocusNameInput)
}

func (v *TodoListView) cycleFocus(dir int) tea.Cmd {
	return v.setFocus(FocusArea((int(v.focus) + dir + focusAreaCount) % focusAreaCount))
}

func (v *TodoListView) setFocus(f FocusArea) tea.Cmd {
	v.focus = f
	v.nameInput.Blur()
	v.descInput.Blur()

	switch f {
	case FocusNameInput:
		return v.nameInput.Focus()
	case FocusDescInput:
		return v.descInput.Focus()
	}
	return nil
}

func (v *TodoListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Confirm):
		if _, err := v.list.ConfirmDelete(); err != nil {
			return v, nil
		}
		if v.cursor >= v.list.Len() {
			v.cursor = max(0, v.list.Len()-1)
		}
		v.ensureVisible()
	case key.Matches(msg, v.keys.Cancel):
		v.list.CancelDelete()
	}
	return v, nil
}

func (v *TodoListView) startEdit() tea.Cmd {
	session, err := v.list.BeginEdit(v.cursor)
	if err != nil {
		v.logger.Warn("edit refused", "index", v.cursor, "err", err)
		return nil
	}
	v.editTitle.SetValue(session.DraftText)
	v.editTitle.CursorEnd()
	v.editDesc.SetValue(session.DraftDescription)
	v.editFocusIdx = editFieldName
	return tea.Batch(v.updateEditFocus(), textinput.Blink)
}

func (v *TodoListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.list.CancelEdit()
		return v, nil

	case key.Matches(msg, v.keys.Save):
		return v, v.commitEdit()

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % editFieldCount
		return v, v.updateEditFocus()

	case key.Matches(msg, v.keys.ShiftTab):
		v.editFocusIdx = (v.editFocusIdx + editFieldCount - 1) % editFieldCount
		return v, v.updateEditFocus()

	case key.Matches(msg, v.keys.Enter):
		switch v.editFocusIdx {
		case editFieldName:
			v.editFocusIdx++
			return v, v.updateEditFocus()
		case editFieldUpdate:
			return v, v.commitEdit()
		case editFieldCancel:
			v.list.CancelEdit()
			return v, nil
		}
		// Enter in the description textarea inserts a newline
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case editFieldName:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case editFieldDesc:
		v.editDesc, cmd = v.editDesc.Update(msg)
	default:
		return v, nil
	}
	if err := v.list.SetDraft(v.editTitle.Value(), v.editDesc.Value()); err != nil {
		v.logger.Warn("draft update refused", "err", err)
		return v, nil
	}
	return v, cmd
}

func (v *TodoListView) updateEditFocus() tea.Cmd {
	v.editTitle.Blur()
	v.editDesc.Blur()

	switch v.editFocusIdx {
	case editFieldName:
		return v.editTitle.Focus()
	case editFieldDesc:
		return v.editDesc.Focus()
	}
	return nil
}

// commitEdit saves the edit modal. A blank name raises the alert and keeps
// the modal open; otherwise the acknowledgment is scheduled.
func (v *TodoListView) commitEdit() tea.Cmd {
	if err := v.list.SetDraft(v.editTitle.Value(), v.editDesc.Value()); err != nil {
		return nil
	}
	ack, err := v.list.CommitEdit()
	if errors.Is(err, todolist.ErrMissingName) {
		v.alert = missingNameAlert
		return nil
	}
	if err != nil {
		return nil
	}
	return v.tick(ack.Delay, func(time.Time) tea.Msg {
		return editAcknowledgedMsg{ack: ack}
	})
}

// openSubDescriptions starts the sub-description editor on line sub of the
// todo under the cursor
func (v *TodoListView) openSubDescriptions(sub int) tea.Cmd {
	v.editingSubs = true
	v.focus = FocusTodoList
	v.nameInput.Blur()
	v.descInput.Blur()
	return v.selectSub(sub)
}

func (v *TodoListView) selectSub(sub int) tea.Cmd {
	subs := v.list.At(v.cursor).SubDescriptions
	if len(subs) == 0 {
		v.closeSubDescriptions()
		return nil
	}
	v.subCursor = clamp(sub, 0, len(subs)-1)
	v.subInput.SetValue(subs[v.subCursor])
	v.subInput.CursorEnd()
	v.ensureVisible()
	return v.subInput.Focus()
}

func (v *TodoListView) closeSubDescriptions() {
	v.editingSubs = false
	v.subCursor = 0
	v.subInput.Blur()
	v.subInput.Reset()
}

func (v *TodoListView) updateSubDescriptions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		v.closeSubDescriptions()
		return v, nil

	case msg.Type == tea.KeyUp, key.Matches(msg, v.keys.ShiftTab):
		return v, v.selectSub(v.subCursor - 1)

	case msg.Type == tea.KeyDown, key.Matches(msg, v.keys.Tab):
		return v, v.selectSub(v.subCursor + 1)

	case key.Matches(msg, v.keys.Enter):
		if v.subCursor >= len(v.list.At(v.cursor).SubDescriptions)-1 {
			v.closeSubDescriptions()
			return v, nil
		}
		return v, v.selectSub(v.subCursor + 1)

	case key.Matches(msg, v.keys.NewSub):
		v.list.AddSubDescription(v.cursor)
		return v, v.selectSub(len(v.list.At(v.cursor).SubDescriptions) - 1)

	case key.Matches(msg, v.keys.RemoveSub):
		v.list.RemoveSubDescription(v.cursor, v.subCursor)
		return v, v.selectSub(v.subCursor)
	}

	var cmd tea.Cmd
	v.subInput, cmd = v.subInput.Update(msg)
	v.list.EditSubDescription(v.cursor, v.subCursor, v.subInput.Value())
	return v, cmd
}

// ensureVisible scrolls so the cursor row is inside the list viewport
func (v *TodoListView) ensureVisible() {
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
		return
	}
	available := v.listHeight()
	for v.scrollY < v.cursor {
		used := 0
		for i := v.scrollY; i <= v.cursor; i++ {
			used += v.itemHeight(i)
		}
		if used <= available {
			break
		}
		v.scrollY++
	}
}
