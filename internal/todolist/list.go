// Package todolist holds the in-memory todo list and the commands that
// mutate it. The model is not safe for concurrent use; it is driven from a
// single event loop.
package todolist

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tgienger/nestedtodo/internal/models"
)

// Model owns the ordered todo list, the add form buffers, and the two
// transient workflows (edit and delete confirmation).
type Model struct {
	todos []models.Todo

	// Add form buffers and their validation flags
	nameInput          string
	descriptionInput   string
	missingName        bool
	missingDescription bool

	edit    *EditSession
	pending *DeleteConfirmation

	logger *log.Logger
}

// Option configures a Model
type Option func(*Model)

// WithLogger sets the logger commands are reported to
func WithLogger(logger *log.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates an empty list
func New(opts ...Option) *Model {
	m := &Model{
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Len returns the number of todos
func (m *Model) Len() int {
	return len(m.todos)
}

// At returns a copy of the todo at index
func (m *Model) At(index int) models.Todo {
	m.checkIndex(index)
	return m.todos[index].Clone()
}

// Todos returns a copy of the whole list
func (m *Model) Todos() []models.Todo {
	out := make([]models.Todo, len(m.todos))
	for i, t := range m.todos {
		out[i] = t.Clone()
	}
	return out
}

// SetInput mirrors the add form buffers into the model
func (m *Model) SetInput(name, description string) {
	m.nameInput = name
	m.descriptionInput = description
}

// Input returns the current add form buffers
func (m *Model) Input() (name, description string) {
	return m.nameInput, m.descriptionInput
}

// CanAdd reports whether both add form buffers are non-blank
func (m *Model) CanAdd() bool {
	return !isBlank(m.nameInput) && !isBlank(m.descriptionInput)
}

// MissingName reports whether the last Add was rejected for a blank name
func (m *Model) MissingName() bool {
	return m.missingName
}

// MissingDescription reports whether the last Add that got past the name
// check was rejected for a blank description
func (m *Model) MissingDescription() bool {
	return m.missingDescription
}

// Add appends a new todo. The name is checked first; a blank name leaves
// the description flag untouched. On success the input buffers are cleared.
func (m *Model) Add(name, description string) error {
	m.SetInput(name, description)

	if isBlank(name) {
		m.missingName = true
		m.logger.Info("add rejected", "reason", ErrMissingName)
		return ErrMissingName
	}
	m.missingName = false

	if isBlank(description) {
		m.missingDescription = true
		m.logger.Info("add rejected", "reason", ErrMissingDescription)
		return ErrMissingDescription
	}
	m.missingDescription = false

	m.todos = append(m.todos, models.Todo{
		Text:            name,
		Description:     description,
		SubDescriptions: []string{},
	})
	m.SetInput("", "")
	m.logger.Debug("added todo", "index", len(m.todos)-1)
	return nil
}

// DeleteAt removes the todo at index and closes any pending delete
// confirmation. Indices after it shift down by one, so an open edit session
// is re-targeted, or discarded if it pointed at the removed todo.
func (m *Model) DeleteAt(index int) {
	m.checkIndex(index)

	m.todos = append(m.todos[:index], m.todos[index+1:]...)
	m.pending = nil

	if m.edit != nil {
		switch {
		case m.edit.TargetIndex == index:
			m.edit = nil
		case m.edit.TargetIndex > index:
			m.edit.TargetIndex--
		}
	}
	m.logger.Debug("deleted todo", "index", index)
}

// RequestDelete opens a delete confirmation for the todo at index
func (m *Model) RequestDelete(index int) error {
	m.checkIndex(index)
	if m.edit != nil || m.pending != nil {
		return ErrWorkflowOpen
	}
	m.pending = &DeleteConfirmation{TargetIndex: index}
	m.logger.Debug("delete requested", "index", index)
	return nil
}

// PendingDelete returns the open delete confirmation, if any
func (m *Model) PendingDelete() (DeleteConfirmation, bool) {
	if m.pending == nil {
		return DeleteConfirmation{}, false
	}
	return *m.pending, true
}

// ConfirmDelete deletes the pending target and returns its index
func (m *Model) ConfirmDelete() (int, error) {
	if m.pending == nil {
		return 0, ErrNoPendingDelete
	}
	index := m.pending.TargetIndex
	m.DeleteAt(index)
	return index, nil
}

// CancelDelete closes the delete confirmation without deleting anything
func (m *Model) CancelDelete() {
	if m.pending != nil {
		m.logger.Debug("delete cancelled", "index", m.pending.TargetIndex)
	}
	m.pending = nil
}

// BeginEdit opens an edit session seeded from the todo at index
func (m *Model) BeginEdit(index int) (EditSession, error) {
	m.checkIndex(index)
	if m.edit != nil || m.pending != nil {
		return EditSession{}, ErrWorkflowOpen
	}
	t := m.todos[index]
	m.edit = &EditSession{
		TargetIndex:      index,
		DraftText:        t.Text,
		DraftDescription: t.Description,
	}
	m.logger.Debug("edit started", "index", index)
	return *m.edit, nil
}

// EditSession returns the open edit session, if any
func (m *Model) EditSession() (EditSession, bool) {
	if m.edit == nil {
		return EditSession{}, false
	}
	return *m.edit, true
}

// SetDraft updates the drafts of the open edit session
func (m *Model) SetDraft(text, description string) error {
	if m.edit == nil {
		return ErrNoEditSession
	}
	m.edit.DraftText = text
	m.edit.DraftDescription = description
	return nil
}

// CommitEdit writes the drafts into the target todo and closes the session.
// Only the name is validated; on a blank name the session stays open. The
// returned acknowledgment is to be delivered after its Delay.
func (m *Model) CommitEdit() (Acknowledgment, error) {
	if m.edit == nil {
		return Acknowledgment{}, ErrNoEditSession
	}
	if isBlank(m.edit.DraftText) {
		m.edit.MissingName = true
		m.logger.Info("edit rejected", "index", m.edit.TargetIndex, "reason", ErrMissingName)
		return Acknowledgment{}, ErrMissingName
	}

	index := m.edit.TargetIndex
	m.checkIndex(index)
	m.todos[index].Text = m.edit.DraftText
	m.todos[index].Description = m.edit.DraftDescription
	m.edit = nil

	m.logger.Debug("edit committed", "index", index)
	return Acknowledgment{
		Index:   index,
		Message: EditedMessage,
		Delay:   AcknowledgeDelay,
	}, nil
}

// CancelEdit discards the edit session
func (m *Model) CancelEdit() {
	if m.edit != nil {
		m.logger.Debug("edit cancelled", "index", m.edit.TargetIndex)
	}
	m.edit = nil
}

// ToggleComplete flips the completed flag of the todo at index
func (m *Model) ToggleComplete(index int) {
	m.checkIndex(index)
	m.todos[index].Completed = !m.todos[index].Completed
	m.logger.Debug("toggled todo", "index", index, "completed", m.todos[index].Completed)
}

// AddSubDescription appends an empty sub-description to the todo at index
func (m *Model) AddSubDescription(index int) {
	m.checkIndex(index)
	m.todos[index].SubDescriptions = append(m.todos[index].SubDescriptions, "")
	m.logger.Debug("added sub-description", "index", index, "sub", len(m.todos[index].SubDescriptions)-1)
}

// EditSubDescription replaces a sub-description verbatim
func (m *Model) EditSubDescription(index, subIndex int, text string) {
	m.checkSubIndex(index, subIndex)
	m.todos[index].SubDescriptions[subIndex] = text
}

// RemoveSubDescription removes one sub-description; later ones shift down
func (m *Model) RemoveSubDescription(index, subIndex int) {
	m.checkSubIndex(index, subIndex)
	subs := m.todos[index].SubDescriptions
	m.todos[index].SubDescriptions = append(subs[:subIndex], subs[subIndex+1:]...)
	m.logger.Debug("removed sub-description", "index", index, "sub", subIndex)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
