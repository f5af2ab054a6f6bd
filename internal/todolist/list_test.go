package todolist

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/tgienger/nestedtodo/internal/models"
)

func newListWith(t *testing.T, names ...string) *Model {
	t.Helper()
	m := New()
	for _, name := range names {
		if err := m.Add(name, name+" description"); err != nil {
			t.Fatalf("add %q: %v", name, err)
		}
	}
	return m
}

func texts(m *Model) []string {
	var out []string
	for _, todo := range m.Todos() {
		out = append(out, todo.Text)
	}
	return out
}

func expectOutOfRange(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("expected ErrIndexOutOfRange panic, got %v", r)
		}
	}()
	fn()
}

func TestAddValidation(t *testing.T) {
	tests := []struct {
		name        string
		todoName    string
		description string
		wantErr     error
		wantName    bool
		wantDesc    bool
	}{
		{name: "both blank", todoName: "", description: "", wantErr: ErrMissingName, wantName: true},
		{name: "blank name", todoName: "", description: "x", wantErr: ErrMissingName, wantName: true},
		{name: "whitespace name", todoName: "   ", description: "x", wantErr: ErrMissingName, wantName: true},
		{name: "blank description", todoName: "x", description: "", wantErr: ErrMissingDescription, wantDesc: true},
		{name: "whitespace description", todoName: "x", description: "\t ", wantErr: ErrMissingDescription, wantDesc: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			err := m.Add(tt.todoName, tt.description)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if m.Len() != 0 {
				t.Fatalf("expected empty list, got %d todos", m.Len())
			}
			if m.MissingName() != tt.wantName {
				t.Fatalf("expected MissingName=%v, got %v", tt.wantName, m.MissingName())
			}
			if m.MissingDescription() != tt.wantDesc {
				t.Fatalf("expected MissingDescription=%v, got %v", tt.wantDesc, m.MissingDescription())
			}
			name, desc := m.Input()
			if name != tt.todoName || desc != tt.description {
				t.Fatalf("expected buffers to keep %q/%q, got %q/%q", tt.todoName, tt.description, name, desc)
			}
		})
	}
}

func TestAddAppends(t *testing.T) {
	m := New()
	if err := m.Add("x", "y"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if m.Len() != 1 {
		t.Fatalf("expected 1 todo, got %d", m.Len())
	}
	want := models.Todo{Text: "x", Description: "y", Completed: false, SubDescriptions: []string{}}
	if got := m.At(0); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	name, desc := m.Input()
	if name != "" || desc != "" {
		t.Fatalf("expected cleared buffers, got %q/%q", name, desc)
	}
}

func TestAddNameFailureLeavesDescriptionFlag(t *testing.T) {
	m := New()
	_ = m.Add("x", "")
	if !m.MissingDescription() {
		t.Fatalf("expected MissingDescription after blank description")
	}

	// The description is not checked once the name fails.
	_ = m.Add("", "")
	if !m.MissingName() {
		t.Fatalf("expected MissingName")
	}
	if !m.MissingDescription() {
		t.Fatalf("expected MissingDescription to be left as it was")
	}

	if err := m.Add("x", "y"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if m.MissingName() || m.MissingDescription() {
		t.Fatalf("expected both flags cleared after a successful add")
	}
}

func TestAddKeepsTextVerbatim(t *testing.T) {
	m := New()
	if err := m.Add("  padded  ", " desc "); err != nil {
		t.Fatalf("add: %v", err)
	}
	got := m.At(0)
	if got.Text != "  padded  " || got.Description != " desc " {
		t.Fatalf("expected untrimmed text, got %q/%q", got.Text, got.Description)
	}
}

func TestCanAdd(t *testing.T) {
	m := New()
	if m.CanAdd() {
		t.Fatalf("expected CanAdd false on empty buffers")
	}
	m.SetInput("name", " ")
	if m.CanAdd() {
		t.Fatalf("expected CanAdd false with blank description")
	}
	m.SetInput("name", "desc")
	if !m.CanAdd() {
		t.Fatalf("expected CanAdd true")
	}
}

func TestDeleteAtShiftsLaterTodos(t *testing.T) {
	m := newListWith(t, "a", "b", "c", "d")
	m.DeleteAt(1)

	want := []string{"a", "c", "d"}
	if got := texts(m); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestDeleteAtLastAndOnly(t *testing.T) {
	m := newListWith(t, "a", "b")
	m.DeleteAt(1)
	m.DeleteAt(0)
	if m.Len() != 0 {
		t.Fatalf("expected empty list, got %v", texts(m))
	}
}

func TestDeleteAtOutOfRange(t *testing.T) {
	m := newListWith(t, "a")
	expectOutOfRange(t, func() { m.DeleteAt(1) })
	expectOutOfRange(t, func() { m.DeleteAt(-1) })
	if m.Len() != 1 {
		t.Fatalf("expected list untouched, got %d todos", m.Len())
	}
}

func TestDeleteConfirmationTargetsRequestedTodo(t *testing.T) {
	m := newListWith(t, "a", "b", "c")

	// An earlier edit of another row must not decide what gets deleted.
	if _, err := m.BeginEdit(0); err != nil {
		t.Fatalf("begin edit: %v", err)
	}
	m.CancelEdit()

	if err := m.RequestDelete(2); err != nil {
		t.Fatalf("request delete: %v", err)
	}
	pending, ok := m.PendingDelete()
	if !ok || pending.TargetIndex != 2 {
		t.Fatalf("expected pending delete of 2, got %+v (open=%v)", pending, ok)
	}

	index, err := m.ConfirmDelete()
	if err != nil {
		t.Fatalf("confirm delete: %v", err)
	}
	if index != 2 {
		t.Fatalf("expected index 2, got %d", index)
	}
	if got, want := texts(m), []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if _, ok := m.PendingDelete(); ok {
		t.Fatalf("expected confirmation closed")
	}
}

func TestCancelDelete(t *testing.T) {
	m := newListWith(t, "a")
	if err := m.RequestDelete(0); err != nil {
		t.Fatalf("request delete: %v", err)
	}
	m.CancelDelete()
	if _, ok := m.PendingDelete(); ok {
		t.Fatalf("expected confirmation closed")
	}
	if m.Len() != 1 {
		t.Fatalf("expected list untouched")
	}
	if _, err := m.ConfirmDelete(); !errors.Is(err, ErrNoPendingDelete) {
		t.Fatalf("expected ErrNoPendingDelete, got %v", err)
	}
}

func TestDeleteAtClosesConfirmation(t *testing.T) {
	m := newListWith(t, "a", "b")
	if err := m.RequestDelete(1); err != nil {
		t.Fatalf("request delete: %v", err)
	}
	m.DeleteAt(0)
	if _, ok := m.PendingDelete(); ok {
		t.Fatalf("expected DeleteAt to close the confirmation")
	}
}

func TestDeleteAtRetargetsEditSession(t *testing.T) {
	m := newListWith(t, "a", "b", "c")
	if _, err := m.BeginEdit(2); err != nil {
		t.Fatalf("begin edit: %v", err)
	}
	m.DeleteAt(0)
	session, ok := m.EditSession()
	if !ok || session.TargetIndex != 1 {
		t.Fatalf("expected session re-targeted to 1, got %+v (open=%v)", session, ok)
	}

	m.DeleteAt(1)
	if _, ok := m.EditSession(); ok {
		t.Fatalf("expected session discarded with its target")
	}
}

func TestWorkflowsAreExclusive(t *testing.T) {
	m := newListWith(t, "a", "b")

	if _, err := m.BeginEdit(0); err != nil {
		t.Fatalf("begin edit: %v", err)
	}
	if err := m.RequestDelete(1); !errors.Is(err, ErrWorkflowOpen) {
		t.Fatalf("expected ErrWorkflowOpen, got %v", err)
	}
	if _, err := m.BeginEdit(1); !errors.Is(err, ErrWorkflowOpen) {
		t.Fatalf("expected ErrWorkflowOpen, got %v", err)
	}
	m.CancelEdit()

	if err := m.RequestDelete(1); err != nil {
		t.Fatalf("request delete: %v", err)
	}
	if _, err := m.BeginEdit(0); !errors.Is(err, ErrWorkflowOpen) {
		t.Fatalf("expected ErrWorkflowOpen, got %v", err)
	}
}

func TestToggleCompleteTwiceRestores(t *testing.T) {
	m := newListWith(t, "a")
	m.AddSubDescription(0)
	before := m.At(0)

	m.ToggleComplete(0)
	if !m.At(0).Completed {
		t.Fatalf("expected completed after one toggle")
	}
	m.ToggleComplete(0)
	if got := m.At(0); !reflect.DeepEqual(got, before) {
		t.Fatalf("expected %+v, got %+v", before, got)
	}
}

func TestCommitEditUpdatesOnlyTextAndDescription(t *testing.T) {
	m := newListWith(t, "a", "b")
	m.AddSubDescription(1)
	m.EditSubDescription(1, 0, "keep me")
	m.ToggleComplete(1)
	before := m.At(1)

	session, err := m.BeginEdit(1)
	if err != nil {
		t.Fatalf("begin edit: %v", err)
	}
	if session.DraftText != "b" || session.DraftDescription != "b description" {
		t.Fatalf("expected drafts seeded from todo, got %+v", session)
	}
	if err := m.SetDraft("renamed", ""); err != nil {
		t.Fatalf("set draft: %v", err)
	}

	ack, err := m.CommitEdit()
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if ack.Index != 1 || ack.Message != EditedMessage || ack.Delay != AcknowledgeDelay {
		t.Fatalf("unexpected acknowledgment %+v", ack)
	}
	if ack.Message != "Task Edited successfully!" {
		t.Fatalf("unexpected acknowledgment text %q", ack.Message)
	}

	got := m.At(1)
	if got.Text != "renamed" || got.Description != "" {
		t.Fatalf("expected renamed todo with empty description, got %+v", got)
	}
	if got.Completed != before.Completed || !reflect.DeepEqual(got.SubDescriptions, before.SubDescriptions) {
		t.Fatalf("expected completed and sub-descriptions preserved, got %+v", got)
	}
	if m.At(0).Text != "a" {
		t.Fatalf("expected other todos untouched")
	}
	if _, ok := m.EditSession(); ok {
		t.Fatalf("expected session closed after commit")
	}
}

func TestCommitEditBlankNameKeepsSession(t *testing.T) {
	m := newListWith(t, "a")
	before := m.Todos()

	if _, err := m.BeginEdit(0); err != nil {
		t.Fatalf("begin edit: %v", err)
	}
	if err := m.SetDraft("  ", "new description"); err != nil {
		t.Fatalf("set draft: %v", err)
	}
	if _, err := m.CommitEdit(); !errors.Is(err, ErrMissingName) {
		t.Fatalf("expected ErrMissingName, got %v", err)
	}

	if got := m.Todos(); !reflect.DeepEqual(got, before) {
		t.Fatalf("expected list unchanged, got %+v", got)
	}
	session, ok := m.EditSession()
	if !ok {
		t.Fatalf("expected session to stay open")
	}
	if !session.MissingName || session.DraftDescription != "new description" {
		t.Fatalf("unexpected session %+v", session)
	}
}

func TestCancelEdit(t *testing.T) {
	m := newListWith(t, "a")
	if _, err := m.BeginEdit(0); err != nil {
		t.Fatalf("begin edit: %v", err)
	}
	_ = m.SetDraft("changed", "changed")
	m.CancelEdit()

	if m.At(0).Text != "a" {
		t.Fatalf("expected todo unchanged, got %q", m.At(0).Text)
	}
	if err := m.SetDraft("x", "y"); !errors.Is(err, ErrNoEditSession) {
		t.Fatalf("expected ErrNoEditSession, got %v", err)
	}
	if _, err := m.CommitEdit(); !errors.Is(err, ErrNoEditSession) {
		t.Fatalf("expected ErrNoEditSession, got %v", err)
	}
}

func TestSubDescriptionRoundTrip(t *testing.T) {
	m := newListWith(t, "a")
	m.AddSubDescription(0)
	m.EditSubDescription(0, 0, "hello")
	if got := m.At(0).SubDescriptions; !reflect.DeepEqual(got, []string{"hello"}) {
		t.Fatalf("expected [hello], got %v", got)
	}
	m.RemoveSubDescription(0, 0)
	if got := m.At(0).SubDescriptions; len(got) != 0 {
		t.Fatalf("expected no sub-descriptions, got %v", got)
	}
}

func TestSubDescriptionsShiftAndStayVerbatim(t *testing.T) {
	m := newListWith(t, "a", "b")
	for range 3 {
		m.AddSubDescription(1)
	}
	m.EditSubDescription(1, 0, "  first ")
	m.EditSubDescription(1, 2, "third")
	m.RemoveSubDescription(1, 0)

	want := []string{"", "third"}
	if got := m.At(1).SubDescriptions; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if got := m.At(0).SubDescriptions; len(got) != 0 {
		t.Fatalf("expected other todo untouched, got %v", got)
	}

	m.EditSubDescription(1, 0, "  first ")
	if got := m.At(1).SubDescriptions[0]; got != "  first " {
		t.Fatalf("expected verbatim text, got %q", got)
	}
}

func TestSubDescriptionOutOfRange(t *testing.T) {
	m := newListWith(t, "a")
	m.AddSubDescription(0)
	expectOutOfRange(t, func() { m.EditSubDescription(0, 1, "x") })
	expectOutOfRange(t, func() { m.RemoveSubDescription(0, -1) })
	expectOutOfRange(t, func() { m.AddSubDescription(3) })
	if got := m.At(0).SubDescriptions; !reflect.DeepEqual(got, []string{""}) {
		t.Fatalf("expected sub-descriptions untouched, got %q", got)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	m := newListWith(t, "a")
	m.AddSubDescription(0)

	todo := m.At(0)
	todo.SubDescriptions[0] = "mutated"
	todo.Text = "mutated"

	all := m.Todos()
	all[0].SubDescriptions[0] = "mutated"

	got := m.At(0)
	if got.Text != "a" || got.SubDescriptions[0] != "" {
		t.Fatalf("expected internal state untouched, got %+v", got)
	}
}

func TestScenario(t *testing.T) {
	m := New()
	if err := m.Add("Buy milk", "2 liters"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := m.Add("Call mom", ""); !errors.Is(err, ErrMissingDescription) {
		t.Fatalf("expected ErrMissingDescription, got %v", err)
	}
	if !m.MissingDescription() {
		t.Fatalf("expected MissingDescription flag")
	}
	if m.Len() != 1 {
		t.Fatalf("expected 1 todo, got %d", m.Len())
	}
	m.ToggleComplete(0)
	if !m.At(0).Completed {
		t.Fatalf("expected todo 0 completed")
	}
}

func TestCommandsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	m := New(WithLogger(logger))

	_ = m.Add("", "")
	_ = m.Add("a", "b")
	m.ToggleComplete(0)

	out := buf.String()
	for _, want := range []string{"add rejected", "added todo", "toggled todo"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected log to contain %q, got:\n%s", want, out)
		}
	}
}
