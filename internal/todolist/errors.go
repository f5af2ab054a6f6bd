package todolist

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingName is returned when a todo name is blank.
	ErrMissingName = errors.New("task name is required")
	// ErrMissingDescription is returned by Add when the description is blank.
	ErrMissingDescription = errors.New("task description is required")
	// ErrWorkflowOpen is returned when an edit or delete workflow is already open.
	ErrWorkflowOpen = errors.New("another workflow is open")
	// ErrNoEditSession is returned when no edit session is open.
	ErrNoEditSession = errors.New("no edit session open")
	// ErrNoPendingDelete is returned when no delete confirmation is pending.
	ErrNoPendingDelete = errors.New("no delete pending")
	// ErrIndexOutOfRange is the panic value wrapped for invalid indices.
	ErrIndexOutOfRange = errors.New("index out of range")
)

func (m *Model) checkIndex(index int) {
	if index < 0 || index >= len(m.todos) {
		panic(fmt.Errorf("%w: todo %d (len %d)", ErrIndexOutOfRange, index, len(m.todos)))
	}
}

func (m *Model) checkSubIndex(index, subIndex int) {
	m.checkIndex(index)
	subs := m.todos[index].SubDescriptions
	if subIndex < 0 || subIndex >= len(subs) {
		panic(fmt.Errorf("%w: sub-description %d of todo %d (len %d)", ErrIndexOutOfRange, subIndex, index, len(subs)))
	}
}
