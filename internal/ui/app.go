package ui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/tgienger/nestedtodo/internal/todolist"
	"github.com/tgienger/nestedtodo/internal/ui/views"
)

type App struct {
	list     *todolist.Model
	todoView *views.TodoListView
	logger   *log.Logger
}

// Creates a new application over list
func NewApp(list *todolist.Model, opts views.Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &App{
		list:     list,
		todoView: views.NewTodoListView(list, opts),
		logger:   logger,
	}
}

func (a *App) Init() tea.Cmd {
	a.logger.Info("session started")
	return a.todoView.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		a.logger.Debug("window resized", "width", msg.Width, "height", msg.Height)
	}

	_, cmd := a.todoView.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	return a.todoView.View()
}

// Todos returns the list the app is editing
func (a *App) Todos() *todolist.Model {
	return a.list
}
