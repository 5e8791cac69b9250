package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/cuongduong73/ankiquiz/internal/anki"
	"github.com/cuongduong73/ankiquiz/internal/explain"
	"github.com/cuongduong73/ankiquiz/internal/quiz"
	"github.com/cuongduong73/ankiquiz/internal/router"
	"github.com/cuongduong73/ankiquiz/internal/screen"
	"github.com/cuongduong73/ankiquiz/internal/screens/attempt"
	"github.com/cuongduong73/ankiquiz/internal/screens/home"
	"github.com/cuongduong73/ankiquiz/internal/store"
	"github.com/cuongduong73/ankiquiz/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	// pending screens are pushed on top of the initial one at startup.
	pending []screen.Screen
	width   int
	height  int
}

// newAppModel creates a new AppModel showing initial.
func newAppModel(initial screen.Screen, pending ...screen.Screen) AppModel {
	return AppModel{
		router:  router.New(initial),
		pending: pending,
	}
}

func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.router.Active().Init()}
	for _, s := range m.pending {
		cmds = append(cmds, func() tea.Msg { return router.PushScreenMsg{Screen: s} })
	}
	return tea.Sequence(cmds...)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if bh, ok := m.router.Active().(screen.BackHandler); ok && bh.HandlesBack() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render composes the frame for the current terminal size.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
	}
	if sp, ok := active.(screen.StatusProvider); ok {
		status = sp.Status()
	}

	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	}
	if len(footerHints) == 0 {
		if m.router.Depth() > 1 {
			footerHints = []layout.KeyHint{
				{Key: "Esc", Description: "Back"},
				{Key: "Ctrl+C", Description: "Quit"},
			}
		} else {
			footerHints = []layout.KeyHint{
				{Key: "↑↓", Description: "Navigate"},
				{Key: "Enter", Description: "Select"},
				{Key: "Ctrl+C", Description: "Quit"},
			}
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Options holds the services the screens need. Explainer and Anki are
// optional.
type Options struct {
	Manager   *quiz.Manager
	Datasets  store.DatasetRepo
	Attempts  store.AttemptRepo
	Explainer *explain.Service
	Anki      *anki.Client

	Setup home.Setup
	// Name labels the quiz. Empty means the selected dataset names.
	Name      string
	ExportDir string

	// StartQuiz opens the quiz already loaded in Manager instead of
	// waiting on the dataset list.
	StartQuiz bool
}

// Run starts the Bubble Tea program. Submitted attempts are saved to
// opts.Attempts.
func Run(opts Options) error {
	deps := attempt.Deps{
		Manager:   opts.Manager,
		Explainer: opts.Explainer,
		Anki:      opts.Anki,
		Name:      opts.Name,
		ExportDir: opts.ExportDir,
	}

	rec := newRecorder(opts.Manager, opts.Attempts, opts.Name)
	defer rec.Close()

	var pending []screen.Screen
	if opts.StartQuiz {
		pending = append(pending, attempt.NewQuiz(deps))
	}
	homeScreen := home.New(opts.Datasets, opts.Attempts, deps, opts.Setup)

	p := tea.NewProgram(newAppModel(homeScreen, pending...))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	for _, err := range rec.Errors() {
		fmt.Fprintln(os.Stderr, "warning: save attempt:", err)
	}
	return nil
}
