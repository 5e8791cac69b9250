// Package router keeps the stack of TUI screens. The quiz flow pushes
// the quiz over the dataset list, replaces it with the result, and pops
// back when the learner is done.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/cuongduong73/ankiquiz/internal/screen"
)

// PushScreenMsg opens Screen on top of the current one.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg closes the current screen.
type PopScreenMsg struct{}

// PopToRootMsg closes every screen above the first.
type PopToRootMsg struct{}

// ReplaceScreenMsg swaps the current screen for Screen, keeping the depth.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// Router manages a stack of screens. The bottom screen is never popped.
type Router struct {
	stack []screen.Screen
}

// New creates a Router showing root.
func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

// Push opens s and returns its Init command.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop closes the top screen and resumes the one below it.
func (r *Router) Pop() tea.Cmd {
	return r.popTo(len(r.stack) - 1)
}

// PopToRoot closes everything above the root screen.
func (r *Router) PopToRoot() tea.Cmd {
	return r.popTo(1)
}

// popTo truncates the stack to depth screens, never below one.
func (r *Router) popTo(depth int) tea.Cmd {
	depth = max(depth, 1)
	if depth >= len(r.stack) {
		return nil
	}
	clear(r.stack[depth:])
	r.stack = r.stack[:depth]
	if res, ok := r.Active().(screen.Resumer); ok {
		return res.Resume()
	}
	return nil
}

// Replace swaps the top screen for s and returns its Init command.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	r.stack[len(r.stack)-1] = s
	return s.Init()
}

// Active returns the top screen.
func (r *Router) Active() screen.Screen {
	return r.stack[len(r.stack)-1]
}

// Depth returns the number of open screens.
func (r *Router) Depth() int {
	return len(r.stack)
}

// Update applies navigation messages and forwards everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case PopToRootMsg:
		return r.PopToRoot()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	}

	updated, cmd := r.Active().Update(msg)
	r.stack[len(r.stack)-1] = updated
	return cmd
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	return r.Active().View(width, height)
}
