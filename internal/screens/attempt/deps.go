// Package attempt contains the screens for taking a quiz and reviewing
// its result.
package attempt

import (
	"github.com/cuongduong73/ankiquiz/internal/anki"
	"github.com/cuongduong73/ankiquiz/internal/explain"
	"github.com/cuongduong73/ankiquiz/internal/quiz"
)

// Deps are the services shared by the quiz and result screens. Explainer
// and Anki may be nil, which hides the features that need them.
type Deps struct {
	Manager   *quiz.Manager
	Explainer *explain.Service
	Anki      *anki.Client

	// Name labels exported documents and saved attempts.
	Name string

	// ExportDir is where quiz documents are written.
	ExportDir string
}
