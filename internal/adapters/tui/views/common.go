package views

import (
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"lightdeck/internal/adapters/tui/styles"
	"lightdeck/internal/application"
	"lightdeck/internal/ports"
)

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// SetResult shows err, or msg when err is nil. Empty-state errors are
// informational and shown without the error style.
func (s *ViewState) SetResult(msg string, err error) {
	switch {
	case err == nil:
		s.SetMessage(msg, false)
	case application.IsEmptyState(err):
		s.SetMessage(err.Error(), false)
	default:
		s.SetMessage(err.Error(), true)
	}
}

// Panel is the per-stage state the tabs share. It is rebuilt every time
// the stage is loaded.
type Panel struct {
	Stage     ports.Stage
	Materials *application.MaterialManager
	Lights    *application.LightManager
	Sun       *application.SunController
	Refresher *application.LightRefresher
	Defaults  ports.DefaultsStore
	Theme     *styles.Theme
	// Copy puts text on the system clipboard
	Copy   func(string) error
	Logger *slog.Logger
}

// StageEditedMsg tells the app a view changed the stage
type StageEditedMsg struct{}

func edited() tea.Msg { return StageEditedMsg{} }

// Capturer is implemented by views that can take raw keyboard input, e.g.
// while a text field is focused. The app then skips its global keys.
type Capturer interface {
	Capturing() bool
}

var errNoClipboard = errors.New("clipboard is not available")

func (p *Panel) copyText(text string) error {
	if p.Copy == nil {
		return errNoClipboard
	}
	return p.Copy(text)
}
