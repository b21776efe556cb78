package editor

import (
	"errors"
	"os"
	"os/exec"
	"strings"
)

var ErrNoEditor = errors.New("no editor found: set editor in the config or $EDITOR")

// Opener builds the command that opens the stage file in a text editor
type Opener struct {
	preferred string
}

// NewOpener creates an opener; preferred wins over the environment when set.
// It may carry arguments, e.g. "code --wait".
func NewOpener(preferred string) *Opener {
	return &Opener{preferred: preferred}
}

// Command returns an exec.Cmd for editing path, to run with tea.ExecProcess
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	fields := strings.Fields(o.findEditor())
	if len(fields) == 0 {
		return nil, ErrNoEditor
	}

	cmd := exec.Command(fields[0], append(fields[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, nil
}

func (o *Opener) findEditor() string {
	for _, candidate := range []string{o.preferred, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}

	for _, editor := range []string{"nvim", "vim", "vi", "nano"} {
		if path, err := exec.LookPath(editor); err == nil {
			return path
		}
	}
	return ""
}
