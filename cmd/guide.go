// guide.go implements the --guide flag's long-form documentation output,
// following the teacher's extension/core/guide.go: terminal output gets
// glamour rendering for readability, pipe/redirect gets raw markdown for
// machine consumption.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/evanj-au/grepr/guide"
)

func showGuide(w io.Writer) error {
	content, err := guide.Get("")
	if err != nil {
		return fmt.Errorf("loading guide: %w", err)
	}

	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		rendered, err := glamour.Render(content, "dark")
		if err == nil {
			fmt.Fprint(w, rendered)
			return nil
		}
	}

	fmt.Fprint(w, content)
	return nil
}
