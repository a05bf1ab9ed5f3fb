package display

import (
	"fmt"
	"io"

	"github.com/seaflow/cruiseprep/internal/term"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Magenta)
	fmt.Fprint(w, `                  _
  ___ _ __ _   _(_)___  ___ _ __  _ __ ___ _ __
 / __| '__| | | | / __|/ _ \ '_ \| '__/ _ \ '_ \
| (__| |  | |_| | \__ \  __/ |_) | | |  __/ |_) |
 \___|_|   \__,_|_|___/\___| .__/|_|  \___| .__/
                           |_|            |_|
`)
	if term.Enabled() {
		fmt.Fprintln(w, term.NC)
	}
}
