// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"io"

	"golang.org/x/term"
)

// fder is satisfied by *os.File.
type fder interface {
	Fd() uintptr
}

// isTerminal reports whether w is an interactive terminal. Buffers, pipes
// and files are not.
func isTerminal(w io.Writer) bool {
	f, ok := w.(fder)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
