// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompt collects project fields through labeled questions. A
// Session reads answers from any io.Reader, so the create and edit flows are
// testable with scripted input instead of a terminal.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/filedump/internal/registry"
	"github.com/pdiddy/filedump/pkg/types"
)

// Session asks questions on out and reads one answer line per question from
// in.
type Session struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewSession creates a Session over the given reader and writer.
func NewSession(in io.Reader, out io.Writer) *Session {
	return &Session{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// Ask prints a labeled question and returns the trimmed answer, or def when
// the answer is blank.
func (s *Session) Ask(label, def string) string {
	if def != "" {
		fmt.Fprintf(s.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(s.out, "%s: ", label)
	}
	if !s.in.Scan() {
		return def
	}
	answer := strings.TrimSpace(s.in.Text())
	if answer == "" {
		return def
	}
	return answer
}

// AskBool asks a y/n question and returns the answer, or def when blank or
// unrecognized.
func (s *Session) AskBool(label string, def bool) bool {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	switch strings.ToLower(s.Ask(fmt.Sprintf("%s (%s)", label, hint), "")) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return def
	}
}

// NormalizeName makes a project name usable as a lookup key by collapsing
// whitespace runs into single hyphens.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), "-")
}

// CollectProject runs the create flow: name, source, destination, filter,
// and placement mode. The assembled record is validated before it is
// returned.
func (s *Session) CollectProject(defaultDest string) (types.Project, error) {
	p := types.Project{
		Name:        NormalizeName(s.Ask("Project name", "")),
		Source:      s.Ask("Source directory", ""),
		Destination: s.Ask("Destination directory", defaultDest),
		Filter:      s.Ask("Filter pattern (e.g. *.java, optional)", ""),
		Flatten:     !s.AskBool("Preserve directory structure?", true),
	}
	if err := p.Validate(); err != nil {
		return types.Project{}, err
	}
	return p, nil
}

// CollectUpdate runs the edit flow against an existing record. Blank answers
// keep the current value; only changed fields are set in the returned
// partial update.
func (s *Session) CollectUpdate(current types.Project) registry.Update {
	var upd registry.Update

	if v := s.Ask("Source directory", current.Source); v != current.Source {
		upd.Source = &v
	}
	if v := s.Ask("Destination directory", current.Destination); v != current.Destination {
		upd.Destination = &v
	}
	// "none" clears a filter that a blank answer would otherwise keep.
	if v := s.Ask("Filter pattern (none to clear)", current.Filter); v != current.Filter {
		if strings.EqualFold(v, "none") {
			v = ""
		}
		upd.Filter = &v
	}
	if v := !s.AskBool("Preserve directory structure?", !current.Flatten); v != current.Flatten {
		upd.Flatten = &v
	}

	return upd
}
