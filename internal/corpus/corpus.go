// Package corpus loads golden fixtures stored as txtar archives.
//
// Each archive holds an input.psig source plus its expected outcome:
// a canonical file listing the expected renderings line by line, or a
// diagnostics file listing the expected diagnostic codes. The archive
// comment describes the scenario.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/txtar"
)

// Case is one golden fixture.
type Case struct {
	Name        string
	Comment     string
	Source      string
	Canonical   []string
	Diagnostics []string
}

// ExpectsDiagnostics reports whether the fixture describes a rejected
// input.
func (c Case) ExpectsDiagnostics() bool {
	return len(c.Diagnostics) > 0
}

// Load reads every .txtar archive in dir, in file name order.
func Load(dir string) ([]Case, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var cases []Case
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txtar") {
			continue
		}
		c, err := load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, nil
}

func load(path string) (Case, error) {
	archive, err := txtar.ParseFile(path)
	if err != nil {
		return Case{}, fmt.Errorf("parse %s: %w", path, err)
	}

	c := Case{
		Name:    strings.TrimSuffix(filepath.Base(path), ".txtar"),
		Comment: strings.TrimSpace(string(archive.Comment)),
	}

	var haveInput bool
	for _, f := range archive.Files {
		switch f.Name {
		case "input.psig":
			haveInput = true
			c.Source = string(f.Data)
		case "canonical":
			c.Canonical = lines(f.Data)
		case "diagnostics":
			c.Diagnostics = lines(f.Data)
		default:
			return Case{}, fmt.Errorf("%s: unexpected archive member %q", path, f.Name)
		}
	}

	if !haveInput {
		return Case{}, fmt.Errorf("%s: missing input.psig", path)
	}
	if len(c.Canonical) > 0 && len(c.Diagnostics) > 0 {
		return Case{}, fmt.Errorf("%s: both canonical and diagnostics present", path)
	}
	return c, nil
}

// lines splits a member body into trimmed non-empty lines.
func lines(data []byte) []string {
	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
