// Package report reads and writes the fixed-format x-ray report.
//
// A report is plain text split into sections. Each section opens with a
// header line "=== <name>" and runs until the next header or end of file.
// The named_modules section lists one module per line:
//
//	visual.blocks.0.attn.qkv    Linear
//
// Parsing is deliberately lenient: lines that do not split into a path token
// and a class remainder are skipped without warning. A missing or empty
// named_modules section is a fatal input error.
package report

import (
	"errors"
	"regexp"
	"strings"
)

// Section names emitted by the dump side and consumed by the viz side.
const (
	SectionType            = "type"
	SectionConfig          = "config"
	SectionNamedModules    = "named_modules"
	SectionNamedParameters = "named_parameters"
)

// Input errors surfaced to the CLI as fatal.
var (
	ErrSectionMissing = errors.New("named_modules section not found")
	ErrSectionEmpty   = errors.New("named_modules section is empty")
)

// Record is one entry of the named_modules section.
type Record struct {
	Path  string
	Class string
}

// headerRE matches a section header line and captures the section name.
// Leading whitespace is tolerated; the name match is case-insensitive.
var headerRE = regexp.MustCompile(`^\s*===\s+(\S+)`)

// dataRE matches a section data line: a whitespace-free path token,
// a whitespace run, and the rest of the line as the class name.
var dataRE = regexp.MustCompile(`^(\S+)\s+(.+?)\s*$`)

// Section is a named slice of raw lines, header excluded.
type Section struct {
	Name  string
	Lines []string
}

// Sections splits report text into its "===" delimited sections.
// Text before the first header is dropped.
func Sections(text string) []Section {
	var sections []Section
	for _, raw := range strings.Split(text, "\n") {
		if m := headerRE.FindStringSubmatch(raw); m != nil {
			sections = append(sections, Section{Name: m[1]})
			continue
		}
		if len(sections) == 0 {
			continue
		}
		last := &sections[len(sections)-1]
		last.Lines = append(last.Lines, raw)
	}
	return sections
}

// ParseNamedModules extracts the named_modules table from report text.
//
// The section is located by a case-insensitive name match. Non-empty lines
// that match the "<path> <class>" shape become records; later duplicates of
// a path overwrite earlier ones; anything else is skipped silently.
// Returns ErrSectionMissing or ErrSectionEmpty when there is nothing to
// visualize.
func ParseNamedModules(text string) (map[string]Record, error) {
	var found bool
	records := make(map[string]Record)

	for _, sec := range Sections(text) {
		if !strings.EqualFold(sec.Name, SectionNamedModules) {
			continue
		}
		found = true
		for _, line := range sec.Lines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			m := dataRE.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			records[m[1]] = Record{Path: m[1], Class: m[2]}
		}
		break
	}

	if !found {
		return nil, ErrSectionMissing
	}
	if len(records) == 0 {
		return nil, ErrSectionEmpty
	}
	return records, nil
}
