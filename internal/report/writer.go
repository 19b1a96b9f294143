package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// truncationMarker is appended when a section is cut short by a limit.
// It is a single token on purpose: the section parser requires a path
// followed by whitespace and a remainder, so the marker can never be
// mistaken for a module record.
const truncationMarker = "...truncated..."

// Param is one entry of the named_parameters section.
type Param struct {
	Name  string
	Shape []int64
	DType string
}

// ShapeString renders a parameter shape as "(d0, d1, ...)".
func (p Param) ShapeString() string {
	dims := make([]string, len(p.Shape))
	for i, d := range p.Shape {
		dims[i] = fmt.Sprintf("%d", d)
	}
	return "(" + strings.Join(dims, ", ") + ")"
}

// Report is the full x-ray of a model file, ready to be written out.
type Report struct {
	Format       string
	File         string
	SizeBytes    int64
	Architecture string
	Config       map[string]string
	Modules      []Record
	Params       []Param
}

// Limits caps section lengths when writing. Zero means unlimited.
type Limits struct {
	MaxModules int
	MaxParams  int
}

// Write emits the report in the fixed text format. Modules and parameters
// are written sorted by path/name so repeated dumps of the same file are
// byte-identical.
func (r *Report) Write(w io.Writer, limits Limits) error {
	var b strings.Builder

	fmt.Fprintf(&b, "=== %s\n", SectionType)
	fmt.Fprintf(&b, "format: %s\n", r.Format)
	fmt.Fprintf(&b, "file: %s\n", r.File)
	fmt.Fprintf(&b, "size: %d bytes\n", r.SizeBytes)
	if r.Architecture != "" {
		fmt.Fprintf(&b, "architecture: %s\n", r.Architecture)
	}
	b.WriteString("\n")

	if len(r.Config) > 0 {
		fmt.Fprintf(&b, "=== %s\n", SectionConfig)
		keys := make([]string, 0, len(r.Config))
		for k := range r.Config {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "%-50s %s\n", k, r.Config[k])
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "=== %s\n", SectionNamedModules)
	modules := make([]Record, len(r.Modules))
	copy(modules, r.Modules)
	sort.Slice(modules, func(i, j int) bool { return modules[i].Path < modules[j].Path })
	for i, m := range modules {
		if limits.MaxModules > 0 && i >= limits.MaxModules {
			b.WriteString(truncationMarker + "\n")
			break
		}
		fmt.Fprintf(&b, "%-60s %s\n", m.Path, m.Class)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "=== %s\n", SectionNamedParameters)
	params := make([]Param, len(r.Params))
	copy(params, r.Params)
	sort.Slice(params, func(i, j int) bool { return params[i].Name < params[j].Name })
	for i, p := range params {
		if limits.MaxParams > 0 && i >= limits.MaxParams {
			b.WriteString(truncationMarker + "\n")
			break
		}
		fmt.Fprintf(&b, "%-70s shape=%s dtype=%s\n", p.Name, p.ShapeString(), p.DType)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
