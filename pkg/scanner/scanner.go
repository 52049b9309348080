// Package scanner discovers route declarations from a routes directory and
// generates the static registry module the engine consumes.
//
// The directory layout carries the address template syntax:
//
//	routes/page.go                      → /
//	routes/users/[id]/page.go           → /users/[id]
//	routes/files/[...path]/page.go      → /files/[...path]
//	routes/optional/[[slug]]/page.go    → /optional/[[slug]]
//	routes/(admin)/settings/page.go     → /(admin)/settings
//
// A directory declares a route when it contains a page file (page.go by
// default). The engine itself never scans files; it only consumes the
// emitted registry.
package scanner

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/qwacko/skroutes/pkg/template"
)

// ScannedRoute is one route discovered by the scanner.
type ScannedRoute struct {
	// Address is the route's address template, e.g. "/users/[id]".
	Address string

	// Dir is the directory that declared the route, relative to the scan
	// root.
	Dir string

	// Params are the placeholders of the address, in template order.
	Params []template.Placeholder
}

// ConflictError reports routes whose addresses collide once group segments
// are removed, e.g. /(admin)/settings and /settings.
type ConflictError struct {
	// Path is the colliding concrete path shape.
	Path string

	// Dirs are the declaring directories.
	Dirs []string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("conflicting routes at %s (declared in %s)",
		e.Path, strings.Join(e.Dirs, ", "))
}

// MultiError wraps every conflict found in one scan.
type MultiError struct {
	Errors []ConflictError
}

func (e *MultiError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d route conflicts:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Scanner discovers routes under one root directory.
type Scanner struct {
	rootDir  string
	pageFile string
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithPageFile sets the file name that marks a directory as a route
// (default "page.go").
func WithPageFile(name string) ScannerOption {
	return func(s *Scanner) {
		s.pageFile = name
	}
}

// NewScanner creates a scanner rooted at rootDir.
func NewScanner(rootDir string, opts ...ScannerOption) *Scanner {
	s := &Scanner{rootDir: rootDir, pageFile: "page.go"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan walks the routes directory, derives the address for every directory
// holding a page file, compiles each address (malformed placeholder syntax
// fails the scan) and checks for collisions. Routes are returned most
// specific first.
func (s *Scanner) Scan() ([]ScannedRoute, error) {
	var routes []ScannedRoute

	err := filepath.WalkDir(s.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != s.pageFile {
			return nil
		}

		dir := filepath.Dir(path)
		rel, err := filepath.Rel(s.rootDir, dir)
		if err != nil {
			return err
		}

		address := dirToAddress(rel)
		tmpl, err := template.Compile(address)
		if err != nil {
			return fmt.Errorf("route %s: %w", rel, err)
		}

		routes = append(routes, ScannedRoute{
			Address: address,
			Dir:     rel,
			Params:  tmpl.Params(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := checkConflicts(routes); err != nil {
		return nil, err
	}

	sortBySpecificity(routes)
	return routes, nil
}

// dirToAddress converts a scan-relative directory to its address template.
func dirToAddress(rel string) string {
	if rel == "." {
		return "/"
	}
	return "/" + filepath.ToSlash(rel)
}

// checkConflicts rejects routes that resolve to the same path shape once
// group segments are removed.
func checkConflicts(routes []ScannedRoute) error {
	byShape := make(map[string][]string)
	for _, r := range routes {
		shape := stripGroups(r.Address)
		byShape[shape] = append(byShape[shape], r.Dir)
	}

	var multi MultiError
	for shape, dirs := range byShape {
		if len(dirs) > 1 {
			sort.Strings(dirs)
			multi.Errors = append(multi.Errors, ConflictError{Path: shape, Dirs: dirs})
		}
	}
	if len(multi.Errors) > 0 {
		sort.Slice(multi.Errors, func(i, j int) bool {
			return multi.Errors[i].Path < multi.Errors[j].Path
		})
		return &multi
	}
	return nil
}

// stripGroups removes organizational group segments from an address.
func stripGroups(address string) string {
	segs := strings.Split(address, "/")
	out := segs[:0]
	for _, seg := range segs {
		if strings.HasPrefix(seg, "(") && strings.HasSuffix(seg, ")") {
			continue
		}
		out = append(out, seg)
	}
	shape := strings.Join(out, "/")
	if shape == "" {
		return "/"
	}
	return shape
}

// sortBySpecificity orders routes most specific first: static segments
// beat typed placeholders, typed beat plain, rest placeholders sort last.
// Ties break on address for deterministic output.
func sortBySpecificity(routes []ScannedRoute) {
	sort.SliceStable(routes, func(i, j int) bool {
		si, sj := specificity(routes[i].Address), specificity(routes[j].Address)
		if si != sj {
			return si > sj
		}
		return routes[i].Address < routes[j].Address
	})
}

// specificity scores one address; higher is more specific.
func specificity(address string) int {
	score := 0
	for _, seg := range strings.Split(strings.Trim(address, "/"), "/") {
		switch {
		case seg == "":
		case strings.HasPrefix(seg, "[..."):
			score += 1
		case strings.HasPrefix(seg, "[["):
			score += 5
		case strings.HasPrefix(seg, "[") && strings.Contains(seg, "="):
			score += 20
		case strings.HasPrefix(seg, "["):
			score += 10
		default:
			score += 50
		}
	}
	return score
}
