package scanner

import (
	"fmt"
	"go/format"
	"strconv"
	"strings"
)

// Codegen emits the static registry module for a set of scanned routes.
type Codegen struct {
	// PackageName is the package declared by the generated file
	// (default "routes").
	PackageName string
}

// Generate renders the registry source for routes. The output declares the
// discovered addresses and a Table constructor; validators and failure
// handlers are attached by the application before the table is built.
func (c *Codegen) Generate(routes []ScannedRoute) ([]byte, error) {
	pkg := c.PackageName
	if pkg == "" {
		pkg = "routes"
	}

	var sb strings.Builder
	sb.WriteString("// Code generated by skroutes gen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&sb, "package %s\n\n", pkg)
	sb.WriteString("import \"github.com/qwacko/skroutes/pkg/urlgen\"\n\n")

	sb.WriteString("// Routes lists every discovered route, most specific first.\n")
	sb.WriteString("// Attach validators and failure handlers before building the table.\n")
	sb.WriteString("var Routes = []urlgen.RouteEntry{\n")
	for _, r := range routes {
		fmt.Fprintf(&sb, "\t{Address: %s}, // %s\n", strconv.Quote(r.Address), r.Dir)
	}
	sb.WriteString("}\n\n")

	sb.WriteString("// Table builds the route table for the discovered routes.\n")
	sb.WriteString("func Table() *urlgen.RouteTable {\n")
	sb.WriteString("\treturn urlgen.MustNewRouteTable(Routes...)\n")
	sb.WriteString("}\n")

	src, err := format.Source([]byte(sb.String()))
	if err != nil {
		return nil, fmt.Errorf("formatting generated registry: %w", err)
	}
	return src, nil
}
