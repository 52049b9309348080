package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/qwacko/skroutes/pkg/scanner"
)

func genCmd() *cobra.Command {
	var (
		routesDir string
		outFile   string
		pkgName   string
		pageFile  string
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate the static route registry",
		Long: `Gen scans the routes directory, derives an address template from every
directory holding a page file, and writes a Go source file declaring the
registry. Attach validators to the generated entries in application code.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			info("scanning %s", routesDir)

			s := scanner.NewScanner(routesDir, scanner.WithPageFile(pageFile))
			routes, err := s.Scan()
			if err != nil {
				return err
			}

			src, err := (&scanner.Codegen{PackageName: pkgName}).Generate(routes)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(filepath.Dir(outFile), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(outFile, src, 0o644); err != nil {
				return err
			}

			success("wrote %d routes to %s", len(routes), outFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&routesDir, "routes", "r", "routes", "routes directory to scan")
	cmd.Flags().StringVarP(&outFile, "out", "o", "routes/routes_gen.go", "output file")
	cmd.Flags().StringVar(&pkgName, "package", "routes", "package name for the generated file")
	cmd.Flags().StringVar(&pageFile, "page-file", "page.go", "file name that marks a route directory")

	return cmd
}
