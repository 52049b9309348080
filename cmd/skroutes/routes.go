package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qwacko/skroutes/pkg/scanner"
)

func routesCmd() *cobra.Command {
	var (
		routesDir string
		pageFile  string
	)

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List discovered route addresses",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := scanner.NewScanner(routesDir, scanner.WithPageFile(pageFile))
			routes, err := s.Scan()
			if err != nil {
				return err
			}

			for _, r := range routes {
				if len(r.Params) == 0 {
					fmt.Println(r.Address)
					continue
				}
				fmt.Printf("%s\n", r.Address)
				for _, p := range r.Params {
					if p.Type != "" {
						fmt.Printf("    %s (%s, %s)\n", p.Name, p.Kind, p.Type)
					} else {
						fmt.Printf("    %s (%s)\n", p.Name, p.Kind)
					}
				}
			}
			info("%d routes", len(routes))
			return nil
		},
	}

	cmd.Flags().StringVarP(&routesDir, "routes", "r", "routes", "routes directory to scan")
	cmd.Flags().StringVar(&pageFile, "page-file", "page.go", "file name that marks a route directory")

	return cmd
}
