package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/strada-dev/strada/internal/config"
	"github.com/strada-dev/strada/internal/errors"
	"github.com/strada-dev/strada/pkg/router"
)

func routesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List compiled routes",
		Long: `Compile the routes directory and print the resulting table.

Routes are printed in match order: most specific first, ties broken
alphabetically. The same order the dispatcher scans at runtime.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoutes()
		},
	}

	return cmd
}

func runRoutes() error {
	cfg, table, err := compileFromConfig()
	if err != nil {
		return err
	}

	if table.Len() == 0 {
		info("no routes found in %s", cfg.RoutesPath())
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PATTERN\tMETHODS\tSOURCE")
	for _, route := range table.Routes() {
		methods := make([]string, 0, len(route.Handlers))
		for _, m := range route.Allowed() {
			methods = append(methods, string(m))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", route.Path(), strings.Join(methods, ","), route.SourcePath)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	success("%d routes", table.Len())
	return nil
}

// compileFromConfig loads strada.json and compiles the configured routes
// directory by source inspection.
func compileFromConfig() (*config.Config, *router.Table, error) {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return nil, nil, err
	}

	routesDir := cfg.RoutesPath()
	if info, err := os.Stat(routesDir); err != nil || !info.IsDir() {
		return nil, nil, errors.New("E103").WithPath(routesDir)
	}

	table, err := router.Compile(os.DirFS(routesDir), &router.ASTLoader{Root: routesDir}, router.CompileOptions{
		Prefix: cfg.Prefix,
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, table, nil
}
