package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/strada-dev/strada/internal/errors"
	"github.com/strada-dev/strada/pkg/router"
)

func openapiCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Generate an OpenAPI 3.0 document",
		Long: `Compile the routes directory and generate an OpenAPI 3.0 document.

Dynamic segments become {name} path parameters. Schema documents
declared on routes are embedded as parameter and request body schemas.
Output is deterministic for a given route tree.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpenAPI(output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runOpenAPI(output string) error {
	cfg, table, err := compileFromConfig()
	if err != nil {
		return err
	}

	spec, err := router.GenerateOpenAPI(table, router.OpenAPIInfo{
		Title:       cfg.Docs.Title,
		Description: cfg.Docs.Description,
		Version:     cfg.Docs.Version,
	})
	if err != nil {
		return errors.New("E201").Wrap(err)
	}

	if output == "" {
		fmt.Println(string(spec))
		return nil
	}

	if err := os.WriteFile(output, append(spec, '\n'), 0o644); err != nil {
		return err
	}
	success("wrote %s", output)
	return nil
}
