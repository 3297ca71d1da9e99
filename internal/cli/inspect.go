package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/Nivhaham/FastApiBasics/internal/config"
	"github.com/Nivhaham/FastApiBasics/internal/handler"
	"github.com/Nivhaham/FastApiBasics/internal/openapi"
	"github.com/Nivhaham/FastApiBasics/internal/route"
	"github.com/Nivhaham/FastApiBasics/internal/router"
	"github.com/Nivhaham/FastApiBasics/internal/server"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/spf13/cobra"
)

// loadTable builds the route table the server would mount, with a
// silent logger.
func loadTable() (*config.Config, *route.Table, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	srv, err := server.New(cfg, nil, nil)
	if err != nil {
		return nil, nil, err
	}

	table, err := router.BuildTable(newHandlers(srv))
	if err != nil {
		return nil, nil, err
	}
	return cfg, table, nil
}

func newRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the routes in matching order",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, table, err := loadTable()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "METHOD\tPATH\tNAME")
			for _, r := range table.Routes() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.Method, r.Path, r.Name)
			}
			return w.Flush()
		},
	}
}

func newOpenAPICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI document",
		Example: strings.TrimSpace(`  reqflow openapi
  reqflow openapi --format yaml > openapi.yaml`),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return err
			}

			var render func(*openapi3.T) ([]byte, error)
			switch format {
			case "json":
				render = openapi.JSON
			case "yaml":
				render = openapi.YAML
			default:
				return newUsageError(fmt.Sprintf("openapi: unsupported --format %q (allowed: json, yaml)", format))
			}

			cfg, table, err := loadTable()
			if err != nil {
				return err
			}

			doc, err := openapi.Build(table, handler.DocInfo(cfg))
			if err != nil {
				return err
			}

			out, err := render(doc)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(append(out, '\n'))
			return err
		},
	}

	cmd.Flags().String("format", "json", "Output format (json|yaml)")
	return cmd
}
