package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/crudforge/pkg/logger"
)

var routesJSON bool

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the route table, with configured overlays applied",
	Long: `Print the route table the server would expose.

The table is built against in-memory stores, so no database is contacted;
controller overlays from the configuration file are applied.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		srv, err := buildServer(cmd.Context(), cfg, memoryBackend(), logger.NewNope(), nil)
		if err != nil {
			return err
		}
		defer func() { _ = srv.close(cmd.Context()) }()

		routes := srv.app.Routes()
		out := cmd.OutOrStdout()

		if routesJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(routes)
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "METHOD\tPATTERN\tNAME\tTAGS\tDESCRIPTION")
		for _, r := range routes {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Method, r.Pattern, r.Name, strings.Join(r.Tags, ","), r.Description)
		}
		return tw.Flush()
	},
}

func init() {
	routesCmd.Flags().BoolVar(&routesJSON, "json", false, "Print routes as JSON")
	rootCmd.AddCommand(routesCmd)
}
