package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/deppfellow/jsongate/internal/admission"
	"github.com/deppfellow/jsongate/internal/lib/utils"
	"github.com/deppfellow/jsongate/internal/logger"
	"github.com/deppfellow/jsongate/internal/router"
	"github.com/deppfellow/jsongate/internal/server"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var routesJSON bool

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the route table and which routes require JSON admission",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// Nothing is served: no New Relic, and only errors are logged.
		log := logger.NewLogger("error", cfg.Observability.IsProduction())
		srv, err := server.New(cfg, &log, nil)
		if err != nil {
			return errors.Wrap(err, "failed to initialize server")
		}

		_, registry, err := router.NewRouter(srv)
		if err != nil {
			return err
		}

		return printRoutes(cmd.OutOrStdout(), registry.Strategy().Name(), registry.Routes(), routesJSON)
	},
}

func printRoutes(out io.Writer, strategy string, routes []admission.Route, asJSON bool) error {
	if asJSON {
		return utils.WriteJSON(out, struct {
			Strategy string            `json:"strategy"`
			Routes   []admission.Route `json:"routes"`
		}{strategy, routes})
	}

	fmt.Fprintf(out, "strategy: %s\n\n", strategy)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METHOD\tPATH\tHANDLER\tJSON")
	for _, route := range routes {
		admit := "-"
		if route.RequiresJSON {
			admit = "required"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", route.Method, route.Path, route.ID, admit)
	}
	return w.Flush()
}

func init() {
	routesCmd.Flags().BoolVar(&routesJSON, "json", false, "output JSON")
	rootCmd.AddCommand(routesCmd)
}
