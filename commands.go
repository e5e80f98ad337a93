package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"delivery-dashboard/geo"
	"delivery-dashboard/models"
	"delivery-dashboard/server"
	"delivery-dashboard/services"
)

// filterFlags holds the selector flags shared by query commands.
type filterFlags struct {
	agent     string
	orderType string
	location  string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.agent, "agent", "a", models.AllValues, "Delivery agent to select")
	cmd.Flags().StringVarP(&f.orderType, "order-type", "o", models.AllValues, "Order type to select")
	cmd.Flags().StringVarP(&f.location, "location", "l", models.AllValues, "Location to select")
}

func (f *filterFlags) filter() models.Filter {
	filter := models.NewFilter(f.agent, f.orderType)
	filter.Location = models.ParseMatch(f.location)
	return filter
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the query API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			queries, err := loadQueries(cmd.Context())
			if err != nil {
				return err
			}
			srv, err := server.New(queries, logger)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.HTTPAddr
			}
			return srv.Run(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides HTTP_ADDR)")
	return cmd
}

func newSummaryCmd() *cobra.Command {
	var flags filterFlags
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the dashboard figures for a selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			queries, err := loadQueries(cmd.Context())
			if err != nil {
				return err
			}
			services.PrintReport(cmd.OutOrStdout(), queries.Report(flags.filter()))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

var queryOperations = map[string]func(*services.QueryService, models.Filter) any{
	"reviews":     func(q *services.QueryService, f models.Filter) any { return q.Reviews(f) },
	"cities":      func(q *services.QueryService, f models.Filter) any { return q.CityAggregates(f) },
	"order-types": func(q *services.QueryService, f models.Filter) any { return q.OrderTypeDistribution(f) },
	"top":         func(q *services.QueryService, f models.Filter) any { return q.TopStats(f) },
	"summary":     func(q *services.QueryService, f models.Filter) any { return q.SummaryStats(f) },
	"options":     func(q *services.QueryService, f models.Filter) any { return q.Options() },
}

func operationNames() []string {
	names := make([]string, 0, len(queryOperations))
	for name := range queryOperations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newQueryCmd() *cobra.Command {
	var flags filterFlags
	cmd := &cobra.Command{
		Use:       "query <operation>",
		Short:     "Run one query and print the result as JSON",
		Long:      "Run one query and print the result as JSON. Operations: " + strings.Join(operationNames(), ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: operationNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, ok := queryOperations[args[0]]
			if !ok {
				return fmt.Errorf("unknown operation %q (want one of %s)", args[0], strings.Join(operationNames(), ", "))
			}
			queries, err := loadQueries(cmd.Context())
			if err != nil {
				return err
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(op(queries, flags.filter()))
		},
	}
	flags.register(cmd)
	return cmd
}

func newNearestCmd() *cobra.Command {
	var lat, lon float64
	cmd := &cobra.Command{
		Use:   "nearest",
		Short: "Find the known delivery city closest to a coordinate",
		RunE: func(cmd *cobra.Command, args []string) error {
			city, dist, ok := geo.NewIndex().Nearest(lat, lon)
			if !ok {
				return fmt.Errorf("no cities indexed")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: (%.4f, %.4f) - %.2f km\n", city.Name, city.Lat, city.Lon, dist)
			return nil
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}
