// Command quote prices a single transfer from the command line.
//
//	quote -distance 120 -vehicle suv -hour 18 -weekday
//	quote -from CMB -to Kandy -vehicle minivan
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/rs/zerolog"

	"recharge/internal/maps"
	"recharge/internal/modules/pricing"
)

func main() {
	var (
		distance = flag.Float64("distance", -1, "route distance in km")
		vehicle  = flag.String("vehicle", "sedan", "vehicle class id")
		hour     = flag.Int("hour", -1, "pickup hour 0-23 (omit for no time surcharge)")
		weekday  = flag.Bool("weekday", true, "pickup is on a weekday")
		from     = flag.String("from", "", "origin, resolved with the airport distance table")
		to       = flag.String("to", "", "destination, resolved with the airport distance table")
		list     = flag.Bool("list", false, "list vehicle classes and exit")
	)
	flag.Parse()
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if *list {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPASSENGERS\tMULTIPLIER")
		for _, vc := range pricing.VehicleClasses() {
			fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\n", vc.ID, vc.Name, vc.Passengers, vc.Multiplier)
		}
		_ = w.Flush()
		return
	}

	km := *distance
	if *from != "" || *to != "" {
		route, err := maps.NewRouteTable().EstimateRoute(context.Background(), *from, *to)
		if err != nil {
			log.Fatal().Err(err).Str("from", *from).Str("to", *to).Msg("route lookup")
		}
		km = route.DistanceKm
		fmt.Printf("Route: %s -> %s, %.0f km, about %d min\n", *from, *to, route.DistanceKm, route.DurationMinutes)
	}

	req := pricing.EstimateRequest{DistanceKm: km, VehicleClassID: *vehicle}
	if *hour >= 0 {
		req.PickupTime = &pricing.PickupTime{Hour: *hour, IsWeekday: *weekday}
	}
	b, err := pricing.Estimate(req)
	if err != nil {
		log.Fatal().Err(err).Msg("estimate")
	}

	labels := pricing.FormatBreakdown(b).Labels()
	keys := make([]string, 0, len(labels))
	for k := range labels {
		if k != "total_price" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	for _, k := range keys {
		fmt.Fprintf(w, "%s\t%s\t\n", k, labels[k])
	}
	fmt.Fprintf(w, "total_price\t%s\t\n", labels["total_price"])
	_ = w.Flush()
}
