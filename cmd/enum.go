package cmd

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/tvdbv4/tvdb"
)

type enumFunc func(ctx context.Context) ([]tvdb.Record, error)

// typeLists maps kinds to their type enumeration
func typeLists() map[tvdb.Kind]enumFunc {
	return map[tvdb.Kind]enumFunc{
		tvdb.KindArtwork:   client.ArtworkTypes,
		tvdb.KindCompanies: client.CompaniesTypes,
		tvdb.KindEntities:  client.EntityTypes,
		tvdb.KindPeople:    client.PeopleTypes,
		tvdb.KindSeasons:   client.SeasonsTypes,
		tvdb.KindSources:   client.SourcesTypes,
	}
}

// statusLists maps kinds to their status enumeration
func statusLists() map[tvdb.Kind]enumFunc {
	return map[tvdb.Kind]enumFunc{
		tvdb.KindArtwork: client.ArtworkStatuses,
		tvdb.KindMovies:  client.MoviesStatuses,
		tvdb.KindSeries:  client.SeriesStatuses,
	}
}

// typesCmd represents the types command
var typesCmd = &cobra.Command{
	Use:   "types <kind>",
	Short: "List the types of a kind (artwork, companies, entities, people, seasons, sources)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEnum(cmd, args[0], "types", typeLists())
	},
}

// statusesCmd represents the statuses command
var statusesCmd = &cobra.Command{
	Use:   "statuses <kind>",
	Short: "List the statuses of a kind (artwork, movies, series)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEnum(cmd, args[0], "statuses", statusLists())
	},
}

func runEnum(cmd *cobra.Command, arg, what string, lists map[tvdb.Kind]enumFunc) error {
	fetch, ok := lists[tvdb.Kind(strings.ToLower(arg))]
	if !ok {
		names := make([]string, 0, len(lists))
		for kind := range lists {
			names = append(names, string(kind))
		}
		slices.Sort(names)
		return fmt.Errorf("no %s for kind %q (expected one of %s)", what, arg, strings.Join(names, ", "))
	}

	records, err := fetch(cmd.Context())
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), cfg.Output.Format, records)
}
