package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/tvdbv4/tvdb"
)

var (
	searchType   string
	searchYear   int
	searchOffset int
	searchLimit  int
	filterExpr   string
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search TheTVDB",
	Long: `Search TheTVDB for series, movies, people and companies.

The --filter flag takes a preset name from the config file or an expression
evaluated against each result, for example:

  tvdbv4 search "star trek" --type series --filter 'Year >= 2017 and Country == "usa"'`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchType, "type", "t", "", "restrict to movie, series, person or company")
	searchCmd.Flags().IntVarP(&searchYear, "year", "y", 0, "restrict to a year")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "result offset")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 0, "maximum number of results")
	searchCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter preset name or expression")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	opts := tvdb.SearchOptions{Type: searchType}
	if cmd.Flags().Changed("year") {
		opts.Year = tvdb.Int(searchYear)
	}
	if cmd.Flags().Changed("offset") {
		opts.Offset = tvdb.Int(searchOffset)
	}
	if cmd.Flags().Changed("limit") {
		opts.Limit = tvdb.Int(searchLimit)
	}

	logger.Info().Str("query", args[0]).Str("type", searchType).Msg("Searching")

	results, err := client.SearchResults(ctx, args[0], opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if filterExpr != "" {
		total := len(results)
		results, err = filters.Apply(ctx, filterExpr, results)
		if err != nil {
			return fmt.Errorf("invalid filter: %w", err)
		}
		logger.Debug().Int("total", total).Int("matched", len(results)).Msg("Filtered search results")
	}

	return writeOutput(cmd.OutOrStdout(), cfg.Output.Format, results)
}
