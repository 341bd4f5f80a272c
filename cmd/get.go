package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/tvdbv4/tvdb"
)

var (
	getFull   bool
	getLang   string
	getParams []string
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <kind> <id>",
	Short: "Fetch a single resource",
	Long: `Fetch a resource by kind and id. Kinds: series, episodes, seasons, movies,
artwork, awards, people, characters.

With --full the extended record and its translation are fetched together
(series, episodes, seasons, movies and people only).`,
	Args: cobra.ExactArgs(2),
	RunE: runGet,
}

// translationCmd represents the translation command
var translationCmd = &cobra.Command{
	Use:   "translation <kind> <id>",
	Short: "Fetch the translation of a resource",
	Args:  cobra.ExactArgs(2),
	RunE:  runTranslation,
}

// seriesByNameCmd represents the series-by-name command
var seriesByNameCmd = &cobra.Command{
	Use:   "series-by-name <name>",
	Short: "Fetch the best series match for a name",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeriesByName,
}

func init() {
	getCmd.Flags().BoolVar(&getFull, "full", false, "include the translation")
	getCmd.Flags().StringVar(&getLang, "lang", "", "translation language for --full (default from config)")
	getCmd.Flags().StringArrayVarP(&getParams, "param", "p", nil, "extra query parameter as key=value, repeatable")

	translationCmd.Flags().StringVar(&getLang, "lang", "", "translation language (default from config)")
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	id := tvdb.ID(args[1])

	if getFull {
		if len(getParams) > 0 {
			return fmt.Errorf("--param cannot be combined with --full")
		}
		full, err := client.Full(ctx, kind, id, language())
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), cfg.Output.Format, full)
	}

	params, err := parseParams(getParams)
	if err != nil {
		return err
	}

	record, err := client.Get(ctx, kind, id, params...)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), cfg.Output.Format, record)
}

func runTranslation(cmd *cobra.Command, args []string) error {
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}

	record, err := client.Translation(cmd.Context(), kind, tvdb.ID(args[1]), language())
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), cfg.Output.Format, record)
}

func runSeriesByName(cmd *cobra.Command, args []string) error {
	record, err := client.SeriesByName(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), cfg.Output.Format, record)
}

// language returns the --lang flag, falling back to the configured language
func language() string {
	if getLang != "" {
		return getLang
	}
	return cfg.TVDB.Language
}

// parseKind validates a resource kind argument
func parseKind(s string) (tvdb.Kind, error) {
	kind := tvdb.Kind(strings.ToLower(s))
	if !slices.Contains(tvdb.Kinds(), kind) {
		names := make([]string, 0, len(tvdb.Kinds()))
		for _, k := range tvdb.Kinds() {
			names = append(names, string(k))
		}
		return "", fmt.Errorf("unknown kind %q (expected one of %s)", s, strings.Join(names, ", "))
	}
	return kind, nil
}

// parseParams turns key=value flags into ordered query parameters
func parseParams(raw []string) ([]tvdb.Param, error) {
	params := make([]tvdb.Param, 0, len(raw))
	for _, p := range raw {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected key=value", p)
		}
		params = append(params, tvdb.Param{Key: key, Value: value})
	}
	return params, nil
}
