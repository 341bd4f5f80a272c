package tvdb

import (
	"context"
	"fmt"
)

// kindDef describes how a resource kind is fetched
type kindDef struct {
	// extended selects the /extended variant of the resource
	extended bool
	// composable kinds support Full
	composable bool
	// fullParams are added to the extended fetch of a full record
	fullParams Params
}

var resourceKinds = map[Kind]kindDef{
	KindSeries:   {extended: true, composable: true},
	KindEpisodes: {extended: true, composable: true, fullParams: Params{{Key: "meta", Value: "episodes"}, {Key: "short", Value: "false"}}},
	KindSeasons:  {extended: true, composable: true},
	KindMovies:   {extended: true, composable: true},
	KindPeople:   {extended: true, composable: true},
	KindArtwork:  {extended: true},
	KindAwards:   {extended: true},
	// Characters have no extended variant.
	KindCharacters: {},
}

// DefaultLanguage is the translation language used when none is given
const DefaultLanguage = "eng"

func lookupKind(kind Kind) (kindDef, error) {
	def, ok := resourceKinds[kind]
	if !ok {
		return kindDef{}, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}
	return def, nil
}

// Kinds returns the resource kinds served by Get, in a stable order.
func Kinds() []Kind {
	return []Kind{KindSeries, KindEpisodes, KindSeasons, KindMovies, KindArtwork, KindAwards, KindPeople, KindCharacters}
}

// Get fetches a resource of the given kind using that kind's variant.
func (c *Client) Get(ctx context.Context, kind Kind, id ID, params ...Param) (Record, error) {
	def, err := lookupKind(kind)
	if err != nil {
		return nil, err
	}
	return c.Fetch(ctx, kind, id, FetchOptions{Extended: def.extended, Params: params})
}

// Translation fetches the translation of a resource. An empty lang falls
// back to DefaultLanguage.
func (c *Client) Translation(ctx context.Context, kind Kind, id ID, lang string) (Record, error) {
	if _, err := lookupKind(kind); err != nil {
		return nil, err
	}
	if lang == "" {
		lang = DefaultLanguage
	}
	return c.FetchTranslation(ctx, kind, id, lang)
}

// Series returns the extended series record
func (c *Client) Series(ctx context.Context, id ID, params ...Param) (Record, error) {
	return c.Get(ctx, KindSeries, id, params...)
}

// SeriesFull returns the extended series record with its translation
func (c *Client) SeriesFull(ctx context.Context, id ID, lang string) (*FullRecord, error) {
	return c.Full(ctx, KindSeries, id, lang)
}

// SeriesTranslations returns the series translation for lang
func (c *Client) SeriesTranslations(ctx context.Context, id ID, lang string) (Record, error) {
	return c.Translation(ctx, KindSeries, id, lang)
}

// SeriesByName returns the extended record of the best series match for
// name.
func (c *Client) SeriesByName(ctx context.Context, name string) (Record, error) {
	found, err := c.Search(ctx, name, SearchOptions{Type: string(KindSeries), Limit: Int(1)})
	if err != nil {
		return nil, fmt.Errorf("failed to search series: %w", err)
	}
	if len(found) == 0 {
		return nil, &NotFoundError{Kind: KindSeries, Query: name}
	}

	id := ID(found[0].String("tvdb_id"))
	if id == "" {
		return nil, &NotFoundError{Kind: KindSeries, Query: name}
	}

	c.logger.Debug().Str("name", name).Str("tvdb_id", id.String()).Msg("Resolved series by name")

	return c.Series(ctx, id)
}

// Episodes returns the extended episode record
func (c *Client) Episodes(ctx context.Context, id ID, params ...Param) (Record, error) {
	return c.Get(ctx, KindEpisodes, id, params...)
}

// EpisodesFull returns the extended episode record with its translation
func (c *Client) EpisodesFull(ctx context.Context, id ID, lang string) (*FullRecord, error) {
	return c.Full(ctx, KindEpisodes, id, lang)
}

// EpisodesTranslations returns the episode translation for lang
func (c *Client) EpisodesTranslations(ctx context.Context, id ID, lang string) (Record, error) {
	return c.Translation(ctx, KindEpisodes, id, lang)
}

// Seasons returns the extended season record
func (c *Client) Seasons(ctx context.Context, id ID, params ...Param) (Record, error) {
	return c.Get(ctx, KindSeasons, id, params...)
}

// SeasonsFull returns the extended season record with its translation
func (c *Client) SeasonsFull(ctx context.Context, id ID, lang string) (*FullRecord, error) {
	return c.Full(ctx, KindSeasons, id, lang)
}

// SeasonsTranslations returns the season translation for lang
func (c *Client) SeasonsTranslations(ctx context.Context, id ID, lang string) (Record, error) {
	return c.Translation(ctx, KindSeasons, id, lang)
}

// Movies returns the extended movie record
func (c *Client) Movies(ctx context.Context, id ID, params ...Param) (Record, error) {
	return c.Get(ctx, KindMovies, id, params...)
}

// MoviesFull returns the extended movie record with its translation
func (c *Client) MoviesFull(ctx context.Context, id ID, lang string) (*FullRecord, error) {
	return c.Full(ctx, KindMovies, id, lang)
}

// MoviesTranslations returns the movie translation for lang
func (c *Client) MoviesTranslations(ctx context.Context, id ID, lang string) (Record, error) {
	return c.Translation(ctx, KindMovies, id, lang)
}

// Artwork returns the extended artwork record
func (c *Client) Artwork(ctx context.Context, id ID, params ...Param) (Record, error) {
	return c.Get(ctx, KindArtwork, id, params...)
}

// Awards returns the extended award record
func (c *Client) Awards(ctx context.Context, id ID, params ...Param) (Record, error) {
	return c.Get(ctx, KindAwards, id, params...)
}

// People returns the extended person record
func (c *Client) People(ctx context.Context, id ID, params ...Param) (Record, error) {
	return c.Get(ctx, KindPeople, id, params...)
}

// PeopleFull returns the extended person record with its translation
func (c *Client) PeopleFull(ctx context.Context, id ID, lang string) (*FullRecord, error) {
	return c.Full(ctx, KindPeople, id, lang)
}

// PeopleTranslations returns the person translation for lang
func (c *Client) PeopleTranslations(ctx context.Context, id ID, lang string) (Record, error) {
	return c.Translation(ctx, KindPeople, id, lang)
}

// Characters returns the base character record
func (c *Client) Characters(ctx context.Context, id ID, params ...Param) (Record, error) {
	return c.Get(ctx, KindCharacters, id, params...)
}

// ArtworkTypes lists artwork types
func (c *Client) ArtworkTypes(ctx context.Context) ([]Record, error) {
	return c.FetchTypes(ctx, KindArtwork)
}

// CompaniesTypes lists company types
func (c *Client) CompaniesTypes(ctx context.Context) ([]Record, error) {
	return c.FetchTypes(ctx, KindCompanies)
}

// EntityTypes lists the active entity types
func (c *Client) EntityTypes(ctx context.Context) ([]Record, error) {
	return c.FetchTypes(ctx, KindEntities)
}

// PeopleTypes lists people types
func (c *Client) PeopleTypes(ctx context.Context) ([]Record, error) {
	return c.FetchTypes(ctx, KindPeople)
}

// SeasonsTypes lists season types
func (c *Client) SeasonsTypes(ctx context.Context) ([]Record, error) {
	return c.FetchTypes(ctx, KindSeasons)
}

// SourcesTypes lists source types
func (c *Client) SourcesTypes(ctx context.Context) ([]Record, error) {
	return c.FetchTypes(ctx, KindSources)
}

// ArtworkStatuses lists artwork statuses
func (c *Client) ArtworkStatuses(ctx context.Context) ([]Record, error) {
	return c.FetchStatuses(ctx, KindArtwork)
}

// MoviesStatuses lists movie statuses
func (c *Client) MoviesStatuses(ctx context.Context) ([]Record, error) {
	return c.FetchStatuses(ctx, KindMovies)
}

// SeriesStatuses lists series statuses
func (c *Client) SeriesStatuses(ctx context.Context) ([]Record, error) {
	return c.FetchStatuses(ctx, KindSeries)
}
