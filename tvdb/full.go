package tvdb

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Full fetches the extended record of a resource and its translation into
// lang concurrently. Both calls must succeed; the first failure cancels the
// other and is returned.
func (c *Client) Full(ctx context.Context, kind Kind, id ID, lang string) (*FullRecord, error) {
	def, err := lookupKind(kind)
	if err != nil {
		return nil, err
	}
	if !def.composable {
		return nil, fmt.Errorf("%w: %q has no full record", ErrUnsupportedKind, kind)
	}
	if lang == "" {
		lang = DefaultLanguage
	}

	// Resolve the token up front so a cold client logs in once, not per call.
	if _, err := c.auth.Token(ctx); err != nil {
		return nil, err
	}

	var extended, translations Record

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rec, err := c.Fetch(ctx, kind, id, FetchOptions{Extended: def.extended, Params: def.fullParams})
		if err != nil {
			return err
		}
		extended = rec
		return nil
	})

	g.Go(func() error {
		rec, err := c.FetchTranslation(ctx, kind, id, lang)
		if err != nil {
			return err
		}
		translations = rec
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &FullRecord{Extended: extended, Translations: translations}, nil
}
