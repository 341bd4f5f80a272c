// Package tvdb provides a client for TheTVDB v4 API.
//
// TheTVDB is a community-maintained metadata database for series, movies and
// the people behind them. Every call requires a bearer token obtained by
// logging in with a project API key and a subscriber pin.
//
// # Architecture
//
//   - Client: builds resource URLs and performs authenticated GET requests
//   - Authenticator: exchanges credentials for a token on first use
//   - TokenCache: keeps the token for its lifetime (about a month)
//   - Record: untyped JSON objects with accessors and typed decoding
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := tvdb.NewClient(
//		tvdb.Credentials{Pin: pin, APIKey: apiKey},
//		logger,
//		tvdb.WithTimeout(10*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	series, err := client.Series(ctx, tvdb.IntID(81189))
//	full, err := client.SeriesFull(ctx, tvdb.IntID(81189), "deu")
//	hits, err := client.Search(ctx, "Breaking Bad", tvdb.SearchOptions{
//		Type:  "series",
//		Limit: tvdb.Int(5),
//	})
//
// # Error Handling
//
//   - ConfigError: pin or API key missing (matches ErrMissingCredentials)
//   - AuthError: login rejected or malformed
//   - APIError: non-2xx or malformed response, with status code and body
//   - NotFoundError: SeriesByName found nothing (matches ErrNotFound)
//
//	var apiErr *tvdb.APIError
//	if errors.As(err, &apiErr) && apiErr.IsNotFound() {
//		// resource absent
//	}
package tvdb
