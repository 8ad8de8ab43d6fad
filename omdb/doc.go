// Package omdb provides a client for the OMDb movie catalog API.
//
// The client covers the three read-only lookups reelist needs:
//
//   - Search: paged title search ("s" + "page" query parameters)
//   - GetByID: full record for one IMDb identifier ("i" + "plot=full")
//   - GetByTitle: full record for an exact title ("t")
//
// OMDb reports business failures ("Movie not found!", "Too many results.")
// inside a 200 response with Response set to "False". The client surfaces
// those as *UpstreamError so callers can show the upstream message verbatim,
// while transport and decoding failures remain ordinary wrapped errors.
//
// # Usage
//
//	client, err := omdb.NewClient(apiKey, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := client.Search(ctx, "batman", 1)
//	if err != nil {
//		var upstream *omdb.UpstreamError
//		if errors.As(err, &upstream) {
//			// catalog-level failure, message is user-presentable
//		}
//	}
//
// Every call issues exactly one outbound request. There are no retries and
// no caching; the only timeout is the HTTP client's.
package omdb
