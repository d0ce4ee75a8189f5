// Package catalog provides the movie catalog model and a client for the remote catalog service.
//
// The remote service exposes a single unpaginated endpoint that returns a JSON array of
// movies, optionally narrowed by free text, genre, release year and minimum rating.
//
// # Architecture
//
// The package is organized into several components:
//
//   - Types: CatalogItem and the closed Genre enumeration
//   - Query: Criteria and BuildURL, which turn optional filters into a request URL
//   - Client: issues exactly one request per call and decodes the payload
//   - Errors: structured failure types for configuration, transport, protocol and data errors
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := catalog.NewClient(
//		"https://catalog.example.com/movies",
//		logger,
//		catalog.WithClientHeader("X-Catalog-Client", "my-client-id"),
//		catalog.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	drama := catalog.GenreDrama
//	movies, err := client.Fetch(ctx, catalog.Criteria{Genre: &drama})
//	if err != nil {
//		var apiErr *catalog.APIError
//		if errors.As(err, &apiErr) && apiErr.IsMissingHeader() {
//			// the identifying header was rejected
//		}
//	}
//
// # Error Handling
//
// A failed request never degrades into an empty result. Transport faults are reported as
// *TransportError, non-2xx responses as *APIError with a Kind taken from a fixed status
// table, and malformed payloads as *DecodeError.
package catalog
