// Package connection talks to a restgate server over HTTP(S).
//
// HTTPClient prefixes resource paths with the API endpoint and version,
// attaches the x-token session header and decodes the server's error
// payload into *APIError. Manager turns the saved profile plus command
// line overrides into a client and persists tokens after login.
package connection
