// Package errs defines the error shapes the service returns to clients.
//
// Two shapes exist:
//   - HTTPError: the general API error (code, message, status, field errors),
//     rendered by the global Echo error handler.
//   - RejectionResponse: the fixed `{"msg": ...}` body written when a request
//     fails JSON admission (see InvalidJSONRequestError).
//
// Both play nicely with the standard errors package (errors.Is / errors.As).
package errs
