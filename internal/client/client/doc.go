// Package client contains the laundry API client and the local database
// bootstrap used by the console.
//
// # Overview
//
//  1. Client: the REST contract (staff login, phone identify, OTP verify and
//     resend, current user, countries, subscriber detail).
//  2. HTTPClient: the JSON/HTTP implementation. It keeps the bearer token set
//     via SetToken and attaches it, with a fresh X-Request-ID, to every call.
//  3. InitDatabase / RunMigrations: open the SQLite file holding persisted
//     credentials and apply the embedded goose migrations.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Any non-2xx response is an
// *APIError carrying the server's message and per-field errors; a 401 also
// matches ErrUnauthorized with errors.Is.
package client
