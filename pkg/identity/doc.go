// Package identity holds the records that describe who is logged in: the
// server-sourced User and the opaque Credentials pair used to call the HR API.
//
// Decoding is lenient about the shapes the HR backend produces (numeric or
// string identifiers, Portuguese field aliases) so the rest of the module can
// work with a single normalized form.
package identity
