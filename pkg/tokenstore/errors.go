package tokenstore

import "errors"

var (
	// ErrIncompleteCredentials is returned by Set when either token is empty.
	ErrIncompleteCredentials = errors.New("tokenstore.incomplete_credentials")

	// ErrMissingUser is returned by Set when no user accompanies the tokens.
	ErrMissingUser = errors.New("tokenstore.missing_user")

	// ErrCorruptRecord is returned by codecs for records that are not a complete
	// triple. Stores remove such records and report them as empty.
	ErrCorruptRecord = errors.New("tokenstore.corrupt_record")

	// ErrUnsupportedVersion indicates a record written by a newer format version.
	ErrUnsupportedVersion = errors.New("tokenstore.unsupported_version")

	// ErrUnknownDriver is returned by Open for an unsupported driver name.
	ErrUnknownDriver = errors.New("tokenstore.unknown_driver")

	// ErrNoRedisClient is returned by Open when the redis driver is selected without a client.
	ErrNoRedisClient = errors.New("tokenstore.no_redis_client")
)
