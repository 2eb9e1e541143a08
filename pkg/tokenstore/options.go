package tokenstore

import "time"

// Option configures the file and redis stores.
type Option func(*options)

type options struct {
	codec     Codec
	keyPrefix string
	ttl       time.Duration
}

func defaultOptions() options {
	return options{
		codec:     JSONCodec{},
		keyPrefix: "hrportal:credentials:",
	}
}

// WithCodec sets the serialization codec. Nil is ignored.
func WithCodec(c Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithKeyPrefix sets the redis key prefix.
func WithKeyPrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" {
			o.keyPrefix = prefix
		}
	}
}

// WithTTL expires the redis record after d. Zero keeps it until cleared.
func WithTTL(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.ttl = d
		}
	}
}
