// Package redis connects the portal to a Redis server used as a shared
// credential store, for example when several portal replicas must see the
// same login.
//
// The package wraps the go-redis client and adds a retrying Connect and a
// Healthcheck suitable for readiness probes.
//
//	cfg := redis.Config{
//	    ConnectionURL:  "redis://localhost:6379/0",
//	    RetryAttempts:  3,
//	    RetryInterval:  time.Second,
//	    ConnectTimeout: 10 * time.Second,
//	}
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    // handle error
//	}
//	defer client.Close()
//
//	checks := []httpserver.Check{{Name: "redis", Probe: redis.Healthcheck(client)}}
package redis
