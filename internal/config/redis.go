package config

import (
	"context"
	"crypto/tls"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds the shared Redis client used for distributed
// rate limiting and for caching review and room listings.  Address,
// credentials and TLS come from the environment:
//
//	REDIS_ADDR       host:port shorthand
//	REDIS_HOST/PORT  split form; takes precedence over REDIS_ADDR
//	REDIS_PASSWORD   optional
//	REDIS_DB         database number, default 0
//	REDIS_TLS        "true"/"1" to enable TLS
//
// Redis is an optional dependency: when the initial ping fails this
// returns nil and callers run with caching and rate limiting disabled
// rather than refusing to start.
func NewRedisClient() *redis.Client {
	addr := envStr("REDIS_ADDR", "localhost:6379")
	if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
		addr = host + ":" + port
	}

	var tlsConf *tls.Config
	if v := os.Getenv("REDIS_TLS"); strings.EqualFold(v, "true") || v == "1" {
		tlsConf = &tls.Config{InsecureSkipVerify: true}
	}

	client := redis.NewClient(&redis.Options{
		Addr:      addr,
		Password:  os.Getenv("REDIS_PASSWORD"),
		DB:        envInt("REDIS_DB", 0),
		TLSConfig: tlsConf,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}
