// Package redis connects to Redis through go-redis/v9 with retries and exposes
// a readiness probe. The billing replay guard is its main consumer.
package redis
