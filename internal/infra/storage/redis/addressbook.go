package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabapcia/stakebridge/internal/addressbook"

	redis "github.com/redis/go-redis/v9"
)

// addressBookPrefix defines the base key prefix used for storing
// source→destination address mappings in Redis.
const addressBookPrefix = "addressbook"

// addressBookKey returns the Redis hash key under which address mappings are
// stored.
//
// Format: "addressbook:mappings"
func addressBookKey() string {
	return fmt.Sprintf("%s:mappings", addressBookPrefix)
}

// SaveMapping implements the addressbook.Storage interface using a Redis hash.
//
// The mapping is upserted with HSET, so the last write for a source address
// wins, matching the registry's contract.
func (c *client) SaveMapping(ctx context.Context, m addressbook.Mapping) error {
	return c.conn.HSet(ctx, addressBookKey(), m.SourceAddress, m.DestinationAddress).Err()
}

// LookupDestination implements the addressbook.Storage interface using HGET.
//
// A missing hash field maps onto addressbook.ErrMappingNotFound.
func (c *client) LookupDestination(ctx context.Context, sourceAddress string) (string, error) {
	destination, err := c.conn.HGet(ctx, addressBookKey(), sourceAddress).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", addressbook.ErrMappingNotFound
		}
		return "", err
	}

	return destination, nil
}

// Compile-time assertion to ensure *client satisfies the addressbook.Storage interface
var _ addressbook.Storage = new(client)
