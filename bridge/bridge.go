// Package bridge forwards received commands to a Redis server, where other
// home automation processes pick them up.
//
// Every command is published on a channel and stored under a key holding the
// last command seen.
package bridge // import "github.com/sparques/irknob/bridge"

import (
	"fmt"
	"time"

	"github.com/go-redis/redis"

	"github.com/sparques/irknob"
)

const (
	DefaultChannel = "irknob"
	DefaultKey     = "irknob:last"
)

// Client is the part of *redis.Client used by Redis.
type Client interface {
	Publish(channel string, message interface{}) *redis.IntCmd
	Set(key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type Redis struct {
	db      Client
	Channel string
	Key     string
}

// Dial returns a Redis publishing through a new client connected to addr.
func Dial(addr string) (*Redis, *redis.Client) {
	db := redis.NewClient(&redis.Options{Addr: addr})
	return New(db), db
}

func New(db Client) *Redis {
	return &Redis{
		db:      db,
		Channel: DefaultChannel,
		Key:     DefaultKey,
	}
}

// Publish stores cmd as the last command and announces it on the channel.
func (r *Redis) Publish(cmd irknob.Command) error {
	v := cmd.String()
	err := r.db.Set(r.Key, v, 0).Err()
	if err != nil {
		return fmt.Errorf("bridge: could not store %v: %w", cmd, err)
	}
	err = r.db.Publish(r.Channel, v).Err()
	if err != nil {
		return fmt.Errorf("bridge: could not publish %v: %w", cmd, err)
	}
	return nil
}
