package redis

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

var (
	Client *redis.Client
	Ctx    = context.Background()
)

func Init(addr string) {
	Client = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})

	// Test connection
	if _, err := Client.Ping(Ctx).Result(); err != nil {
		log.Printf("Warning: failed to connect to Redis at %s: %v (rate limiting disabled)", addr, err)
		Client = nil
		return
	}
	fmt.Println("✅ Connected to Redis")
}
