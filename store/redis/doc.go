// Package redis is a Redis store driver built on go-redis.
//
// A collection uses three keys sharing the hash tag {collection}:
//
//	crud:{products}:docs   hash, identity -> JSON document
//	crud:{products}:order  sorted set, identity scored by insertion sequence
//	crud:{products}:seq    insertion sequence counter
//
// Commit uses optimistic locking (WATCH on the document hash, then
// MULTI/EXEC) so a session's changes apply atomically.
//
//	client, err := redis.Connect(ctx, redis.DefaultConfig(os.Getenv("REDIS_URL")))
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	products, err := redis.New[*Product](client, "products", store.WithIDGenerator(store.Sequence(1)))
package redis
