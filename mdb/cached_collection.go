package mdb

import (
	"fmt"
	"reflect"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// CachedCollection caches Mongo-stored objects so that the same object is always returned.
// This is most useful for objects that change rarely.
// The item type T must be a pointer type for decoding to work.
type CachedCollection[T Cacheable] struct {
	Collection
	cache       map[string]T
	expireAfter time.Duration
}

func NewCachedCollection[T Cacheable](collection *Collection, expireAfter time.Duration) *CachedCollection[T] {
	return &CachedCollection[T]{
		Collection:  *collection,
		cache:       make(map[string]T),
		expireAfter: expireAfter,
	}
}

// Cacheable must be searchable, storable and able to be recreated and expired.
type Cacheable interface {
	Searchable
	ExpireAfter(duration time.Duration)
	Expired() bool
	Realize() error
}

// Searchable may be used just for searching for a cached item.
// This supports keys that are not complete items.
type Searchable interface {
	CacheKey() string
	Filter() bson.D
}

// Create object in DB but not cache.
func (c *CachedCollection[T]) Create(item T) error {
	if _, err := c.InsertOne(c.ctx, item); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}

	return nil
}

// Delete object in cache and DB.
func (c *CachedCollection[T]) Delete(item Searchable, idempotent bool) error {
	delete(c.cache, item.CacheKey())

	result, err := c.DeleteOne(c.ctx, item.Filter())
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if result.DeletedCount > 1 || (result.DeletedCount == 0 && !idempotent) {
		// Should have deleted a single item or none if idempotent flag set.
		return fmt.Errorf("deleted %d items", result.DeletedCount)
	}

	return nil
}

// Find a cacheable object in either cache or database.
// Expired cache entries are dropped and re-read from the database.
func (c *CachedCollection[T]) Find(searchFor Searchable) (T, error) {
	var nothing T

	cacheKey := searchFor.CacheKey()
	item, found := c.cache[cacheKey]
	if found && item.Expired() {
		delete(c.cache, cacheKey)
		found = false
	}

	if !found {
		item = c.instantiate()
		err := c.FindOne(c.ctx, searchFor.Filter()).Decode(item)
		if err != nil {
			if IsNotFound(err) {
				return nothing, fmt.Errorf("no item '%s': %w", cacheKey, err)
			}
			return nothing, fmt.Errorf("find item '%s': %w", cacheKey, err)
		}

		if err = item.Realize(); err != nil {
			return nothing, fmt.Errorf("realize item: %w", err)
		}
		item.ExpireAfter(c.expireAfter)
		c.cache[cacheKey] = item
	}

	return item, nil
}

// FindOrCreate returns an existing cacheable object or creates it if it does not already exist.
func (c *CachedCollection[T]) FindOrCreate(cacheItem T) (T, error) {
	item, err := c.Find(cacheItem)
	if err != nil {
		if !IsNotFound(err) {
			return item, err
		}

		err = c.Create(cacheItem)
		if err != nil {
			return item, err
		}

		item, err = c.Find(cacheItem)
		if err != nil {
			return item, fmt.Errorf("find just created item: %w", err)
		}
	}

	return item, nil
}

// InvalidateByPrefix drops all cache entries whose key starts with the prefix.
// Use an empty prefix to empty the cache entirely.
func (c *CachedCollection[T]) InvalidateByPrefix(prefix string) {
	for key := range c.cache {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(c.cache, key)
		}
	}
}

func (c *CachedCollection[T]) instantiate() T {
	itemType := reflect.TypeOf((*T)(nil)).Elem()
	if itemType.Kind() == reflect.Ptr {
		itemType = itemType.Elem()
	}
	return reflect.New(itemType).Interface().(T)
}
