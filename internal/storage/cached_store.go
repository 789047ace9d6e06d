package storage

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	megabyte = 1024 * 1024
	// freecache entry header plus room for the chunk key suffix
	chunkOverhead = 24 + 48
)

var _ Store = (*CachedStore)(nil)

// CachedStore is a read-through, write-through cache in front of another Store.
// freecache refuses entries over 1/1024 of its size, so values are split into
// chunks: the key itself holds a header "<gen>:<chunks>" and every chunk lives
// under "<key>\x00<gen>:<i>". A missing chunk (evicted or expired) is a miss.
type CachedStore struct {
	cache         *freecache.Cache
	store         Store
	expireSeconds int
	maxEntry      int
	gen           atomic.Uint64
}

func NewCachedStore(store Store, cacheSizeMB, expireSeconds int) *CachedStore {
	if cacheSizeMB <= 0 {
		cacheSizeMB = 1
	}
	size := cacheSizeMB * megabyte
	return &CachedStore{
		cache:         freecache.NewCache(size),
		store:         store,
		expireSeconds: expireSeconds,
		maxEntry:      size / 1024,
	}
}

func (cs *CachedStore) Get(ctx context.Context, key string) (string, error) {
	if cached, ok := cs.lookup(key); ok {
		return cached, nil
	}

	val, err := cs.store.Get(ctx, key)
	if err != nil {
		return "", err
	}
	cs.remember(key, val)
	return val, nil
}

func (cs *CachedStore) Set(ctx context.Context, key, value string) error {
	if err := cs.store.Set(ctx, key, value); err != nil {
		cs.forget(key)
		return err
	}
	cs.remember(key, value)
	return nil
}

func (cs *CachedStore) Delete(ctx context.Context, key string) error {
	cs.forget(key)
	return cs.store.Delete(ctx, key)
}

// HitRate reports the cache hit rate since creation, chunk reads included.
func (cs *CachedStore) HitRate() float64 {
	return cs.cache.HitRate()
}

func (cs *CachedStore) chunkSize(key string) int {
	return cs.maxEntry - chunkOverhead - len(key)
}

func chunkKey(key string, gen uint64, i int) []byte {
	return []byte(fmt.Sprintf("%s\x00%d:%d", key, gen, i))
}

func (cs *CachedStore) header(key string) (gen uint64, chunks int, ok bool) {
	raw, err := cs.cache.Get([]byte(key))
	if err != nil {
		return 0, 0, false
	}
	if _, err := fmt.Sscanf(string(raw), "%d:%d", &gen, &chunks); err != nil {
		return 0, 0, false
	}
	return gen, chunks, true
}

func (cs *CachedStore) lookup(key string) (string, bool) {
	gen, chunks, ok := cs.header(key)
	if !ok {
		return "", false
	}

	var sb strings.Builder
	for i := 0; i < chunks; i++ {
		part, err := cs.cache.Get(chunkKey(key, gen, i))
		if err != nil {
			log.Debugf("cached store: chunk %d of [%s] gone, reading through", i, key)
			return "", false
		}
		sb.Write(part)
	}
	return sb.String(), true
}

func (cs *CachedStore) remember(key, value string) {
	size := cs.chunkSize(key)
	if size <= 0 {
		log.Debugf("cached store: key [%s] too long to cache", key)
		cs.forget(key)
		return
	}

	oldGen, oldChunks, hadOld := cs.header(key)
	gen := cs.gen.Add(1)

	chunks := 0
	for start := 0; start < len(value) || chunks == 0; start += size {
		end := min(start+size, len(value))
		if err := cs.cache.Set(chunkKey(key, gen, chunks), []byte(value[start:end]), cs.expireSeconds); err != nil {
			log.Warnf("cached store: cache chunk %d of [%s]: %s", chunks, key, err)
			cs.dropChunks(key, gen, chunks+1)
			cs.forget(key)
			return
		}
		chunks++
	}

	hdr := []byte(fmt.Sprintf("%d:%d", gen, chunks))
	if err := cs.cache.Set([]byte(key), hdr, cs.expireSeconds); err != nil {
		log.Warnf("cached store: cache [%s]: %s", key, err)
		cs.dropChunks(key, gen, chunks)
		return
	}
	if hadOld {
		cs.dropChunks(key, oldGen, oldChunks)
	}
}

func (cs *CachedStore) forget(key string) {
	if gen, chunks, ok := cs.header(key); ok {
		cs.dropChunks(key, gen, chunks)
	}
	cs.cache.Del([]byte(key))
}

func (cs *CachedStore) dropChunks(key string, gen uint64, chunks int) {
	for i := 0; i < chunks; i++ {
		cs.cache.Del(chunkKey(key, gen, i))
	}
}
