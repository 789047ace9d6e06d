package storage

import (
	"context"
	"encoding/json"
	"errors"

	log "github.com/sirupsen/logrus"
)

// JSONStore is the persistence shim: values are JSON encoded on the way in and
// decoded on the way out, and every failure is swallowed. A false from Get means
// "no data yet", whatever the reason; a false from Set or Delete means the
// change was not persisted.
type JSONStore struct {
	store Store
	// OnFailure, when set, is called for every swallowed failure except a missing key.
	OnFailure func(op, key string, err error)
}

func NewJSONStore(store Store) *JSONStore {
	return &JSONStore{
		store: store,
	}
}

func (js *JSONStore) Get(ctx context.Context, key string, dst any) bool {
	raw, err := js.store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false
	}
	if err != nil {
		js.failed("get", key, err)
		return false
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		js.failed("decode", key, err)
		return false
	}
	return true
}

func (js *JSONStore) Set(ctx context.Context, key string, value any) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		js.failed("encode", key, err)
		return false
	}

	if err := js.store.Set(ctx, key, string(raw)); err != nil {
		js.failed("set", key, err)
		return false
	}
	return true
}

func (js *JSONStore) Delete(ctx context.Context, key string) bool {
	if err := js.store.Delete(ctx, key); err != nil {
		js.failed("delete", key, err)
		return false
	}
	return true
}

func (js *JSONStore) failed(op, key string, err error) {
	log.Errorf("json store, %s [%s]: %s", op, key, err)
	if js.OnFailure != nil {
		js.OnFailure(op, key, err)
	}
}
