package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"iter"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// Entity provides generic CRUD operations for any catalog type.
type Entity[T any] struct {
	store   *Store
	prefix  string
	indexes []Index[T]
}

// Index defines a unique secondary index on an entity. keyGen returns the
// index keys for an entity (empty slice means the entity is not indexed);
// lookupTransform optionally normalizes lookup values, enabling
// case-insensitive natural keys.
type Index[T any] struct {
	name            string
	keyGen          func(*T) []string
	lookupTransform func(string) string
}

// NewEntity creates a new Entity instance for type T.
func NewEntity[T any](s *Store, prefix string) *Entity[T] {
	return &Entity[T]{
		store:  s,
		prefix: prefix,
	}
}

// WithIndex adds a unique secondary index to the entity.
func (e *Entity[T]) WithIndex(name string, keyGen func(*T) []string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{name: name, keyGen: keyGen})
	return e
}

// WithIndexTransform adds a unique secondary index whose lookup values are
// normalized through lookupTransform before use.
func (e *Entity[T]) WithIndexTransform(name string, keyGen func(*T) []string, lookupTransform func(string) string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{
		name:            name,
		keyGen:          keyGen,
		lookupTransform: lookupTransform,
	})
	return e
}

func (e *Entity[T]) indexKey(indexName, value string) []byte {
	return []byte(e.prefix + "idx:" + indexName + ":" + value)
}

// Create creates a new entity with the given ID.
// Returns ErrAlreadyExists when the ID or any unique index key is taken.
func (e *Entity[T]) Create(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(e.prefix + id)

	data, err := json.Marshal(entity)
	if err != nil {
		return storageErr("marshal entity", err)
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == nil {
			return ErrAlreadyExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return storageErr("check existing key", err)
		}

		// Unique index conflicts abort the whole transaction.
		for _, idx := range e.indexes {
			for _, indexKey := range idx.keyGen(entity) {
				idxKey := e.indexKey(idx.name, indexKey)
				if _, err := txn.Get(idxKey); err == nil {
					return ErrAlreadyExists.WithDetails(map[string]string{idx.name: indexKey})
				} else if !errors.Is(err, badger.ErrKeyNotFound) {
					return storageErr("check index key", err)
				}
			}
		}

		if err := txn.Set(key, data); err != nil {
			return storageErr("set key", err)
		}

		for _, idx := range e.indexes {
			for _, indexKey := range idx.keyGen(entity) {
				if err := txn.Set(e.indexKey(idx.name, indexKey), []byte(id)); err != nil {
					return storageErr("set index key", err)
				}
			}
		}

		return nil
	})
}

// Get retrieves an entity by ID.
// Returns ErrNotFound if the entity does not exist.
func (e *Entity[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := []byte(e.prefix + id)
	var entity T

	err := e.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return storageErr("get key", err)
		}

		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &entity); err != nil {
				return storageErr("unmarshal entity", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return &entity, nil
}

// GetByIndex retrieves an entity by a unique secondary index value.
// The index's lookup transform, if any, is applied first.
func (e *Entity[T]) GetByIndex(ctx context.Context, indexName, value string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, idx := range e.indexes {
		if idx.name == indexName && idx.lookupTransform != nil {
			value = idx.lookupTransform(value)
			break
		}
	}

	var id string
	err := e.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(e.indexKey(indexName, value))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return storageErr("get index key", err)
		}

		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return e.Get(ctx, id)
}

// Update updates an existing entity, maintaining its index keys.
// Returns ErrNotFound if the entity does not exist.
func (e *Entity[T]) Update(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(e.prefix + id)

	data, err := json.Marshal(entity)
	if err != nil {
		return storageErr("marshal entity", err)
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		var oldEntity T
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return storageErr("get existing key", err)
		}

		err = item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &oldEntity); err != nil {
				return storageErr("unmarshal old entity", err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		// Drop stale index keys, then check new ones for conflicts with
		// other entities before writing.
		for _, idx := range e.indexes {
			oldKeys := make(map[string]bool)
			for _, indexKey := range idx.keyGen(&oldEntity) {
				oldKeys[indexKey] = true
				if err := txn.Delete(e.indexKey(idx.name, indexKey)); err != nil {
					return storageErr("delete old index key", err)
				}
			}

			for _, indexKey := range idx.keyGen(entity) {
				if oldKeys[indexKey] {
					continue
				}
				if _, err := txn.Get(e.indexKey(idx.name, indexKey)); err == nil {
					return ErrAlreadyExists.WithDetails(map[string]string{idx.name: indexKey})
				} else if !errors.Is(err, badger.ErrKeyNotFound) {
					return storageErr("check index key", err)
				}
			}
		}

		if err := txn.Set(key, data); err != nil {
			return storageErr("set key", err)
		}

		for _, idx := range e.indexes {
			for _, indexKey := range idx.keyGen(entity) {
				if err := txn.Set(e.indexKey(idx.name, indexKey), []byte(id)); err != nil {
					return storageErr("set index key", err)
				}
			}
		}

		return nil
	})
}

// Delete deletes an entity by ID, cleaning up its index keys.
// Idempotent: deleting an absent entity is not an error.
func (e *Entity[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(e.prefix + id)

	return e.store.db.Update(func(txn *badger.Txn) error {
		var entity T
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return storageErr("get key", err)
		}

		err = item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &entity); err != nil {
				return storageErr("unmarshal entity", err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, idx := range e.indexes {
			for _, indexKey := range idx.keyGen(&entity) {
				if err := txn.Delete(e.indexKey(idx.name, indexKey)); err != nil {
					return storageErr("delete index key", err)
				}
			}
		}

		if err := txn.Delete(key); err != nil {
			return storageErr("delete key", err)
		}

		return nil
	})
}

// List returns an iterator over all entities under this prefix.
func (e *Entity[T]) List(ctx context.Context) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		_ = e.store.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(e.prefix)
			opts.PrefetchValues = true

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek([]byte(e.prefix)); it.ValidForPrefix([]byte(e.prefix)); it.Next() {
				if ctx.Err() != nil {
					yield(nil, ctx.Err())
					return ctx.Err()
				}

				// Skip index keys.
				key := string(it.Item().Key())
				if strings.HasPrefix(key[len(e.prefix):], "idx:") {
					continue
				}

				var entity T
				err := it.Item().Value(func(val []byte) error {
					return json.Unmarshal(val, &entity)
				})
				if err != nil {
					yield(nil, storageErr("unmarshal entity", err))
					return err
				}

				if !yield(&entity, nil) {
					return nil // Consumer stopped early
				}
			}

			return nil
		})
	}
}

// All collects every entity under this prefix into a slice.
func (e *Entity[T]) All(ctx context.Context) ([]*T, error) {
	return e.Where(ctx, nil)
}

// Where collects the entities matching pred; a nil pred matches everything.
func (e *Entity[T]) Where(ctx context.Context, pred func(*T) bool) ([]*T, error) {
	var out []*T
	for entity, err := range e.List(ctx) {
		if err != nil {
			return nil, err
		}
		if pred == nil || pred(entity) {
			out = append(out, entity)
		}
	}
	return out, nil
}

// Count returns the number of entities under this prefix.
func (e *Entity[T]) Count(ctx context.Context) (int, error) {
	return e.CountWhere(ctx, nil)
}

// CountWhere returns the number of entities matching pred; a nil pred
// counts everything.
func (e *Entity[T]) CountWhere(ctx context.Context, pred func(*T) bool) (int, error) {
	count := 0
	for entity, err := range e.List(ctx) {
		if err != nil {
			return 0, err
		}
		if pred == nil || pred(entity) {
			count++
		}
	}
	return count, nil
}
