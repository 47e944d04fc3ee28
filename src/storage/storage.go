package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a key has never been written.
var ErrNotFound = errors.New("storage: key not found")

// Storage is a keyed blob store. Values are always written whole, never as
// incremental diffs, so readers observe either the previous or the next
// complete value.
type Storage interface {
	Name() string
	Read(key string) ([]byte, error)
	Write(key string, value []byte) error
	Delete(key string) error
}

type FileStorage struct {
	dir string
}

func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStorage{dir: dir}, nil
}

func (f *FileStorage) Name() string {
	return "File"
}

func (f *FileStorage) keyPath(key string) string {
	return path.Join(f.dir, fmt.Sprintf("%s.json", key))
}

func (f *FileStorage) Read(key string) ([]byte, error) {
	b, err := os.ReadFile(f.keyPath(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (f *FileStorage) Write(key string, value []byte) error {
	target := f.keyPath(key)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}

func (f *FileStorage) Delete(key string) error {
	err := os.Remove(f.keyPath(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

type RedisStorage struct {
	inner  *redis.Client
	prefix string
}

func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{inner: client, prefix: "portal:storage:"}
}

func (r *RedisStorage) Name() string {
	return "Redis"
}

func (r *RedisStorage) Read(key string) ([]byte, error) {
	val, err := r.inner.Get(context.Background(), r.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (r *RedisStorage) Write(key string, value []byte) error {
	return r.inner.Set(context.Background(), r.prefix+key, value, 0).Err()
}

func (r *RedisStorage) Delete(key string) error {
	return r.inner.Del(context.Background(), r.prefix+key).Err()
}
