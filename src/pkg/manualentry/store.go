package manualentry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

// Store persists Entries between sessions.
type Store interface {
	Load(ctx context.Context) (Entries, *xerr.Error)
	Save(ctx context.Context, entries Entries) *xerr.Error
}

// NewStore builds the backend selected by cfg.
func NewStore(cfg Config) (store Store, e *xerr.Error) {
	defaults := cfg.DefaultsFromConfig()
	switch cfg.Backend {
	case BackendFile, "":
		return NewFileStore(cfg.FilePath, defaults), nil
	case BackendRedis:
		redisStore, e := NewRedisStore(cfg.RedisURL, cfg.RedisKey, defaults)
		if e != nil {
			return nil, e
		}
		return redisStore, nil
	default:
		return nil, xerr.NewError(fmt.Errorf("unknown backend '%s'", cfg.Backend), "create manual entry store", cfg)
	}
}

// FileStore keeps the groups in a JSON object file.
type FileStore struct {
	Path     string
	Defaults Entries
}

func NewFileStore(path string, defaults Entries) *FileStore {
	return &FileStore{Path: path, Defaults: defaults}
}

// Load returns the stored groups; a missing file yields the defaults.
func (s *FileStore) Load(ctx context.Context) (entries Entries, e *xerr.Error) {
	fileBytes, readErr := os.ReadFile(s.Path)
	if readErr != nil {
		if os.IsNotExist(readErr) {
			tl.Log(tl.Info1, palette.Purple, "No manual entries at '%s', using %s", s.Path, "defaults")
			return s.Defaults, nil
		}
		return entries, xerr.NewError(readErr, "read manual entries file", s.Path)
	}

	values := map[string]string{}
	err := json.Unmarshal(fileBytes, &values)
	if err != nil {
		return entries, xerr.NewError(err, "parse manual entries file", s.Path)
	}

	return fromMap(values, s.Defaults), nil
}

func (s *FileStore) Save(ctx context.Context, entries Entries) (e *xerr.Error) {
	dir := filepath.Dir(s.Path)
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return xerr.NewError(err, "create manual entries directory", dir)
	}

	jsonBytes, marshalErr := json.MarshalIndent(entries.toMap(), "", "  ")
	if marshalErr != nil {
		return xerr.NewError(marshalErr, "marshal manual entries", s.Path)
	}

	writeErr := os.WriteFile(s.Path, jsonBytes, 0o644)
	if writeErr != nil {
		return xerr.NewError(writeErr, "write manual entries file", s.Path)
	}

	tl.Log(tl.Info1, palette.Green, "Saved manual entries to '%s'", s.Path)
	return nil
}

// RedisStore keeps the groups as fields of one Redis hash.
type RedisStore struct {
	Client   *redis.Client
	Key      string
	Defaults Entries
}

func NewRedisStore(redisURL string, key string, defaults Entries) (store *RedisStore, e *xerr.Error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, xerr.NewError(err, "parse redis url", redisURL)
	}
	return &RedisStore{Client: redis.NewClient(options), Key: key, Defaults: defaults}, nil
}

func (s *RedisStore) Load(ctx context.Context) (entries Entries, e *xerr.Error) {
	values, err := s.Client.HGetAll(ctx, s.Key).Result()
	if err != nil {
		return entries, xerr.NewError(err, "read manual entries hash", s.Key)
	}
	if len(values) == 0 {
		tl.Log(tl.Info1, palette.Purple, "No manual entries in hash '%s', using %s", s.Key, "defaults")
	}
	return fromMap(values, s.Defaults), nil
}

func (s *RedisStore) Save(ctx context.Context, entries Entries) (e *xerr.Error) {
	fields := make([]any, 0, Count*2)
	for index, group := range entries {
		fields = append(fields, Key(index), group)
	}

	err := s.Client.HSet(ctx, s.Key, fields...).Err()
	if err != nil {
		return xerr.NewError(err, "write manual entries hash", s.Key)
	}

	tl.Log(tl.Info1, palette.Green, "Saved manual entries to redis hash '%s'", s.Key)
	return nil
}

func (s *RedisStore) Close() error {
	return s.Client.Close()
}
