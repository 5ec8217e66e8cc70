package flagsource

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/nido/internal/migrate"
)

// RedisSource lee la config de flags como un blob JSON bajo una key.
// Quien opera la migración escribe la key; acá solo se lee.
type RedisSource struct {
	client *redis.Client
	key    string
}

// RedisConfig conexión del source redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Key donde vive el documento JSON. Default "nido:migration:flags".
	Key string
}

// NewRedis crea el source. No hace ping: un redis caído en el arranque
// no debe tirar el proceso, el manager cae al default seguro.
func NewRedis(cfg RedisConfig) *RedisSource {
	if cfg.Key == "" {
		cfg.Key = "nido:migration:flags"
	}
	return &RedisSource{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		key: cfg.Key,
	}
}

func (s *RedisSource) Fetch(ctx context.Context) (migrate.FlagConfig, error) {
	raw, err := s.client.Get(ctx, s.key).Result()
	if err == redis.Nil {
		return migrate.FlagConfig{}, fmt.Errorf("flagsource: key %s no existe", s.key)
	}
	if err != nil {
		return migrate.FlagConfig{}, fmt.Errorf("flagsource: redis get: %w", err)
	}
	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return migrate.FlagConfig{}, fmt.Errorf("flagsource: JSON inválido en %s: %w", s.key, err)
	}
	return doc.ToConfig()
}

// Close cierra la conexión redis.
func (s *RedisSource) Close() error {
	return s.client.Close()
}
