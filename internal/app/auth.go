// internal/app/auth.go
package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/classmood/backend/internal/models"
)

const (
	timeFormat    = "2006-01-02 15:04:05"
	sessionKeyTpl = "session:%s" // session:${token}
	tokenPrefix   = "sk-clsmd-"
)

// Auth keeps teacher login sessions as opaque tokens in redis. With
// enable_auth off every request passes, which is the single-machine
// dev setup.
type Auth struct {
	enabled     bool
	redis       *redis.Client
	tokenHeader string
	ttl         time.Duration
}

func NewAuth(config *Config) (*Auth, error) {
	if !config.Server.EnableAuth {
		return &Auth{enabled: false}, nil
	}

	opt, err := redis.ParseURL(config.Auth.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Auth{
		enabled:     true,
		redis:       client,
		tokenHeader: config.Auth.TokenHeader,
		ttl:         time.Duration(config.Auth.SessionTTLHours) * time.Hour,
	}, nil
}

func (a *Auth) Enabled() bool {
	return a.enabled
}

func (a *Auth) TokenHeader() string {
	return a.tokenHeader
}

func (a *Auth) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}

func generateToken() (string, error) {
	randomBytes := make([]byte, 12)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return tokenPrefix + hex.EncodeToString(randomBytes), nil
}

// CreateSession mints a token for a freshly logged-in user.
func (a *Auth) CreateSession(ctx context.Context, userID string) (string, error) {
	if !a.enabled {
		return "", nil
	}

	token, err := generateToken()
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	key := fmt.Sprintf(sessionKeyTpl, token)

	pipe := a.redis.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"user_id":               userID,
		"request_count":         0,
		"last_request_dttm_utc": now.Format(timeFormat),
		"created_dttm_utc":      now.Format(timeFormat),
	})
	pipe.Expire(ctx, key, a.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return token, nil
}

// ValidateSession resolves a token to its user id and bumps usage stats.
func (a *Auth) ValidateSession(ctx context.Context, token string) (string, error) {
	if !a.enabled {
		return "", nil
	}
	if token == "" {
		return "", fmt.Errorf("missing session token")
	}

	key := fmt.Sprintf(sessionKeyTpl, token)

	userID, err := a.redis.HGet(ctx, key, "user_id").Result()
	if err == redis.Nil {
		logger.Debug.Printf("Session not found for key: %s", key)
		return "", fmt.Errorf("session not found")
	}
	if err != nil {
		logger.Debug.Printf("Redis error: %v", err)
		return "", fmt.Errorf("redis error: %w", err)
	}

	pipe := a.redis.Pipeline()
	pipe.HIncrBy(ctx, key, "request_count", 1)
	pipe.HSet(ctx, key, "last_request_dttm_utc", time.Now().UTC().Format(timeFormat))
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Debug.Printf("Failed to update session stats: %v", err)
	}

	return userID, nil
}

// SessionInfo reads the bookkeeping fields kept alongside a token.
func (a *Auth) SessionInfo(ctx context.Context, token string) (*models.SessionInfo, error) {
	if !a.enabled {
		return nil, fmt.Errorf("auth disabled")
	}

	key := fmt.Sprintf(sessionKeyTpl, token)
	values, err := a.redis.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get session info: %w", err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("session not found")
	}

	lastReqTime, _ := time.Parse(timeFormat, values["last_request_dttm_utc"])
	createdTime, _ := time.Parse(timeFormat, values["created_dttm_utc"])
	reqCount, _ := strconv.Atoi(values["request_count"])

	return &models.SessionInfo{
		Token:           token,
		UserID:          values["user_id"],
		RequestCount:    reqCount,
		LastRequestTime: lastReqTime,
		CreatedTime:     createdTime,
	}, nil
}

// DestroySession logs a token out.
func (a *Auth) DestroySession(ctx context.Context, token string) error {
	if !a.enabled {
		return nil
	}
	return a.redis.Del(ctx, fmt.Sprintf(sessionKeyTpl, token)).Err()
}
