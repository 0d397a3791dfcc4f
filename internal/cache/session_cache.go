package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KennethOlivas/type-form-builder-sub000/internal/model"
)

// SessionCache handles Redis operations for respondent flow sessions.
// Sessions are transient navigation state: the durable trace of a respondent
// is the visit record and, on completion, the submission.
type SessionCache interface {
	Set(ctx context.Context, session *model.FlowSession) error
	Get(ctx context.Context, sessionID string) (*model.FlowSession, error)
	Delete(ctx context.Context, sessionID string) error
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a new session cache
func NewSessionCache(client *redis.Client) SessionCache {
	return &sessionCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *sessionCache) sessionKey(sessionID string) string {
	return fmt.Sprintf("respondent:%s:session", sessionID)
}

func (c *sessionCache) Set(ctx context.Context, session *model.FlowSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.sessionKey(session.ID), data, c.ttl).Err()
}

func (c *sessionCache) Get(ctx context.Context, sessionID string) (*model.FlowSession, error) {
	data, err := c.client.Get(ctx, c.sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session model.FlowSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *sessionCache) Delete(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, c.sessionKey(sessionID)).Err()
}
