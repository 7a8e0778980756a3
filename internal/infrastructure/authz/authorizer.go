// Package authz answers "may this user perform this action" for the admin
// transitions of the payout workflow. Identity itself is established upstream.
package authz

import (
	"context"
	"strings"
	"time"

	"carwash_payouts/internal/usecase/interfaces"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// AdminRoleKey is the Redis set of users allowed every action.
const AdminRoleKey = "roles:admin"

// RoleKey is the Redis set of users allowed one action.
func RoleKey(action interfaces.Action) string {
	return "roles:" + string(action)
}

// StaticAuthorizer allows a fixed list of admin user ids.
type StaticAuthorizer struct {
	admins map[string]struct{}
}

var _ interfaces.IAuthorizer = (*StaticAuthorizer)(nil)

func NewStaticAuthorizer(adminIDs []string) *StaticAuthorizer {
	admins := make(map[string]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		if id = strings.TrimSpace(id); id != "" {
			admins[id] = struct{}{}
		}
	}
	return &StaticAuthorizer{admins: admins}
}

func (a *StaticAuthorizer) IsAuthorized(_ context.Context, userID string, _ interfaces.Action) (bool, error) {
	_, ok := a.admins[userID]
	return ok, nil
}

type setMembers interface {
	SIsMember(ctx context.Context, key string, member interface{}) *redis.BoolCmd
}

// RedisAuthorizer checks role sets kept in Redis by the identity side:
// roles:admin and roles:<action>. The static list is consulted first.
type RedisAuthorizer struct {
	client setMembers
	static *StaticAuthorizer
}

var _ interfaces.IAuthorizer = (*RedisAuthorizer)(nil)

func NewRedisAuthorizer(client setMembers, static *StaticAuthorizer) *RedisAuthorizer {
	return &RedisAuthorizer{client: client, static: static}
}

func (a *RedisAuthorizer) IsAuthorized(ctx context.Context, userID string, action interfaces.Action) (bool, error) {
	if ok, _ := a.static.IsAuthorized(ctx, userID, action); ok {
		return true, nil
	}
	for _, key := range []string{AdminRoleKey, RoleKey(action)} {
		ok, err := a.client.SIsMember(ctx, key, userID).Result()
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{"user_id": userID, "action": action}).
				Error("[authz][redis] role lookup failed")
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	logrus.WithFields(logrus.Fields{"user_id": userID, "action": action}).Info("[authz][redis] denied")
	return false, nil
}

// ConnectRedis returns a client, or nil when Redis does not answer a ping.
func ConnectRedis(addr, password string, db int) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.WithError(err).WithField("addr", addr).Warn("[authz][redis] connection failed, using static admin list only")
		_ = client.Close()
		return nil
	}
	logrus.WithField("addr", addr).Info("[authz][redis] connected")
	return client
}

// New picks the Redis authorizer when a client is available.
func New(client *redis.Client, adminIDs []string) interfaces.IAuthorizer {
	static := NewStaticAuthorizer(adminIDs)
	if client == nil {
		return static
	}
	return NewRedisAuthorizer(client, static)
}
