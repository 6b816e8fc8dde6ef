package messenger

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/shift-chatbot/backend/internal/config"
)

// CachedNames 把 sender ID 解析成称呼用的名字。
// 名字几乎不会变化，查到之后放进 redis 缓存一段时间，
// 避免每条消息都去请求 Graph API
type CachedNames struct {
	cfg         *config.Config
	client      *Client
	redisClient *redis.Client
}

func NewCachedNames(cfg *config.Config, client *Client, rdb *redis.Client) *CachedNames {
	return &CachedNames{
		cfg:         cfg,
		client:      client,
		redisClient: rdb,
	}
}

// UserName 返回用户的名字，任何一步失败都退回通用称呼，不影响消息处理
func (n *CachedNames) UserName(ctx context.Context, senderID string) string {
	key := "messenger:first_name:" + senderID

	if name, err := n.redisClient.Get(ctx, key).Result(); err == nil && name != "" {
		return name
	}

	name, err := n.client.FetchFirstName(ctx, senderID)
	if err != nil {
		slog.Error("获取用户资料失败", "senderID", senderID, "error", err)
		return fallbackName
	}

	if err := n.redisClient.Set(ctx, key, name, time.Duration(n.cfg.Redis.NameCacheTTL)*time.Second).Err(); err != nil {
		slog.Error("缓存用户名字失败", "senderID", senderID, "error", err)
	}

	return name
}
