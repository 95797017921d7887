package guard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// User-Agent fragments treated as automated traffic. Well-known search
// engine and link-preview crawlers are allowed through.
var (
	botSignatures = []string{
		"bot", "crawl", "spider", "scrapy", "curl", "wget",
		"python-requests", "go-http-client", "headless", "phantomjs",
	}
	allowedCrawlers = []string{
		"googlebot", "bingbot", "duckduckbot", "yandexbot",
		"slackbot", "discordbot", "twitterbot", "facebookexternalhit",
	}
)

// Payload fragments that trip the shield check. This is a crude local
// stand-in for a managed attack-detection engine.
var shieldSignatures = []string{
	"union select", "<script", "javascript:", "../", "etc/passwd",
	"exec(", "drop table",
}

// RedisProtector is a Protector backed by a Redis sliding-window counter.
// Counters are keyed by rule name and client IP, so rules for different
// roles never share quota state.
type RedisProtector struct {
	client *redis.Client
	// now is swappable in tests.
	now func() time.Time
}

// NewRedisProtector creates a Protector using the given Redis client.
func NewRedisProtector(client *redis.Client) *RedisProtector {
	return &RedisProtector{client: client, now: time.Now}
}

// Protect evaluates bot, shield and rate-limit checks in that order.
func (p *RedisProtector) Protect(ctx context.Context, req RequestInfo, rule Rule) (Decision, error) {
	if isBot(req.UserAgent) {
		return Denied(ReasonBot), nil
	}
	if triggersShield(req) {
		return Denied(ReasonShield), nil
	}

	over, err := p.overLimit(ctx, req, rule)
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit check failed: %w", err)
	}
	if over {
		return Denied(ReasonRateLimit), nil
	}
	return Allowed(), nil
}

// overLimit records the request in a per-rule, per-client ZSET of
// timestamps, trims entries older than the window and compares the
// remaining count against the rule's quota.
func (p *RedisProtector) overLimit(ctx context.Context, req RequestInfo, rule Rule) (bool, error) {
	key := fmt.Sprintf("guard:%s:%s", rule.Name, req.IP)
	now := p.now()
	window := time.Duration(rule.WindowSeconds) * time.Second
	cutoff := now.Add(-window)

	pipe := p.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", cutoff.UnixNano()))
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: uuid.NewString(),
	})
	count := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return count.Val() > int64(rule.MaxRequests), nil
}

func isBot(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	if ua == "" {
		return true
	}
	for _, crawler := range allowedCrawlers {
		if strings.Contains(ua, crawler) {
			return false
		}
	}
	for _, sig := range botSignatures {
		if strings.Contains(ua, sig) {
			return true
		}
	}
	return false
}

func triggersShield(req RequestInfo) bool {
	payload := strings.ToLower(req.Path + "?" + req.Query)
	for _, sig := range shieldSignatures {
		if strings.Contains(payload, sig) {
			return true
		}
	}
	return false
}
