package guard

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const browserUA = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"

func setupProtector(t *testing.T) (*RedisProtector, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisProtector(client), mr
}

func browserRequest(ip string) RequestInfo {
	return RequestInfo{IP: ip, UserAgent: browserUA, Path: "/api/auth/sign-in"}
}

func TestProtect_AllowsWithinQuota(t *testing.T) {
	p, _ := setupProtector(t)
	rule := Rule{Name: "guest-rate-limit", WindowSeconds: 60, MaxRequests: 5}

	for i := 0; i < 5; i++ {
		decision, err := p.Protect(context.Background(), browserRequest("10.0.0.1"), rule)
		require.NoError(t, err)
		assert.False(t, decision.IsDenied(), "request %d should be allowed", i+1)
	}
}

func TestProtect_DeniesBeyondQuota(t *testing.T) {
	p, _ := setupProtector(t)
	rule := Rule{Name: "guest-rate-limit", WindowSeconds: 60, MaxRequests: 5}

	for i := 0; i < 5; i++ {
		_, err := p.Protect(context.Background(), browserRequest("10.0.0.1"), rule)
		require.NoError(t, err)
	}

	decision, err := p.Protect(context.Background(), browserRequest("10.0.0.1"), rule)
	require.NoError(t, err)
	assert.True(t, decision.IsDenied())
	assert.True(t, decision.Reason.IsRateLimit())
	assert.False(t, decision.Reason.IsBot())
}

func TestProtect_AdminQuotaAbsorbsGuestOverflow(t *testing.T) {
	p, _ := setupProtector(t)
	rule := Rule{Name: "admin-rate-limit", WindowSeconds: 60, MaxRequests: 20}

	// Six requests in the window trip the guest quota but not admin's.
	for i := 0; i < 6; i++ {
		decision, err := p.Protect(context.Background(), browserRequest("10.0.0.1"), rule)
		require.NoError(t, err)
		assert.False(t, decision.IsDenied(), "request %d should be allowed", i+1)
	}
}

func TestProtect_RulesDoNotShareCounters(t *testing.T) {
	p, _ := setupProtector(t)
	guestRule := Rule{Name: "guest-rate-limit", WindowSeconds: 60, MaxRequests: 5}
	userRule := Rule{Name: "user-rate-limit", WindowSeconds: 60, MaxRequests: 10}

	for i := 0; i < 5; i++ {
		_, err := p.Protect(context.Background(), browserRequest("10.0.0.1"), guestRule)
		require.NoError(t, err)
	}

	// The same caller under a different rule starts from a fresh counter.
	decision, err := p.Protect(context.Background(), browserRequest("10.0.0.1"), userRule)
	require.NoError(t, err)
	assert.False(t, decision.IsDenied())
}

func TestProtect_CallersDoNotShareCounters(t *testing.T) {
	p, _ := setupProtector(t)
	rule := Rule{Name: "guest-rate-limit", WindowSeconds: 60, MaxRequests: 5}

	for i := 0; i < 6; i++ {
		_, err := p.Protect(context.Background(), browserRequest("10.0.0.1"), rule)
		require.NoError(t, err)
	}

	decision, err := p.Protect(context.Background(), browserRequest("10.0.0.2"), rule)
	require.NoError(t, err)
	assert.False(t, decision.IsDenied())
}

func TestProtect_WindowSlides(t *testing.T) {
	p, _ := setupProtector(t)
	rule := Rule{Name: "guest-rate-limit", WindowSeconds: 60, MaxRequests: 5}

	base := time.Now()
	p.now = func() time.Time { return base }

	for i := 0; i < 6; i++ {
		_, err := p.Protect(context.Background(), browserRequest("10.0.0.1"), rule)
		require.NoError(t, err)
	}

	// Once the window has fully elapsed the old entries are trimmed and
	// the caller's quota is fresh again.
	p.now = func() time.Time { return base.Add(61 * time.Second) }

	decision, err := p.Protect(context.Background(), browserRequest("10.0.0.1"), rule)
	require.NoError(t, err)
	assert.False(t, decision.IsDenied())
}

func TestProtect_DeniesBots(t *testing.T) {
	p, _ := setupProtector(t)
	rule := Rule{Name: "guest-rate-limit", WindowSeconds: 60, MaxRequests: 5}

	tests := []struct {
		name      string
		userAgent string
	}{
		{"curl", "curl/8.4.0"},
		{"python requests", "python-requests/2.31"},
		{"generic crawler", "MegaCrawler/1.0 (+http://example.com)"},
		{"empty user agent", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, err := p.Protect(context.Background(), RequestInfo{
				IP:        "10.0.0.1",
				UserAgent: tt.userAgent,
				Path:      "/api/auth/sign-in",
			}, rule)
			require.NoError(t, err)
			assert.True(t, decision.IsDenied())
			assert.True(t, decision.Reason.IsBot())
		})
	}
}

func TestProtect_AllowsKnownCrawlers(t *testing.T) {
	p, _ := setupProtector(t)
	rule := Rule{Name: "guest-rate-limit", WindowSeconds: 60, MaxRequests: 5}

	decision, err := p.Protect(context.Background(), RequestInfo{
		IP:        "10.0.0.1",
		UserAgent: "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
		Path:      "/api/auth/sign-in",
	}, rule)

	require.NoError(t, err)
	assert.False(t, decision.IsDenied())
}

func TestProtect_ShieldBlocksInjectionPayloads(t *testing.T) {
	p, _ := setupProtector(t)
	rule := Rule{Name: "guest-rate-limit", WindowSeconds: 60, MaxRequests: 5}

	decision, err := p.Protect(context.Background(), RequestInfo{
		IP:        "10.0.0.1",
		UserAgent: browserUA,
		Path:      "/api/auth/sign-in",
		Query:     "q=1 union select password from users",
	}, rule)
	require.NoError(t, err)
	assert.True(t, decision.IsDenied())
	assert.True(t, decision.Reason.IsShield())
}

func TestProtect_RedisFailure(t *testing.T) {
	p, mr := setupProtector(t)
	rule := Rule{Name: "guest-rate-limit", WindowSeconds: 60, MaxRequests: 5}

	mr.Close()

	_, err := p.Protect(context.Background(), browserRequest("10.0.0.1"), rule)
	assert.Error(t, err)
}

func TestProtect_KeyLayout(t *testing.T) {
	p, mr := setupProtector(t)
	rule := Rule{Name: "user-rate-limit", WindowSeconds: 60, MaxRequests: 10}

	_, err := p.Protect(context.Background(), browserRequest("192.168.1.9"), rule)
	require.NoError(t, err)

	key := fmt.Sprintf("guard:%s:%s", rule.Name, "192.168.1.9")
	assert.True(t, mr.Exists(key), "expected counter key %s", key)
}
