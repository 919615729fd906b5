package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestKeyByIPAndJSONField(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(`{"email":" Test@Example.com "}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = "1.2.3.4:5678"

	key := KeyByIPAndJSONField("email")(c)
	if key != "test@example.com|1.2.3.4" {
		t.Fatalf("key want test@example.com|1.2.3.4 got %s", key)
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		t.Fatalf("read body after key extraction failed: %v", err)
	}
	if !strings.Contains(string(body), "Test@Example.com") {
		t.Fatalf("request body should be restored after reading field")
	}
}

func TestRateLimitMiddlewareWithoutClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{WindowSeconds: 60, MaxRequests: 2}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if !strings.Contains(w.Body.String(), `"ok":true`) {
			t.Fatalf("request %d should pass, got %s", i+1, w.Body.String())
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status_code":429`) {
		t.Fatalf("third request should be limited, got %s", w.Body.String())
	}
}

func TestRateLimitMiddlewareDisabledRule(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	for i := 0; i < 20; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if !strings.Contains(w.Body.String(), `"ok":true`) {
			t.Fatalf("disabled rule must not limit, got %s", w.Body.String())
		}
	}
}

func TestLocalLimiterBlocksAfterExceed(t *testing.T) {
	limiter := newLocalLimiter(RateLimitRule{WindowSeconds: 60, MaxRequests: 1, BlockSeconds: 120})
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	if ok, _ := limiter.allow("k", now); !ok {
		t.Fatalf("first request should pass")
	}
	ok, wait := limiter.allow("k", now.Add(time.Second))
	if ok || wait != 120 {
		t.Fatalf("second request should be blocked for 120s, got ok=%v wait=%d", ok, wait)
	}
	// 封禁期内即使令牌已恢复也拒绝
	if ok, _ := limiter.allow("k", now.Add(90*time.Second)); ok {
		t.Fatalf("blocked key should stay blocked")
	}
	if ok, _ := limiter.allow("k", now.Add(200*time.Second)); !ok {
		t.Fatalf("key should pass after block expires")
	}
	if ok, _ := limiter.allow("other", now.Add(time.Second)); !ok {
		t.Fatalf("keys must be independent")
	}
}

func TestKeyByIPAndParam(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var got string
	r := gin.New()
	r.POST("/paints/:id/rating", func(c *gin.Context) {
		got = KeyByIPAndParam("id")(c)
	})
	req := httptest.NewRequest(http.MethodPost, "/paints/42/rating", nil)
	req.RemoteAddr = "5.6.7.8:1234"
	r.ServeHTTP(httptest.NewRecorder(), req)
	if !strings.Contains(got, "42") || !strings.Contains(got, "5.6.7.8") {
		t.Fatalf("key should carry param and ip, got %s", got)
	}
}

func TestToInt64(t *testing.T) {
	cases := []struct {
		name  string
		input interface{}
		want  int64
		ok    bool
	}{
		{name: "int64", input: int64(10), want: 10, ok: true},
		{name: "int", input: int(11), want: 11, ok: true},
		{name: "float64", input: float64(13.9), want: 13, ok: true},
		{name: "string", input: "bad", want: 0, ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := toInt64(tc.input)
			if ok != tc.ok {
				t.Fatalf("ok want %v got %v", tc.ok, ok)
			}
			if got != tc.want {
				t.Fatalf("value want %d got %d", tc.want, got)
			}
		})
	}
}
