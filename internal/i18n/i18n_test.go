package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNormalizeLocale(t *testing.T) {
	cases := map[string]string{
		"":                        LocaleEN,
		"en":                      LocaleEN,
		"en-KE":                   LocaleEN,
		"zh":                      LocaleZH,
		"zh-CN,zh;q=0.9,en;q=0.8": LocaleZH,
		"sw-KE":                   LocaleEN,
		"!!":                      LocaleEN,
	}
	for raw, want := range cases {
		if got := NormalizeLocale(raw); got != want {
			t.Fatalf("NormalizeLocale(%q) want %s got %s", raw, want, got)
		}
	}
}

func TestResolveLocalePrefersQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/paints?lang=zh-CN", nil)
	c.Request.Header.Set("Accept-Language", "en-US")
	if got := ResolveLocale(c); got != LocaleZH {
		t.Fatalf("query lang should win, got %s", got)
	}
}

func TestTranslateFallbacks(t *testing.T) {
	if got := T(LocaleZH, "error.paint_not_found"); got != "商品不存在" {
		t.Fatalf("unexpected zh message %s", got)
	}
	if got := T(LocaleZH, "email.contact_reply.subject"); got != "Re: %s" {
		t.Fatalf("missing zh keys should fall back to english, got %s", got)
	}
	if got := T(LocaleEN, "no.such.key"); got != "no.such.key" {
		t.Fatalf("unknown key should echo, got %s", got)
	}
	if got := Sprintf(LocaleEN, "error.password_min_length", 10); got != "Password must be at least 10 characters" {
		t.Fatalf("unexpected formatted message %s", got)
	}
}
