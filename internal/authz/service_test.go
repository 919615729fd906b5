package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestEnforceRoleWithPolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("editor", "/admin/paints/:id", "GET"); err != nil {
		t.Fatalf("grant role policy failed: %v", err)
	}

	allow, err := svc.EnforceRole("editor", "/api/admin/paints/42", "get")
	if err != nil {
		t.Fatalf("enforce allow failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected allow=true")
	}

	allow, err = svc.EnforceRole("editor", "/api/admin/paints/42", "DELETE")
	if err != nil {
		t.Fatalf("enforce deny failed: %v", err)
	}
	if allow {
		t.Fatalf("expected allow=false")
	}

	if err := svc.RevokeRolePolicy("editor", "/admin/paints/:id", "GET"); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	allow, _ = svc.EnforceRole("editor", "/api/admin/paints/42", "GET")
	if allow {
		t.Fatalf("expected revoked policy to deny")
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/api/admin/paints/:id", want: "/admin/paints/:id"},
		{in: "/admin/paints/:id", want: "/admin/paints/:id"},
		{in: "admin/contacts", want: "/admin/contacts"},
		{in: "/api", want: "/"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		got := NormalizeObject(item.in)
		if got != item.want {
			t.Fatalf("normalize object failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}

func TestNormalizeRole(t *testing.T) {
	for _, in := range []string{"super-admin", " Super-Admin ", "role:super-admin"} {
		got, err := NormalizeRole(in)
		if err != nil || got != "role:super-admin" {
			t.Fatalf("normalize role %q: got=%q err=%v", in, got, err)
		}
	}
	if _, err := NormalizeRole("  "); err == nil {
		t.Fatalf("expected empty role error")
	}
}

func TestBootstrapBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	// 重复执行不应报错
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("second bootstrap failed: %v", err)
	}

	cases := []struct {
		role  string
		path  string
		act   string
		allow bool
	}{
		{"admin", "/api/admin/paints", "POST", true},
		{"admin", "/api/admin/paints/7", "PUT", true},
		{"admin", "/api/admin/paints/7/stock", "POST", true},
		{"admin", "/api/admin/contacts/3/respond", "PUT", true},
		{"admin", "/api/admin/newsletter/stats", "GET", true},
		{"admin", "/api/admin/admins", "POST", false},
		{"super-admin", "/api/admin/admins", "POST", true},
		{"super-admin", "/api/admin/paints/7", "DELETE", true},
		{"guest", "/api/admin/paints", "POST", false},
	}
	for _, tc := range cases {
		got, err := svc.EnforceRole(tc.role, tc.path, tc.act)
		if err != nil {
			t.Fatalf("enforce %s %s %s: %v", tc.role, tc.act, tc.path, err)
		}
		if got != tc.allow {
			t.Fatalf("enforce %s %s %s: want %v got %v", tc.role, tc.act, tc.path, tc.allow, got)
		}
	}

	policies, err := svc.RolePolicies("super-admin")
	if err != nil {
		t.Fatalf("role policies failed: %v", err)
	}
	if len(policies) != 1 || policies[0].Object != "/admin/admins" {
		t.Fatalf("unexpected super-admin direct policies: %+v", policies)
	}
}
