package authz

import (
	"fmt"

	"github.com/ruda-paints/internal/constants"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 系统预置角色矩阵
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.AdminRoleAdmin,
			Policies: []Policy{
				{Object: "/admin/me", Action: "GET"},
				{Object: "/admin/password", Action: "PUT"},
				{Object: "/admin/paints", Action: "POST"},
				{Object: "/admin/paints/:id", Action: "*"},
				{Object: "/admin/paints/bulk-delete", Action: "POST"},
				{Object: "/admin/paints/:id/stock", Action: "POST"},
				{Object: "/admin/paints/stats/summary", Action: "GET"},
				{Object: "/admin/contacts", Action: "GET"},
				{Object: "/admin/contacts/stats", Action: "GET"},
				{Object: "/admin/contacts/:id", Action: "*"},
				{Object: "/admin/contacts/:id/status", Action: "PUT"},
				{Object: "/admin/contacts/:id/respond", Action: "PUT"},
				{Object: "/admin/newsletter/subscribers", Action: "GET"},
				{Object: "/admin/newsletter/stats", Action: "GET"},
			},
		},
		{
			Role:     constants.AdminRoleSuperAdmin,
			Inherits: []string{constants.AdminRoleAdmin},
			Policies: []Policy{
				{Object: "/admin/admins", Action: "POST"},
			},
		},
	}
}

// BootstrapBuiltinRoles 写入预置角色与默认策略，重复执行无副作用
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	for _, seed := range BuiltinRoleSeeds() {
		for _, parent := range seed.Inherits {
			if err := s.InheritRole(seed.Role, parent); err != nil {
				return err
			}
		}
		for _, policy := range seed.Policies {
			if err := s.GrantRolePolicy(seed.Role, policy.Object, policy.Action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
