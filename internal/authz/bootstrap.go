package authz

import "fmt"

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 预置角色：客服只读，管理员可读写任意客户购物车
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: "support",
			Policies: []Policy{
				{Object: "/customer/:user/cart/:cart", Action: "GET"},
			},
		},
		{
			Role:     "admin",
			Inherits: []string{"support"},
			Policies: []Policy{
				{Object: "/customer/:user/cart", Action: "*"},
				{Object: "/customer/:user/cart/:cart", Action: "*"},
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略（幂等）
func (s *Service) BootstrapBuiltinRoles() error {
	return s.BootstrapRoles(BuiltinRoleSeeds()...)
}

// BootstrapRoles 写入角色、继承关系与策略；已存在的规则跳过
func (s *Service) BootstrapRoles(seeds ...RoleSeed) error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range seeds {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}

		if role == roleAnchor {
			return fmt.Errorf("reserved role is not allowed")
		}
		if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, roleAnchor); err != nil {
			return fmt.Errorf("create role failed: %w", err)
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("policy action is required: %s", role)
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add role policy failed: %w", err)
			}
		}
	}
	return nil
}
