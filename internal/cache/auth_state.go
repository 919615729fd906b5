package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/ruda-paints/internal/models"
)

// 快照过期后回源数据库；改密或停用时主动删除
const adminAuthStateTTL = 10 * time.Minute

// AdminAuthState 鉴权中间件需要的管理员字段
type AdminAuthState struct {
	AdminID      uint   `json:"admin_id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	IsActive     bool   `json:"is_active"`
	TokenVersion uint64 `json:"token_version"`
}

func adminAuthStateKey(adminID uint) string {
	return "admin_auth:" + strconv.FormatUint(uint64(adminID), 10)
}

// BuildAdminAuthState 从模型构建快照
func BuildAdminAuthState(admin *models.Admin) *AdminAuthState {
	if admin == nil {
		return nil
	}
	return &AdminAuthState{
		AdminID:      admin.ID,
		Username:     admin.Username,
		Role:         admin.Role,
		IsActive:     admin.IsActive,
		TokenVersion: admin.TokenVersion,
	}
}

// GetAdminAuthState 读取快照
func GetAdminAuthState(ctx context.Context, adminID uint) (*AdminAuthState, bool, error) {
	if adminID == 0 {
		return nil, false, nil
	}
	var state AdminAuthState
	hit, err := GetJSON(ctx, adminAuthStateKey(adminID), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// InvalidateAdminAuthState 删除快照，下次请求重新读库
func InvalidateAdminAuthState(ctx context.Context, adminID uint) error {
	if adminID == 0 {
		return nil
	}
	return Del(ctx, adminAuthStateKey(adminID))
}

// SetAdminAuthState 写入快照
func SetAdminAuthState(ctx context.Context, state *AdminAuthState) error {
	if state == nil || state.AdminID == 0 {
		return nil
	}
	return SetJSON(ctx, adminAuthStateKey(state.AdminID), state, adminAuthStateTTL)
}
