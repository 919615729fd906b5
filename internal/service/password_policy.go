package service

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ruda-paints/internal/config"
)

// passwordPolicyError 携带 i18n key 与参数，errors.Is 视为 ErrWeakPassword
type passwordPolicyError struct {
	key  string
	args []interface{}
}

func (e passwordPolicyError) Error() string {
	return e.key
}

func (e passwordPolicyError) Is(target error) bool {
	return target == ErrWeakPassword
}

func (e passwordPolicyError) Key() string {
	return e.key
}

func (e passwordPolicyError) Args() []interface{} {
	return e.args
}

// passwordClassRule 字符类别要求，按配置顺序逐条检查
type passwordClassRule struct {
	required bool
	match    func(rune) bool
	key      string
}

// validatePassword 管理员密码强度校验，返回首个不满足的规则
func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	minLength := policy.MinLength
	if minLength <= 0 {
		minLength = 8
	}
	if utf8.RuneCountInString(password) < minLength {
		return passwordPolicyError{key: "error.password_min_length", args: []interface{}{minLength}}
	}

	rules := []passwordClassRule{
		{required: policy.RequireUpper, match: unicode.IsUpper, key: "error.password_require_upper"},
		{required: policy.RequireLower, match: unicode.IsLower, key: "error.password_require_lower"},
		{required: policy.RequireNumber, match: unicode.IsDigit, key: "error.password_require_number"},
	}
	for _, rule := range rules {
		if rule.required && strings.IndexFunc(password, rule.match) < 0 {
			return passwordPolicyError{key: rule.key}
		}
	}
	return nil
}
