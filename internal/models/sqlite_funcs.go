package models

import (
	"database/sql/driver"
	"strings"

	sqlitedriver "github.com/glebarez/go-sqlite"
)

// sqlite 内置 LOWER 只处理 ASCII，替换为按 Unicode 折叠的实现，
// 与查询构建器里 strings.ToLower 处理过的关键词保持一致
func init() {
	sqlitedriver.MustRegisterDeterministicScalarFunction("lower", 1, unicodeLower)
}

func unicodeLower(_ *sqlitedriver.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}
