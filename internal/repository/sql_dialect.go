package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// dbDialectName 数据库方言名称，缺省按 sqlite 处理
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

// likeOperatorByDialect postgres 使用 ILIKE，sqlite 两侧先 LOWER 再 LIKE
func likeOperatorByDialect(dialect string) string {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return "ILIKE"
	default:
		return "LIKE"
	}
}

// buildLikeCondition 多列 OR 模糊匹配条件及参数
func buildLikeCondition(db *gorm.DB, columns []string, term string) (string, []interface{}) {
	return buildLikeConditionByDialect(dbDialectName(db), columns, term)
}

func buildLikeConditionByDialect(dialect string, columns []string, term string) (string, []interface{}) {
	operator := likeOperatorByDialect(dialect)
	fold := operator == "LIKE"
	if fold {
		term = strings.ToLower(term)
	}
	like := "%" + EscapeLike(term) + "%"
	parts := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, column := range columns {
		column = strings.TrimSpace(column)
		if column == "" {
			continue
		}
		if fold {
			column = "LOWER(" + column + ")"
		}
		parts = append(parts, fmt.Sprintf(`%s %s ? ESCAPE '\'`, column, operator))
		args = append(args, like)
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

// EscapeLike 转义 LIKE 通配符
func EscapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}
