package repository

import (
	"math"

	"gorm.io/gorm"
)

// applyPagination 应用分页，pageSize <= 0 时不分页
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	// 偏移量会溢出的页码必然越过末页，直接返回空结果
	if page-1 > math.MaxInt/pageSize {
		return query.Where("1 = 0")
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
