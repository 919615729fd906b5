package service

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/ruda-paints/internal/constants"
	"github.com/ruda-paints/internal/repository"

	"github.com/Masterminds/squirrel"
)

// PaintQuery 查询构建结果：过滤谓词、排序与分页，不含任何执行逻辑
type PaintQuery struct {
	Where squirrel.Sqlizer
	Sort  []repository.OrderSpec
	Page  int
	Limit int // 0 表示不分页
}

// Paging 分页参数
type Paging struct {
	DefaultLimit int
	MaxLimit     int
}

var (
	simpleSearchColumns   = []string{"name", "brand", "description", "category"}
	advancedSearchColumns = []string{"name", "brand", "description"}
)

// 可排序字段，键为小写的请求参数
var paintSortColumns = map[string]string{
	"name":           "name",
	"price":          "price",
	"createdat":      "created_at",
	"created_at":     "created_at",
	"updatedat":      "updated_at",
	"updated_at":     "updated_at",
	"category":       "category",
	"brand":          "brand",
	"size":           "size",
	"rating":         "rating",
	"reviewcount":    "review_count",
	"review_count":   "review_count",
	"stockquantity":  "stock_quantity",
	"stock_quantity": "stock_quantity",
}

// Filter 转为仓库层过滤条件
func (q PaintQuery) Filter() repository.PaintQueryFilter {
	return repository.PaintQueryFilter{
		Where:    q.Where,
		OrderBy:  q.Sort,
		Page:     q.Page,
		PageSize: q.Limit,
	}
}

// BuildSimpleQuery 简单列表：search/category/available/featured/sort/order，不分页，默认按创建时间倒序
func BuildSimpleQuery(params url.Values) PaintQuery {
	var b predicateBuilder
	b.text(firstParam(params, "search", "query"), simpleSearchColumns)
	b.category(params.Get("category"))
	b.flag("available", params.Get("available"))
	b.flag("featured", params.Get("featured"))
	return PaintQuery{
		Where: b.build(),
		Sort:  resolveSort(firstParam(params, "sort", "sortBy"), firstParam(params, "order", "sortOrder"), "created_at", true),
	}
}

// BuildAdvancedQuery 高级搜索：在简单列表之上支持多分类、多规格、价格区间与分页，默认按名称升序
func BuildAdvancedQuery(params url.Values, paging Paging) PaintQuery {
	var b predicateBuilder
	b.text(firstParam(params, "query", "search"), advancedSearchColumns)
	b.category(params.Get("category"))
	b.members("category", params.Get("categories"))
	b.members("size", params.Get("sizes"))
	b.priceRange(params.Get("minPrice"), params.Get("maxPrice"))
	b.flag("available", params.Get("available"))
	b.flag("featured", params.Get("featured"))

	limit := parsePositiveInt(params.Get("limit"), paging.DefaultLimit)
	if paging.MaxLimit > 0 && limit > paging.MaxLimit {
		limit = paging.MaxLimit
	}
	return PaintQuery{
		Where: b.build(),
		Sort:  resolveSort(firstParam(params, "sortBy", "sort"), firstParam(params, "sortOrder", "order"), "name", false),
		Page:  parsePositiveInt(params.Get("page"), 1),
		Limit: limit,
	}
}

type predicateBuilder struct {
	conds squirrel.And
}

func (b *predicateBuilder) build() squirrel.Sqlizer {
	if len(b.conds) == 0 {
		return nil
	}
	return b.conds
}

// text 多列 OR 的大小写不敏感子串匹配
func (b *predicateBuilder) text(term string, columns []string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}
	like := "%" + repository.EscapeLike(strings.ToLower(term)) + "%"
	group := make(squirrel.Or, 0, len(columns))
	for _, column := range columns {
		group = append(group, squirrel.Expr("LOWER("+column+`) LIKE ? ESCAPE '\'`, like))
	}
	b.conds = append(b.conds, group)
}

// category 精确匹配，"all" 或空值表示不过滤；不校验是否属于枚举
func (b *predicateBuilder) category(value string) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, constants.CategoryAll) {
		return
	}
	b.conds = append(b.conds, squirrel.Eq{"category": value})
}

// members 逗号分隔的集合匹配
func (b *predicateBuilder) members(column, csv string) {
	values := splitCSV(csv)
	if len(values) == 0 {
		return
	}
	b.conds = append(b.conds, squirrel.Eq{column: values})
}

func (b *predicateBuilder) priceRange(minRaw, maxRaw string) {
	if v, ok := parseFloat(minRaw); ok {
		b.conds = append(b.conds, squirrel.GtOrEq{"price": v})
	}
	if v, ok := parseFloat(maxRaw); ok {
		b.conds = append(b.conds, squirrel.LtOrEq{"price": v})
	}
}

// flag 三态布尔，无法解析时视为未提供
func (b *predicateBuilder) flag(column, raw string) {
	if v, ok := parseBoolParam(raw); ok {
		b.conds = append(b.conds, squirrel.Eq{column: v})
	}
}

func resolveSort(rawKey, rawOrder, defaultColumn string, defaultDesc bool) []repository.OrderSpec {
	column, ok := paintSortColumns[strings.ToLower(strings.TrimSpace(rawKey))]
	if !ok {
		column = defaultColumn
	}
	desc := defaultDesc
	switch strings.ToLower(strings.TrimSpace(rawOrder)) {
	case "desc", "-1":
		desc = true
	case "asc", "1":
		desc = false
	}
	// id 作为稳定的次级排序，保证分页不重不漏
	return []repository.OrderSpec{{Column: column, Desc: desc}, {Column: "id", Desc: desc}}
}

func firstParam(params url.Values, keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(params.Get(key)); v != "" {
			return v
		}
	}
	return ""
}

func splitCSV(raw string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, dup := seen[part]; dup {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}

func parseFloat(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func parsePositiveInt(raw string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

func parseBoolParam(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1":
		return true, true
	case "false", "0":
		return false, true
	}
	return false, false
}
