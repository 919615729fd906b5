package constants

// 油漆分类
const (
	CategoryInterior = "Interior"
	CategoryExterior = "Exterior"
	CategoryPrimer   = "Primer"
	CategoryVarnish  = "Varnish"
	CategoryEnamel   = "Enamel"
	CategoryOthers   = "Others"
)

// PaintCategories 可写入的分类，顺序即前端展示顺序
var PaintCategories = []string{
	CategoryInterior,
	CategoryExterior,
	CategoryPrimer,
	CategoryVarnish,
	CategoryEnamel,
	CategoryOthers,
}

// PaintSizes 可写入的容量规格
var PaintSizes = []string{"1L", "4L", "5L", "10L", "20L", "25L", "Other"}

// DefaultPaintSize 默认容量
const DefaultPaintSize = "4L"

// 商品展示状态，按优先级排列
const (
	PaintStatusOutOfStock = "out-of-stock"
	PaintStatusOnSale     = "on-sale"
	PaintStatusFeatured   = "featured"
	PaintStatusNew        = "new"
	PaintStatusAvailable  = "available"
)

// CategoryAll 列表查询中表示不过滤分类
const CategoryAll = "all"

// 价目表导出格式
const (
	PriceListFormatCSV   = "csv"
	PriceListFormatExcel = "excel"
)

// 留言状态
const (
	ContactStatusNew     = "new"
	ContactStatusRead    = "read"
	ContactStatusReplied = "replied"
	ContactStatusClosed  = "closed"
	ContactStatusSpam    = "spam"
)

// ContactStatuses 全部留言状态
var ContactStatuses = []string{
	ContactStatusNew,
	ContactStatusRead,
	ContactStatusReplied,
	ContactStatusClosed,
	ContactStatusSpam,
}

// 留言优先级
const (
	ContactPriorityLow    = "low"
	ContactPriorityNormal = "normal"
	ContactPriorityHigh   = "high"
	ContactPriorityUrgent = "urgent"
)

// ContactPriorities 全部优先级
var ContactPriorities = []string{
	ContactPriorityLow,
	ContactPriorityNormal,
	ContactPriorityHigh,
	ContactPriorityUrgent,
}

// ContactCategories 留言分类
var ContactCategories = []string{"general", "sales", "support", "technical", "complaint", "feedback"}

// ContactSources 留言来源
var ContactSources = []string{"website", "phone", "email", "showroom", "social"}

// 订阅来源与偏好
var (
	NewsletterSources     = []string{"website", "showroom", "event", "referral"}
	NewsletterPreferences = []string{"promotions", "new-products", "tips", "events"}
)

// DefaultNewsletterPreferences 新订阅者默认偏好
var DefaultNewsletterPreferences = []string{"promotions", "new-products"}

// 管理员角色
const (
	AdminRoleAdmin      = "admin"
	AdminRoleSuperAdmin = "super-admin"
)

// 队列与任务
const (
	QueueDefault = "default"
	QueueMail    = "mail"

	TaskContactNotify     = "contact:notify"
	TaskContactReply      = "contact:reply"
	TaskNewsletterWelcome = "newsletter:welcome"
)

// Contains 判断 value 是否在 list 中
func Contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
