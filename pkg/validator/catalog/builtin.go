package catalog

import (
	"math"
	"time"

	"tpm-common-validation/pkg/validator/check"
	"tpm-common-validation/pkg/validator/schema"
)

// 预置的实体名称
const (
	EntityUser      = "user"
	EntityProduct   = "product"
	EntityPromotion = "promotion"
	EntityOrder     = "order"
	EntityCompany   = "company"
	EntityBudget    = "budget"
	EntityCustomer  = "customer"
)

// 跨字段规则的错误消息
const (
	MsgEndDateBeforeStart = "End date must be after start date"
	MsgTotalMismatch      = "Total amount does not match the sum of item prices"
	MsgDuplicateMonths    = "Budget lines must not repeat a month"
)

// totalTolerance 订单总额与明细合计允许的误差
const totalTolerance = 0.01

var (
	// userPasswordPattern 至少包含一个数字、小写字母、大写字母和特殊字符
	userPasswordPattern = check.MustCompilePattern(`^(?=.*\d)(?=.*[a-z])(?=.*[A-Z])(?=.*[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?])`)

	// adminPasswordPattern 公司管理员密码，特殊字符集合更窄
	adminPasswordPattern = check.MustCompilePattern(`^(?=.*[a-z])(?=.*[A-Z])(?=.*\d)(?=.*[@$!%*?&])[A-Za-z\d@$!%*?&]`)

	skuPattern    = check.MustCompilePattern(`^[A-Z0-9]{6,10}$`)
	domainPattern = check.MustCompilePattern(`^[a-z0-9-]+$`)
)

// Builtin 返回注册了全部预置 Schema 的 Catalog
// now 用于 promotion.startDate 的“今天”下限，为 nil 时使用 time.Now
func Builtin(now func() time.Time) *Catalog {
	c := New()
	for name, s := range map[string]schema.Schema{
		EntityUser:      UserSchema(),
		EntityProduct:   ProductSchema(),
		EntityPromotion: PromotionSchema(now),
		EntityOrder:     OrderSchema(),
		EntityCompany:   CompanySchema(),
		EntityBudget:    BudgetSchema(),
		EntityCustomer:  CustomerSchema(),
	} {
		if err := c.Register(name, s); err != nil {
			panic(err)
		}
	}
	return c
}

// UserSchema 用户
func UserSchema() schema.Schema {
	return schema.Schema{
		"name": schema.StringRule{
			Base:      schema.Base{Required: true},
			MinLength: schema.Int(2),
			MaxLength: schema.Int(100),
		},
		"email": schema.EmailRule{Base: schema.Base{Required: true}},
		"password": schema.StringRule{
			Base:           schema.Base{Required: true},
			MinLength:      schema.Int(8),
			Pattern:        userPasswordPattern,
			PatternMessage: "Password must contain at least one number, one uppercase letter, one lowercase letter, and one special character",
		},
		"role": schema.EnumRule{
			Base:   schema.Base{Required: true},
			Values: []string{"admin", "manager", "user"},
		},
		"phone": schema.PhoneRule{},
	}
}

// ProductSchema 商品
func ProductSchema() schema.Schema {
	return schema.Schema{
		"name": schema.StringRule{
			Base:      schema.Base{Required: true},
			MinLength: schema.Int(2),
			MaxLength: schema.Int(100),
		},
		"description": schema.StringRule{MaxLength: schema.Int(1000)},
		"price": schema.NumberRule{
			Base: schema.Base{Required: true},
			Min:  schema.Float(0),
		},
		"category": schema.StringRule{Base: schema.Base{Required: true}},
		"sku": schema.StringRule{
			Base:           schema.Base{Required: true},
			Pattern:        skuPattern,
			PatternMessage: "SKU must be 6-10 uppercase letters and numbers",
		},
		"inStock": schema.BooleanRule{Base: schema.Base{Required: true}},
	}
}

// PromotionSchema 促销活动
// startDate 不得早于构造时的当天日期（UTC，YYYY-MM-DD）
func PromotionSchema(now func() time.Time) schema.Schema {
	if now == nil {
		now = time.Now
	}
	today := now().UTC().Format("2006-01-02")

	return schema.Schema{
		"name": schema.StringRule{
			Base:      schema.Base{Required: true},
			MinLength: schema.Int(2),
			MaxLength: schema.Int(100),
		},
		"description": schema.StringRule{MaxLength: schema.Int(1000)},
		"startDate": schema.DateRule{
			Base: schema.Base{Required: true},
			Min:  today,
		},
		"endDate": schema.DateRule{
			Base: schema.Base{Required: true, Validate: endAfterStart("startDate")},
		},
		"discount": schema.NumberRule{
			Base: schema.Base{Required: true},
			Min:  schema.Float(0),
			Max:  schema.Float(100),
		},
		"products": schema.ArrayRule{
			Base:     schema.Base{Required: true},
			MinItems: schema.Int(1),
			ItemType: schema.TypeString,
		},
	}
}

// endAfterStart 结束日期必须晚于 startField 指定的开始日期
// 任一日期无法解析时不报告（由日期规则自身负责）
func endAfterStart(startField string) schema.CustomFunc {
	return func(value any, record map[string]any) string {
		start := record[startField]
		if !check.IsValidDate(value, check.DateOptions{}) || !check.IsValidDate(start, check.DateOptions{}) {
			return ""
		}
		if !check.IsValidDateRange(start, value) {
			return MsgEndDateBeforeStart
		}
		return ""
	}
}

// OrderSchema 订单
func OrderSchema() schema.Schema {
	return schema.Schema{
		"customer": schema.ObjectRule{
			Base: schema.Base{Required: true},
			Schema: schema.Schema{
				"name":    schema.StringRule{Base: schema.Base{Required: true}},
				"email":   schema.EmailRule{Base: schema.Base{Required: true}},
				"phone":   schema.PhoneRule{},
				"address": schema.StringRule{Base: schema.Base{Required: true}},
			},
		},
		"items": schema.ArrayRule{
			Base:     schema.Base{Required: true},
			MinItems: schema.Int(1),
			ItemType: schema.TypeObject,
			ItemSchema: schema.Schema{
				"productId": schema.StringRule{Base: schema.Base{Required: true}},
				"quantity": schema.NumberRule{
					Base:    schema.Base{Required: true},
					Min:     schema.Float(1),
					Integer: true,
				},
				"price": schema.NumberRule{
					Base: schema.Base{Required: true},
					Min:  schema.Float(0),
				},
			},
		},
		"totalAmount": schema.NumberRule{
			Base: schema.Base{Required: true, Validate: totalMatchesItems},
			Min:  schema.Float(0),
		},
		"paymentMethod": schema.EnumRule{
			Base:   schema.Base{Required: true},
			Values: []string{"credit_card", "paypal", "bank_transfer", "cash"},
		},
		"status": schema.EnumRule{
			Base:   schema.Base{Required: true},
			Values: []string{"pending", "processing", "shipped", "delivered", "cancelled"},
		},
	}
}

// totalMatchesItems 订单总额必须等于 Σ price × quantity（误差 0.01 以内）
// 没有 items，或总额、任一明细的价格与数量不是数字时不报告
func totalMatchesItems(value any, record map[string]any) string {
	total, ok := check.ToNumber(value)
	if !ok {
		return ""
	}
	sum, ok := sumItems(record["items"])
	if !ok {
		return ""
	}
	if math.Abs(total-sum) > totalTolerance {
		return MsgTotalMismatch
	}
	return ""
}

func sumItems(items any) (float64, bool) {
	list, ok := items.([]any)
	if !ok {
		if typed, isMaps := items.([]map[string]any); isMaps {
			list = make([]any, len(typed))
			for i, item := range typed {
				list[i] = item
			}
		} else {
			return 0, false
		}
	}

	var sum float64
	for _, item := range list {
		rec, ok := item.(map[string]any)
		if !ok {
			return 0, false
		}
		price, okPrice := check.ToNumber(rec["price"])
		quantity, okQuantity := check.ToNumber(rec["quantity"])
		if !okPrice || !okQuantity {
			return 0, false
		}
		sum += price * quantity
	}
	return sum, true
}

// CompanySchema 租户公司（含首个管理员账号）
func CompanySchema() schema.Schema {
	return schema.Schema{
		"name": schema.StringRule{
			Base:      schema.Base{Required: true},
			MinLength: schema.Int(2),
			MaxLength: schema.Int(100),
		},
		"domain": schema.StringRule{
			Base:           schema.Base{Required: true},
			MinLength:      schema.Int(2),
			MaxLength:      schema.Int(50),
			Pattern:        domainPattern,
			PatternMessage: "Domain must contain only lowercase letters, numbers, and hyphens",
		},
		"industry": schema.StringRule{
			Base:      schema.Base{Required: true},
			MinLength: schema.Int(2),
			MaxLength: schema.Int(50),
		},
		"country": schema.StringRule{
			Base:      schema.Base{Required: true},
			MinLength: schema.Int(2),
			MaxLength: schema.Int(50),
		},
		"contactInfo": schema.ObjectRule{
			Base: schema.Base{Required: true},
			Schema: schema.Schema{
				"email": schema.EmailRule{Base: schema.Base{Required: true}},
				"phone": schema.PhoneRule{},
				"address": schema.ObjectRule{Schema: schema.Schema{
					"street":  schema.StringRule{MaxLength: schema.Int(200)},
					"city":    schema.StringRule{MaxLength: schema.Int(100)},
					"country": schema.StringRule{MaxLength: schema.Int(100)},
				}},
			},
		},
		"subscription": schema.ObjectRule{Schema: schema.Schema{
			"plan": schema.EnumRule{Values: []string{"starter", "professional", "enterprise", "custom"}},
			"maxUsers": schema.NumberRule{
				Min:     schema.Float(1),
				Max:     schema.Float(1000),
				Integer: true,
			},
			"maxBudgets": schema.NumberRule{
				Min:     schema.Float(1),
				Max:     schema.Float(100),
				Integer: true,
			},
			"features": schema.ArrayRule{ItemType: schema.TypeString},
		}},
		"adminUser": schema.ObjectRule{
			Base: schema.Base{Required: true},
			Schema: schema.Schema{
				"firstName": schema.StringRule{
					Base:      schema.Base{Required: true},
					MinLength: schema.Int(2),
					MaxLength: schema.Int(50),
				},
				"lastName": schema.StringRule{
					Base:      schema.Base{Required: true},
					MinLength: schema.Int(2),
					MaxLength: schema.Int(50),
				},
				"email": schema.EmailRule{Base: schema.Base{Required: true}},
				"password": schema.StringRule{
					Base:           schema.Base{Required: true},
					MinLength:      schema.Int(8),
					Pattern:        adminPasswordPattern,
					PatternMessage: "Password must be at least 8 characters with uppercase, lowercase, number, and special character",
				},
			},
		},
	}
}

// budgetCurrencies 预算可使用的币种
var budgetCurrencies = append(check.SupportedCurrencies(), "ZAR")

// BudgetSchema 年度预算
func BudgetSchema() schema.Schema {
	return schema.Schema{
		"name": schema.StringRule{Base: schema.Base{Required: true}},
		"code": schema.StringRule{Base: schema.Base{Required: true}},
		"year": schema.NumberRule{
			Base:    schema.Base{Required: true},
			Min:     schema.Float(2000),
			Max:     schema.Float(2100),
			Integer: true,
		},
		"budgetType": schema.EnumRule{
			Base:   schema.Base{Required: true},
			Values: []string{"forecast", "budget", "revised_budget", "scenario"},
		},
		"status": schema.EnumRule{
			Values: []string{"draft", "submitted", "approved", "locked", "archived"},
		},
		"totalAmount": schema.NumberRule{Min: schema.Float(0)},
		"currency":    schema.EnumRule{Values: budgetCurrencies},
		"budgetLines": schema.ArrayRule{
			Base:     schema.Base{Validate: uniqueMonths},
			MaxItems: schema.Int(12),
			ItemType: schema.TypeObject,
			ItemSchema: schema.Schema{
				"month": schema.NumberRule{
					Base:    schema.Base{Required: true},
					Min:     schema.Float(1),
					Max:     schema.Float(12),
					Integer: true,
				},
				"budget":    schema.NumberRule{Min: schema.Float(0)},
				"allocated": schema.NumberRule{Min: schema.Float(0)},
				"spent":     schema.NumberRule{Min: schema.Float(0)},
			},
		},
	}
}

// uniqueMonths 预算明细的月份不得重复
func uniqueMonths(value any, _ map[string]any) string {
	lines, ok := value.([]any)
	if !ok {
		return ""
	}
	months := make([]any, 0, len(lines))
	for _, line := range lines {
		rec, ok := line.(map[string]any)
		if !ok {
			continue
		}
		if month, ok := check.ToNumber(rec["month"]); ok {
			months = append(months, month)
		}
	}
	if !check.HasUniqueValues(months) {
		return MsgDuplicateMonths
	}
	return ""
}

// CustomerSchema 客户（零售商、分销商等）
func CustomerSchema() schema.Schema {
	return schema.Schema{
		"sapCustomerId": schema.StringRule{Base: schema.Base{Required: true}},
		"name": schema.StringRule{
			Base:      schema.Base{Required: true},
			MinLength: schema.Int(2),
			MaxLength: schema.Int(100),
		},
		"code": schema.StringRule{Base: schema.Base{Required: true}},
		"customerType": schema.EnumRule{
			Base:   schema.Base{Required: true},
			Values: []string{"retailer", "wholesaler", "distributor", "chain", "independent", "online"},
		},
		"channel": schema.EnumRule{
			Base:   schema.Base{Required: true},
			Values: []string{"modern_trade", "traditional_trade", "horeca", "ecommerce", "b2b", "export"},
		},
		"tier": schema.EnumRule{
			Values: []string{"platinum", "gold", "silver", "bronze", "standard"},
		},
		"contacts": schema.ArrayRule{
			ItemType: schema.TypeObject,
			ItemSchema: schema.Schema{
				"name":  schema.StringRule{Base: schema.Base{Required: true}},
				"email": schema.EmailRule{},
				"phone": schema.PhoneRule{},
			},
		},
		"addresses": schema.ArrayRule{
			ItemType: schema.TypeObject,
			ItemSchema: schema.Schema{
				"type":       schema.EnumRule{Values: []string{"billing", "shipping", "both"}},
				"street":     schema.StringRule{MaxLength: schema.Int(200)},
				"city":       schema.StringRule{MaxLength: schema.Int(100)},
				"postalCode": schema.StringRule{MaxLength: schema.Int(20)},
			},
		},
		"creditLimit": schema.NumberRule{Min: schema.Float(0)},
		"paymentTerms": schema.EnumRule{
			Values: []string{"NET30", "NET45", "NET60", "NET90", "COD", "PREPAID"},
		},
		"currency": schema.EnumRule{Values: budgetCurrencies},
		"taxId":    schema.StringRule{MaxLength: schema.Int(50)},
	}
}
