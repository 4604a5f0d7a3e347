package classifier

import (
	"strings"

	"github.com/Kris2339/MEO-PayDay/internal/models"
)

// fields are the record values the rules look at. Everything except remarks is trimmed.
type fields struct {
	transactionType   string
	counterpart       string
	sellerProductName string
	sellerOptionName  string
	shipMethod        string
	remarks           string
}

func prepare(r models.TransactionRecord) fields {
	return fields{
		transactionType:   strings.TrimSpace(r.TransactionType),
		counterpart:       strings.TrimSpace(r.Counterpart),
		sellerProductName: strings.TrimSpace(r.SellerProductName),
		sellerOptionName:  strings.TrimSpace(r.SellerOptionName),
		shipMethod:        strings.TrimSpace(r.ShipMethod),
		remarks:           r.Remarks,
	}
}

// KeywordRule assigns Category when the remarks contain any of Keywords.
type KeywordRule struct {
	Keywords []string
	Category string
}

func (k KeywordRule) matches(s string) bool {
	return containsAny(s, k.Keywords...)
}

// Rule is one (predicate, category) pair of the 정상출고 rule table.
type Rule struct {
	Name     string
	Category string
	Match    func(f fields, products ProductSet) bool
}

// RuleSet is a complete, self-contained classification table for one policy.
type RuleSet struct {
	Policy     Policy
	Remarks    []KeywordRule
	NormalShip []Rule
}

var (
	rocketKeywords    = []string{"밀크런", "로켓그로스", "파스토", "스타배송", "컬리"}
	b2bKeywords       = []string{"올리브영", "신라면세점", "큐텐", "수출"}
	marketingKeywords = []string{"마케팅", "시딩", "개인구매", "사은품"}
)

// Shared predicates

func isUnclassified(f fields, _ ProductSet) bool {
	return (f.counterpart == "아임웹_미오" && !strings.Contains(f.sellerOptionName, "전화구매")) || f.counterpart == ""
}

func isManualOrder(f fields, _ ProductSet) bool {
	return strings.Contains(f.counterpart, "수기발주")
}

func isDefectiveResend(f fields, _ ProductSet) bool {
	return strings.Contains(f.sellerOptionName, "제품 불량 재발송")
}

func isMarketProduct(f fields, products ProductSet) bool {
	return products != nil && products.Contains(f.sellerProductName)
}

func isMarketing(f fields, _ ProductSet) bool {
	return containsAny(f.sellerOptionName, marketingKeywords...)
}

func isSetOutbound(f fields, _ ProductSet) bool {
	return f.shipMethod == "" && strings.Contains(f.remarks, "세트")
}

// OverrideRules is the maintained rule table. The 정상출고 rules are applied in
// order and every matching rule overwrites the result, so the last match wins.
func OverrideRules() RuleSet {
	return RuleSet{
		Policy: PolicyOverride,
		Remarks: []KeywordRule{
			{Keywords: []string{"밀크런"}, Category: models.CategoryRocket},
			{Keywords: []string{"로켓그로스"}, Category: models.CategoryRocket},
			{Keywords: []string{"파스토"}, Category: models.CategoryRocket},
			{Keywords: []string{"스타배송"}, Category: models.CategoryRocket},
			{Keywords: []string{"컬리"}, Category: models.CategoryRocket},
			{Keywords: []string{"올리브영"}, Category: models.CategoryB2B},
			{Keywords: []string{"신라면세점"}, Category: models.CategoryB2B},
			{Keywords: []string{"큐텐"}, Category: models.CategoryB2B},
			{Keywords: []string{"수출"}, Category: models.CategoryB2B},
		},
		NormalShip: []Rule{
			{Name: "unclassified", Category: models.CategoryUnclassified, Match: isUnclassified},
			{Name: "manual-order", Category: models.CategoryManual, Match: isManualOrder},
			{Name: "defective-resend", Category: models.CategoryDefective, Match: isDefectiveResend},
			{Name: "goale", Category: models.CategoryGoale, Match: func(f fields, _ ProductSet) bool {
				return strings.Contains(f.sellerProductName, "고알레") || strings.Contains(f.sellerOptionName, "고알레")
			}},
			{Name: "inter", Category: models.CategoryInter, Match: func(f fields, _ ProductSet) bool {
				return strings.Contains(f.sellerOptionName, "인터")
			}},
			{Name: "general-option", Category: models.CategoryGeneral, Match: func(f fields, _ ProductSet) bool {
				return strings.Contains(f.sellerOptionName, "일반")
			}},
			{Name: "b2b-option", Category: models.CategoryB2B, Match: func(f fields, _ ProductSet) bool {
				return containsAny(f.sellerOptionName, b2bKeywords...)
			}},
			{Name: "market-product", Category: models.CategoryMarket, Match: isMarketProduct},
			{Name: "marketing-option", Category: models.CategoryMarketing, Match: isMarketing},
			{Name: "rocket-option", Category: models.CategoryRocket, Match: func(f fields, _ ProductSet) bool {
				return containsAny(f.sellerOptionName, rocketKeywords...)
			}},
			{Name: "coupang-shipment", Category: models.CategoryRocket, Match: func(f fields, _ ProductSet) bool {
				return containsAny(f.counterpart, "*쿠팡(쉽먼트)", "2.쿠팡(쉽먼트)")
			}},
			{Name: "set-outbound", Category: models.CategorySetOutbound, Match: isSetOutbound},
		},
	}
}

// FirstMatchRules is the earlier rule table: the first matching 정상출고 rule wins.
func FirstMatchRules() RuleSet {
	return RuleSet{
		Policy: PolicyFirstMatch,
		Remarks: []KeywordRule{
			{Keywords: []string{"밀크런"}, Category: models.CategoryRocket},
			{Keywords: []string{"로켓그로스"}, Category: models.CategoryRocket},
			{Keywords: []string{"파스토"}, Category: models.CategoryRocket},
			{Keywords: []string{"스타배송"}, Category: models.CategoryRocket},
			{Keywords: []string{"올리브영"}, Category: models.CategoryOliveYoung},
			{Keywords: []string{"컬리"}, Category: models.CategoryGeneral},
		},
		NormalShip: []Rule{
			{Name: "set-outbound", Category: models.CategorySetOutbound, Match: isSetOutbound},
			{Name: "coupang-shipment", Category: models.CategoryRocket, Match: func(f fields, _ ProductSet) bool {
				return f.counterpart == "*쿠팡(쉽먼트)_미오"
			}},
			{Name: "market-product", Category: models.CategoryMarket, Match: isMarketProduct},
			{Name: "onnuri-inter", Category: models.CategoryInter, Match: func(f fields, _ ProductSet) bool {
				return strings.Contains(f.sellerOptionName, "온누리인터")
			}},
			{Name: "qoo10-option", Category: models.CategoryQoo10, Match: func(f fields, _ ProductSet) bool {
				return strings.Contains(f.sellerOptionName, "큐텐")
			}},
			{Name: "goale-product", Category: models.CategoryGoale, Match: func(f fields, _ ProductSet) bool {
				return strings.Contains(f.sellerProductName, "고알레")
			}},
			{Name: "marketing-option", Category: models.CategoryMarketing, Match: isMarketing},
			{Name: "defective-resend", Category: models.CategoryDefective, Match: isDefectiveResend},
			{Name: "manual-order", Category: models.CategoryManual, Match: isManualOrder},
			{Name: "unclassified", Category: models.CategoryUnclassified, Match: isUnclassified},
		},
	}
}

func containsAny(s string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
