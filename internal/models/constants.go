package models

// Outbound (canonical) column names
const (
	ColumnShipDate          = "출고일"
	ColumnTransactionType   = "구분"
	ColumnSeller            = "판매처"
	ColumnProductName       = "상품명"
	ColumnShipQuantity      = "가용출고수량"
	ColumnRemarks           = "비고"
	ColumnRecipient         = "수령자"
	ColumnSellerProductName = "판매처상품명"
	ColumnSellerOptionName  = "판매처옵션명"
	ColumnShipMethod        = "출고방식"
)

// Inbound column names
const (
	ColumnReceiptDate     = "입고일"
	ColumnSupplier        = "공급처"
	ColumnReceiptQuantity = "가용입고수량"
	ColumnOptionCode      = "옵션코드"
	ColumnUnitCost        = "입고단가"
	ColumnBoxCount        = "박스수량"
	ColumnOptionName      = "옵션명"

	// ColumnLegacyReceiptQuantity is the older export name of ColumnReceiptQuantity.
	ColumnLegacyReceiptQuantity = "가용입고"
)

// Derived columns that lead every output row
const (
	ColumnProposedCategory  = "분류제안"
	ColumnConfirmedCategory = "분류확정"
)

// Transaction types
const (
	TypeNormalShip      = "정상출고"
	TypeNormalReceipt   = "정상입고"
	TypeReturnReceipt   = "반품입고"
	TypePlusAdjustment  = "(+)조정"
	TypeMinusAdjustment = "(-)조정"
)

// Categories
const (
	CategoryRocket             = "로켓"
	CategoryB2B                = "B2B"
	CategoryOliveYoung         = "올리브영"
	CategoryGeneral            = "일반"
	CategoryMarket             = "마켓"
	CategoryInter              = "인터"
	CategoryQoo10              = "큐텐"
	CategoryGoale              = "고알레"
	CategoryMarketing          = "마케팅"
	CategoryDefective          = "불량"
	CategoryManual             = "수기"
	CategoryUnclassified       = "미분류"
	CategorySetOutbound        = "세트용 출고"
	CategorySetInbound         = "세트용 입고"
	CategoryOutboundAdjustment = "출고조정"
	CategoryInboundAdjustment  = "입고조정"
	CategoryPrePurchaseInbound = "가구매 입고"
	CategoryNormalReceipt      = "정상입고"
	CategoryReturnReceipt      = "반품입고"
)

// OutboundColumns is the canonical data column order shared by both record shapes.
var OutboundColumns = []string{
	ColumnShipDate,
	ColumnTransactionType,
	ColumnSeller,
	ColumnProductName,
	ColumnShipQuantity,
	ColumnRemarks,
	ColumnRecipient,
	ColumnSellerProductName,
	ColumnSellerOptionName,
	ColumnShipMethod,
}

// InboundColumns lists the columns read from receipt files.
var InboundColumns = []string{
	ColumnReceiptDate,
	ColumnTransactionType,
	ColumnSupplier,
	ColumnProductName,
	ColumnReceiptQuantity,
	ColumnRemarks,
	ColumnOptionCode,
	ColumnUnitCost,
	ColumnBoxCount,
	ColumnOptionName,
}

// OutputColumns returns the full header of an exported result row.
func OutputColumns() []string {
	cols := make([]string, 0, len(OutboundColumns)+2)
	cols = append(cols, ColumnProposedCategory, ColumnConfirmedCategory)
	return append(cols, OutboundColumns...)
}

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)
