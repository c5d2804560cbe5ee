package models

import "time"

// TransactionType discriminates ledger entries.
type TransactionType string

const (
	TransactionSale    TransactionType = "sale"
	TransactionExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TransactionSale || t == TransactionExpense
}

// Platform is the payment platform of a transaction.
type Platform string

const (
	PlatformEMoney  Platform = "E-Money"
	PlatformBank    Platform = "Bank"
	PlatformQris    Platform = "Qris"
	PlatformTunai   Platform = "Tunai"
	PlatformLainnya Platform = "Lainnya"
)

var Platforms = []Platform{PlatformEMoney, PlatformBank, PlatformQris, PlatformTunai, PlatformLainnya}

func (p Platform) Valid() bool {
	for _, v := range Platforms {
		if p == v {
			return true
		}
	}
	return false
}

// RequiresDetail reports whether the platform takes a sub-selection.
func (p Platform) RequiresDetail() bool {
	return p == PlatformBank || p == PlatformEMoney
}

// Sub-selections for the two platforms that take one.
var (
	EMoneyDetails = []string{"Dana", "GoPay", "OVO", "ShopeePay", "Lainnya"}
	BankDetails   = []string{"BCA", "BRI", "BNI", "Seabank", "Mandiri", "Jago", "Lainnya"}
)

// ValidDetail reports whether detail is an allowed sub-selection for the
// platform. Platforms without a sub-selection accept only the empty string.
func (p Platform) ValidDetail(detail string) bool {
	var allowed []string
	switch p {
	case PlatformBank:
		allowed = BankDetails
	case PlatformEMoney:
		allowed = EMoneyDetails
	default:
		return detail == ""
	}
	for _, d := range allowed {
		if detail == d {
			return true
		}
	}
	return false
}

// Transaction is one ledger entry. For a sale, Modal is the cost basis and
// HargaJual the sale price; for an expense, Modal is the amount itself and
// HargaJual is zero. Profit is derived and recomputed on every write,
// client-supplied values are never trusted.
type Transaction struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// CreatedAt is the transaction date, user-editable at entry time.
	CreatedAt      time.Time       `gorm:"not null;index" json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	UserID         uint            `gorm:"index;not null" json:"-"`
	AccountID      *uint           `gorm:"index" json:"account_id"`
	Account        *Account        `gorm:"foreignKey:AccountID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	Type           TransactionType `gorm:"column:transaction_type;size:16;not null" json:"transaction_type"`
	Description    string          `gorm:"size:512;not null" json:"description"`
	Modal          int64           `gorm:"not null" json:"modal"`
	HargaJual      int64           `gorm:"not null" json:"harga_jual"`
	Fee            *int64          `json:"fee"`
	Profit         int64           `gorm:"not null" json:"profit"`
	Platform       Platform        `gorm:"size:32" json:"platform"`
	PlatformDetail *string         `gorm:"size:64" json:"platform_detail"`
}

// FeeOrZero treats a missing fee as zero.
func (t Transaction) FeeOrZero() int64 {
	if t.Fee == nil {
		return 0
	}
	return *t.Fee
}
