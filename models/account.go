package models

import "time"

// AccountType is the closed taxonomy for stored third-party accounts.
type AccountType string

const (
	AccountTypeEmail     AccountType = "email"
	AccountTypeInstagram AccountType = "instagram"
	AccountTypeFacebook  AccountType = "facebook"
	AccountTypeTiktok    AccountType = "tiktok"
	AccountTypeSosmed    AccountType = "sosmed"
	AccountTypeEfootball AccountType = "efootball"
	AccountTypeLainnya   AccountType = "lainnya"
)

// AccountTypes lists every valid account type.
var AccountTypes = []AccountType{
	AccountTypeEmail,
	AccountTypeInstagram,
	AccountTypeFacebook,
	AccountTypeTiktok,
	AccountTypeSosmed,
	AccountTypeEfootball,
	AccountTypeLainnya,
}

func (t AccountType) Valid() bool {
	for _, v := range AccountTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Tab is a display grouping over account types.
type Tab string

const (
	TabAll    Tab = "all"
	TabEmail  Tab = "email"
	TabGaming Tab = "gaming"
	TabSocial Tab = "social"
	TabOther  Tab = "other"
)

var Tabs = []Tab{TabAll, TabEmail, TabGaming, TabSocial, TabOther}

func (t Tab) Valid() bool {
	for _, v := range Tabs {
		if t == v {
			return true
		}
	}
	return false
}

// Tab returns the single tab an account type belongs to. Unknown types fall
// into the "other" tab, same as the lainnya type they are normalized to.
func (t AccountType) Tab() Tab {
	switch t {
	case AccountTypeEmail:
		return TabEmail
	case AccountTypeEfootball:
		return TabGaming
	case AccountTypeInstagram, AccountTypeFacebook, AccountTypeTiktok, AccountTypeSosmed:
		return TabSocial
	default:
		return TabOther
	}
}

// Account stores credentials for a third-party account. The password is kept
// as entered: the whole point of the registry is to read it back.
type Account struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
	UserID         uint        `gorm:"index;not null" json:"-"`
	Email          string      `gorm:"size:255;not null" json:"email"`
	Password       string      `gorm:"size:255;not null" json:"password"`
	Notes          string      `gorm:"size:1024" json:"notes"`
	AttachmentPath *string     `gorm:"size:512" json:"attachment_path"`
	Type           AccountType `gorm:"size:32;not null;index" json:"type"`
	// Status is free text, only meaningful for efootball accounts.
	Status string `gorm:"size:255" json:"status"`
}

// NormalizedType folds empty or unrecognized type values into lainnya.
func (a Account) NormalizedType() AccountType {
	if a.Type.Valid() {
		return a.Type
	}
	return AccountTypeLainnya
}

// GroupByType partitions accounts by their normalized type. Every input
// account lands in exactly one group.
func GroupByType(accounts []Account) map[AccountType][]Account {
	groups := make(map[AccountType][]Account)
	for _, a := range accounts {
		t := a.NormalizedType()
		groups[t] = append(groups[t], a)
	}
	return groups
}

// FilterByTab keeps only the groups belonging to the given tab. TabAll
// returns the input unchanged.
func FilterByTab(groups map[AccountType][]Account, tab Tab) map[AccountType][]Account {
	if tab == TabAll {
		return groups
	}
	out := make(map[AccountType][]Account)
	for t, accs := range groups {
		if t.Tab() == tab {
			out[t] = accs
		}
	}
	return out
}

// InTab returns the flat subset of accounts whose type belongs to the tab,
// preserving input order.
func InTab(accounts []Account, tab Tab) []Account {
	if tab == TabAll {
		return accounts
	}
	var out []Account
	for _, a := range accounts {
		if a.NormalizedType().Tab() == tab {
			out = append(out, a)
		}
	}
	return out
}
