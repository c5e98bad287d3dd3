package models

import "time"

const ItemTable = "tc_items"

// ItemStatus is the lending lifecycle state of an item. Only the lending
// coordinator may move an item in or out of Lent.
type ItemStatus string

const (
	StatusAvailable   ItemStatus = "Available"
	StatusLent        ItemStatus = "Lent"
	StatusMaintenance ItemStatus = "Maintenance"
)

func (s ItemStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusLent, StatusMaintenance:
		return true
	}
	return false
}

type Item struct {
	ID          string     `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"size:200;not null" json:"name"`
	Description string     `gorm:"size:2000" json:"description,omitempty"`
	Category    string     `gorm:"size:120;index;not null" json:"category"`
	Status      ItemStatus `gorm:"size:20;not null;default:'Available'" json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (Item) TableName() string { return ItemTable }
