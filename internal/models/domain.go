package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/billingstack/namesilo/internal/utils"
)

// DomainRecord is one purchased or transferred domain, linking the billing
// order to the registrar order. Records are never deleted by normal
// operation; dropping the table is a module-uninstall concern.
type DomainRecord struct {
	ID              string     `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	ClientID        int64      `gorm:"column:client_id;index" json:"clientId"`
	ProductID       int64      `gorm:"column:product_id;index" json:"productId"`
	OrderID         int64      `gorm:"column:order_id;index" json:"orderId"`
	Sld             string     `gorm:"column:sld;type:varchar(100)" json:"sld"`
	Tld             string     `gorm:"column:tld;type:varchar(10)" json:"tld"`
	Domain          string     `gorm:"column:domain;type:varchar(255);index" json:"domain"`
	NamesiloOrderID string     `gorm:"column:namesilo_order_id;type:varchar(100)" json:"namesiloOrderId"`
	ExpiresAt       *time.Time `gorm:"column:expires_at;type:timestamp;index" json:"expiresAt"`
	CreatedAt       time.Time  `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;type:timestamp;default:current_timestamp" json:"updatedAt"`
}

func (DomainRecord) TableName() string {
	return "namesilo_domains"
}

func (d *DomainRecord) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = utils.GenerateNanoIdWithPrefix("dom", 16)
	}
	return nil
}
