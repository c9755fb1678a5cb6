// shop.go
//
// Generic admin list views, column selection and inline editing for GORM models
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of gutils-admin.
// gutils-admin is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// gutils-admin is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with gutils-admin.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package models

import (
	"fmt"
	"time"

	"github.com/localnerve/gutils-admin/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Customer is the parent record of the bundled admin views
type Customer struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" verbose:"ID"`
	Name      string    `gorm:"size:255;not null" verbose:"name"`
	Email     string    `gorm:"size:255;uniqueIndex" verbose:"email"`
	Phone     string    `gorm:"size:32" verbose:"phone"`
	Status    string    `gorm:"size:16;not null;default:active;index" verbose:"status"`
	Active    bool      `gorm:"not null;default:true" verbose:"active"`
	Discount  int       `gorm:"not null;default:0" verbose:"discount, %"`
	CreatedAt time.Time `verbose:"created"`
	UpdatedAt time.Time `verbose:"updated"`
	Orders    []Order   `gorm:"constraint:OnDelete:RESTRICT"`
}

// Order belongs to a customer
type Order struct {
	ID         uint64          `gorm:"primaryKey;autoIncrement" verbose:"ID"`
	CustomerID uint64          `gorm:"not null;index" verbose:"customer"`
	Customer   Customer        `verbose:"customer"`
	Number     string          `gorm:"size:32;not null;index" verbose:"number"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" verbose:"total"`
	Quantity   int             `gorm:"not null;default:1" verbose:"quantity"`
	Paid       bool            `gorm:"not null;default:false" verbose:"paid"`
	Status     string          `gorm:"size:16;not null;default:new" verbose:"status"`
	Note       string          `gorm:"type:text" verbose:"note"`
	Extra      JSON            `verbose:"extra"`
	Tags       []Tag           `gorm:"many2many:order_tags;" verbose:"tags"`
	CreatedAt  time.Time       `verbose:"created"`
	UpdatedAt  time.Time       `verbose:"updated"`
}

// Tag labels orders
type Tag struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"size:64;not null;uniqueIndex" verbose:"name"`
}

// TableName overrides the table name for Customer
func (Customer) TableName() string {
	return "customers"
}

// TableName overrides the table name for Order
func (Order) TableName() string {
	return "orders"
}

// TableName overrides the table name for Tag
func (Tag) TableName() string {
	return "tags"
}

// BeforeDelete refuses to delete a customer that still has orders
func (c *Customer) BeforeDelete(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&Order{}).Where("customer_id = ?", c.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("customer %d has %d orders: %w", c.ID, count, types.ErrReferentialIntegrity)
	}
	return nil
}

// BeforeDelete detaches the order tags
func (o *Order) BeforeDelete(tx *gorm.DB) error {
	return tx.Model(o).Association("Tags").Clear()
}

func (c Customer) String() string {
	return c.Name
}

func (o Order) String() string {
	return "#" + o.Number
}

func (t Tag) String() string {
	return t.Name
}

// Attr exposes customer attributes to admin columns by name
func (c Customer) Attr(name string) (any, bool) {
	switch name {
	case "id", "pk":
		return c.ID, true
	case "name":
		return c.Name, true
	case "email":
		return c.Email, true
	case "phone":
		return c.Phone, true
	case "status":
		return c.Status, true
	case "active":
		return c.Active, true
	case "discount":
		return c.Discount, true
	case "created_at":
		return c.CreatedAt, true
	case "updated_at":
		return c.UpdatedAt, true
	case "contact":
		return func() any {
			if c.Phone == "" {
				return c.Email
			}
			return c.Email + " / " + c.Phone
		}, true
	}
	return nil, false
}

// Attr exposes order attributes to admin columns by name
func (o Order) Attr(name string) (any, bool) {
	switch name {
	case "id", "pk":
		return o.ID, true
	case "customer_id":
		return o.CustomerID, true
	case "customer":
		return o.Customer, true
	case "number":
		return o.Number, true
	case "total":
		return o.Total, true
	case "quantity":
		return o.Quantity, true
	case "paid":
		return o.Paid, true
	case "status":
		return o.Status, true
	case "note":
		return o.Note, true
	case "tags":
		return TagList(o.Tags), true
	case "channel":
		return o.Extra.Get("channel"), true
	case "created_at":
		return o.CreatedAt, true
	case "updated_at":
		return o.UpdatedAt, true
	case "unit_price":
		return func() any {
			if o.Quantity == 0 {
				return decimal.Zero
			}
			return o.Total.Div(decimal.NewFromInt(int64(o.Quantity))).Round(2)
		}, true
	}
	return nil, false
}

// Attr exposes tag attributes to admin columns by name
func (t Tag) Attr(name string) (any, bool) {
	switch name {
	case "id", "pk":
		return t.ID, true
	case "name":
		return t.Name, true
	}
	return nil, false
}

// TagList is the many-relation value of Order.Tags
type TagList []Tag

// All returns the related tags
func (l TagList) All() []any {
	items := make([]any, len(l))
	for i, t := range l {
		items[i] = t
	}
	return items
}
