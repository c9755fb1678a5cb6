// data.go
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

package helpers

import (
	"fmt"
	"testing"

	"github.com/localnerve/gutils-admin/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Shop is the seeded demo data
type Shop struct {
	Customers []models.Customer
	Orders    []models.Order
	Tags      []models.Tag
}

// SeedShop creates customers with orders orders each, the first customer has none
func SeedShop(t *testing.T, db *gorm.DB, customers, orders int) *Shop {
	t.Helper()
	shop := &Shop{
		Tags: []models.Tag{{Name: "gift"}, {Name: "express"}},
	}
	if err := db.Create(&shop.Tags).Error; err != nil {
		t.Fatalf("Failed to create tags: %v", err)
	}

	for i := 0; i < customers; i++ {
		c := models.Customer{
			Name:   fmt.Sprintf("Customer %02d", i),
			Email:  fmt.Sprintf("customer%02d@example.com", i),
			Status: "active",
			Active: true,
		}
		if err := db.Create(&c).Error; err != nil {
			t.Fatalf("Failed to create customer: %v", err)
		}
		shop.Customers = append(shop.Customers, c)
		if i == 0 {
			continue
		}

		for j := 0; j < orders; j++ {
			o := models.Order{
				CustomerID: c.ID,
				Number:     fmt.Sprintf("%02d-%03d", i, j),
				Total:      decimal.NewFromInt(int64(10 * (j + 1))),
				Quantity:   j + 1,
				Status:     "new",
				Tags:       shop.Tags[j%2 : j%2+1],
			}
			if err := db.Create(&o).Error; err != nil {
				t.Fatalf("Failed to create order: %v", err)
			}
			shop.Orders = append(shop.Orders, o)
		}
	}
	return shop
}
