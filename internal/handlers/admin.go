// admin.go
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

package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/gutils-admin/internal/listview"
	"github.com/localnerve/gutils-admin/internal/middleware"
	"github.com/localnerve/gutils-admin/internal/models"
)

// Admin holds the bundled admin views
type Admin struct {
	Customers *listview.Handler[models.Customer]
	Orders    *listview.Handler[models.Order]
}

// NewAdmin builds the bundled views over deps
func NewAdmin(deps listview.Deps) (*Admin, error) {
	customers, err := listview.NewHandler(CustomersView(), deps)
	if err != nil {
		return nil, fmt.Errorf("customers view: %w", err)
	}
	orders, err := listview.NewHandler(OrdersView(), deps)
	if err != nil {
		return nil, fmt.Errorf("orders view: %w", err)
	}
	return &Admin{Customers: customers, Orders: orders}, nil
}

// Permissions lists every permission the views check
func (a *Admin) Permissions() []string {
	return append(a.Customers.Permissions(), a.Orders.Permissions()...)
}

// Register mounts the views on router.
//
//	GET|POST /customers/                  customer list and actions
//	GET|POST /customers/edit              customer inline edit
//	GET|POST /customers/:pk/orders/       orders of a customer and actions
//	GET|POST /customers/:pk/orders/edit   order inline edit
func (a *Admin) Register(router fiber.Router) {
	customers := router.Group("/customers", middleware.ViewIdentity(a.Customers.View.Name))
	orders := router.Group("/customers/:pk/orders", middleware.ViewIdentity(a.Orders.View.Name))

	a.Customers.Register(customers, "/")
	a.Orders.Register(orders, "/")
}
