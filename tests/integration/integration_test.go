// integration_test.go
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

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/localnerve/gutils-admin/internal/config"
	"github.com/localnerve/gutils-admin/internal/database"
	"github.com/localnerve/gutils-admin/internal/handlers"
	"github.com/localnerve/gutils-admin/internal/listview"
	"github.com/localnerve/gutils-admin/internal/models"
	"github.com/localnerve/gutils-admin/internal/render"
	"github.com/localnerve/gutils-admin/internal/selection"
	"github.com/localnerve/gutils-admin/internal/services"
	"github.com/localnerve/gutils-admin/internal/types"
	"github.com/localnerve/gutils-admin/internal/utils"
	"github.com/localnerve/gutils-admin/tests/helpers"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var superuser = &types.User{
	ID:    "9b2e7c44-1f5a-4d0e-8b7c-2a6f3e1d5c90",
	Email: "admin@example.com",
	Roles: []string{"admin"},
}

type listPage struct {
	Messages []listview.Message `json:"messages"`
	Columns  []struct {
		Name string `json:"name"`
	} `json:"columns"`
	Rows []struct {
		PK string `json:"pk"`
	} `json:"rows"`
	Page struct {
		Number     int   `json:"number"`
		TotalPages int   `json:"totalPages"`
		Total      int64 `json:"total"`
	} `json:"page"`
}

type client struct {
	t      *testing.T
	app    *fiber.App
	cookie string
}

func (c *client) do(req *http.Request) *http.Response {
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}
	resp, err := c.app.Test(req, -1)
	if err != nil {
		c.t.Fatalf("Failed to execute request: %v", err)
	}
	if cookie := helpers.SessionCookie(resp, "session_id"); cookie != nil {
		c.cookie = cookie.Name + "=" + cookie.Value
	}
	return resp
}

func (c *client) page(target string) listPage {
	resp := c.do(httptest.NewRequest(fiber.MethodGet, target, nil))
	helpers.AssertStatus(c.t, resp, http.StatusOK)
	var p listPage
	helpers.ParseJSON(c.t, resp, &p)
	return p
}

func (c *client) post(target string, form url.Values) *http.Response {
	req := httptest.NewRequest(fiber.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	return c.do(req)
}

func newClient(t *testing.T, db *gorm.DB) *client {
	engine, err := render.New()
	if err != nil {
		t.Fatalf("Failed to load templates: %v", err)
	}
	admin, err := handlers.NewAdmin(listview.Deps{
		DB:       db,
		Store:    selection.NewGormStore(db, zap.NewNop()),
		Render:   engine,
		Perms:    &services.Permissions{Superuser: "admin"},
		Sessions: session.New(),
		Log:      zap.NewNop(),
		PerPage:  5,
		App:      "shop",
	})
	if err != nil {
		t.Fatalf("Failed to build admin views: %v", err)
	}

	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler(nil)})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(types.LocalsUser, superuser)
		return c.Next()
	})
	admin.Register(app.Group("/admin"))
	return &client{t: t, app: app}
}

// TestWithMariaDB runs the admin views against a real MariaDB container
func TestWithMariaDB(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	container, cfg, err := helpers.StartMariaDB(ctx, t, "")
	if container != nil {
		defer func() {
			if err := container.Terminate(ctx); err != nil {
				t.Logf("Failed to terminate MariaDB container: %v", err)
			}
		}()
	}
	if err != nil {
		t.Fatalf("Failed to start MariaDB: %v", err)
	}

	db, err := database.Connect(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	shop := helpers.SeedShop(t, db, 8, 3)

	t.Run("Pagination", func(t *testing.T) {
		testPagination(t, db)
	})

	t.Run("OrdersUseIndexHint", func(t *testing.T) {
		testOrdersOfCustomer(t, db, shop)
	})

	t.Run("ColumnSelection", func(t *testing.T) {
		testColumnSelection(t, db)
	})

	t.Run("ForeignKeyConflict", func(t *testing.T) {
		testForeignKeyConflict(t, db, shop)
	})

	t.Run("DeleteWithConflicts", func(t *testing.T) {
		testDeleteWithConflicts(t, db, shop)
	})

	t.Run("HealthCheck", func(t *testing.T) {
		testHealthCheck(t, cfg, db)
	})
}

func testPagination(t *testing.T, db *gorm.DB) {
	c := newClient(t, db)

	p := c.page("/admin/customers/?format=json")
	if p.Page.Total != 8 || p.Page.TotalPages != 2 {
		t.Fatalf("Expected 8 customers on 2 pages, got %d on %d", p.Page.Total, p.Page.TotalPages)
	}
	if len(p.Rows) != 5 {
		t.Errorf("Expected 5 rows, got %d", len(p.Rows))
	}

	p = c.page("/admin/customers/?format=json&page=last")
	if p.Page.Number != 2 || len(p.Rows) != 3 {
		t.Errorf("Expected 3 rows on page 2, got %d on page %d", len(p.Rows), p.Page.Number)
	}
}

func testOrdersOfCustomer(t *testing.T, db *gorm.DB, shop *helpers.Shop) {
	c := newClient(t, db)
	customer := shop.Customers[1]

	p := c.page(fmt.Sprintf("/admin/customers/%d/orders/?format=json", customer.ID))
	if p.Page.Total != 3 {
		t.Fatalf("Expected 3 orders, got %d", p.Page.Total)
	}

	p = c.page(fmt.Sprintf("/admin/customers/%d/orders/?format=json&tags=express&total_min=15", customer.ID))
	if len(p.Rows) != 1 {
		t.Fatalf("Expected 1 tagged order, got %d", len(p.Rows))
	}
}

func testColumnSelection(t *testing.T, db *gorm.DB) {
	c := newClient(t, db)

	resp := c.post("/admin/customers/", url.Values{
		"_action": {"select_columns"},
		"columns": {"email", "name", "bogus"},
	})
	helpers.AssertStatus(t, resp, http.StatusFound)

	p := c.page("/admin/customers/?format=json")
	names := []string{}
	for _, col := range p.Columns {
		names = append(names, col.Name)
	}
	if strings.Join(names, ",") != "name,email" {
		t.Errorf("Expected selected columns name,email, got %v", names)
	}

	var conf models.AdminViewConf
	if err := db.Where("user_id = ? AND view_name = ?", superuser.ID, "customers").First(&conf).Error; err != nil {
		t.Fatalf("Expected a stored selection: %v", err)
	}
	if got := conf.ColumnNames(); len(got) != 2 {
		t.Errorf("Expected 2 stored columns, got %v", got)
	}

	c.post("/admin/customers/", url.Values{"_action": {"select_columns"}})
	if err := db.Where("user_id = ?", superuser.ID).First(&models.AdminViewConf{}).Error; err == nil {
		t.Error("Expected the empty selection to remove the stored one")
	}
}

func testForeignKeyConflict(t *testing.T, db *gorm.DB, shop *helpers.Shop) {
	customer := shop.Customers[2]
	err := db.Session(&gorm.Session{SkipHooks: true}).Delete(&customer).Error
	if err == nil {
		t.Fatal("Expected the orders foreign key to block the delete")
	}
	if !listview.IsConflict(err) {
		t.Errorf("Expected a conflict, got: %v", err)
	}
}

func testDeleteWithConflicts(t *testing.T, db *gorm.DB, shop *helpers.Shop) {
	c := newClient(t, db)
	empty, busy := shop.Customers[0], shop.Customers[3]

	resp := c.post("/admin/customers/", url.Values{
		"_action": {"delete"},
		"ids":     {fmt.Sprint(empty.ID), fmt.Sprint(busy.ID)},
	})
	helpers.AssertStatus(t, resp, http.StatusFound)

	p := c.page("/admin/customers/?format=json")
	if len(p.Messages) != 2 {
		t.Fatalf("Expected 2 messages, got %+v", p.Messages)
	}
	if !strings.Contains(p.Messages[0].Text, "Impossible delete "+busy.Name) {
		t.Errorf("Unexpected conflict message: %s", p.Messages[0].Text)
	}
	if p.Messages[1].Text != "1 deleted." {
		t.Errorf("Unexpected result message: %s", p.Messages[1].Text)
	}

	var count int64
	db.Model(&models.Customer{}).Where("id IN ?", []uint64{empty.ID, busy.ID}).Count(&count)
	if count != 1 {
		t.Errorf("Expected only the customer with orders to remain, got %d", count)
	}

	// orders delete with their tag links
	order := shop.Orders[len(shop.Orders)-1]
	resp = c.post(fmt.Sprintf("/admin/customers/%d/orders/", order.CustomerID), url.Values{
		"_action": {"delete"},
		"ids":     {fmt.Sprint(order.ID)},
	})
	helpers.AssertStatus(t, resp, http.StatusFound)
	if err := db.First(&models.Order{}, order.ID).Error; err == nil {
		t.Error("Expected the order to be deleted")
	}
}

func testHealthCheck(t *testing.T, cfg *config.Config, db *gorm.DB) {
	checked := *cfg
	checked.AuthzURL = "http://localhost:9999"

	result := services.HealthCheck(&checked, db, zap.NewNop())
	if result.Database != "ok" {
		t.Errorf("Expected database to be ok, got: %s", result.Database)
	}
	if result.Authorizer != "unreachable" {
		t.Errorf("Expected authorizer to be unreachable, got: %s", result.Authorizer)
	}
	if result.Healthy() {
		t.Error("Expected status to be unhealthy")
	}

	out, _ := json.Marshal(result)
	t.Logf("health: %s", out)
}
