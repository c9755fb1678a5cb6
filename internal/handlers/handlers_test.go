// handlers_test.go
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
	"github.com/localnerve/gutils-admin/internal/listview"
	"github.com/localnerve/gutils-admin/internal/models"
	"github.com/localnerve/gutils-admin/internal/render"
	"github.com/localnerve/gutils-admin/internal/selection"
	"github.com/localnerve/gutils-admin/internal/services"
	"github.com/localnerve/gutils-admin/internal/types"
	"github.com/localnerve/gutils-admin/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	superuser = &types.User{ID: "3f2b8c1d-5e6a-4f7b-8c9d-0a1b2c3d4e5f", Roles: []string{"admin"}}
	clerk     = &types.User{ID: "9a7c5e3b-1d2f-4a6b-8c0d-e1f2a3b4c5d6", Roles: []string{"clerk"}}
)

type listPage struct {
	Messages []listview.Message `json:"messages"`
	Columns  []struct {
		Name string `json:"name"`
	} `json:"columns"`
	Rows []struct {
		PK    string `json:"pk"`
		Cells []struct {
			Name string `json:"name"`
			HTML string `json:"html"`
		} `json:"cells"`
	} `json:"rows"`
}

func (p listPage) cell(row int, name string) string {
	for _, c := range p.Rows[row].Cells {
		if c.Name == name {
			return c.HTML
		}
	}
	return ""
}

func newAdminApp(t *testing.T) (*fiber.App, *gorm.DB, *Admin) {
	return newAdminAppFor(t, superuser)
}

func newAdminAppFor(t *testing.T, user *types.User) (*fiber.App, *gorm.DB, *Admin) {
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	engine, err := render.New()
	require.NoError(t, err)

	perms := &services.Permissions{
		Superuser: "admin",
		Roles:     map[string][]string{"clerk": {"shop.view_customer", "shop.view_order"}},
	}
	admin, err := NewAdmin(listview.Deps{
		DB:       db,
		Store:    selection.NewGormStore(db, zap.NewNop()),
		Render:   engine,
		Perms:    perms,
		Sessions: session.New(),
		Log:      zap.NewNop(),
		App:      "shop",
	})
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler(nil)})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(types.LocalsUser, user)
		return c.Next()
	})
	health := &HealthHandler{Cfg: &config.Config{DBType: "sqlite", DBAppDatabase: "memory"}, DB: db, Log: zap.NewNop()}
	app.Get("/health", health.Health)
	admin.Register(app.Group("/admin"))
	return app, db, admin
}

func getPage(t *testing.T, app *fiber.App, target string) listPage {
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, target, nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var p listPage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	return p
}

func postForm(t *testing.T, app *fiber.App, target string, form url.Values) *http.Response {
	req := httptest.NewRequest(fiber.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func seedShop(t *testing.T, db *gorm.DB) ([]models.Customer, []models.Order) {
	tags := []models.Tag{{Name: "gift"}, {Name: "express"}}
	require.NoError(t, db.Create(&tags).Error)

	customers := []models.Customer{
		{Name: "Ada", Email: "ada@example.com", Status: "active", Active: true},
		{Name: "Bob", Email: "bob@example.com", Status: "blocked"},
	}
	require.NoError(t, db.Create(&customers).Error)

	orders := []models.Order{
		{CustomerID: customers[0].ID, Number: "A-1", Total: decimal.NewFromInt(30), Quantity: 3, Status: "new", Tags: tags[:1],
			Extra: models.JSON{JSON: datatypes.JSON(`{"channel":"web"}`)}},
		{CustomerID: customers[0].ID, Number: "A-2", Total: decimal.NewFromInt(5), Quantity: 1, Status: "shipped", Tags: tags},
		{CustomerID: customers[1].ID, Number: "B-1", Total: decimal.NewFromInt(12), Quantity: 2, Status: "new"},
	}
	require.NoError(t, db.Create(&orders).Error)
	return customers, orders
}

func TestCustomerListFilters(t *testing.T) {
	app, db, _ := newAdminApp(t)
	customers, _ := seedShop(t, db)

	require.NoError(t, db.Model(&customers[1]).Update("phone", "555-0101").Error)

	p := getPage(t, app, "/admin/customers/?format=json")
	require.Len(t, p.Rows, 2)
	assert.Contains(t, p.cell(0, "id"), `href="1/orders/"`)
	assert.Equal(t, "ada@example.com", p.cell(0, "contact"))
	assert.Equal(t, "bob@example.com / 555-0101", p.cell(1, "contact"))
	assert.Contains(t, p.cell(0, "email"), `href="mailto:ada@example.com"`)

	p = getPage(t, app, "/admin/customers/?format=json&not_status=blocked")
	require.Len(t, p.Rows, 1)
	assert.Equal(t, fmt.Sprint(customers[0].ID), p.Rows[0].PK)

	// the id filter replaces every other criterion
	p = getPage(t, app, fmt.Sprintf("/admin/customers/?format=json&name=ada&id=%d", customers[1].ID))
	require.Len(t, p.Rows, 1)
	assert.Equal(t, fmt.Sprint(customers[1].ID), p.Rows[0].PK)
}

func TestCustomerStatusEditUsesSelect(t *testing.T) {
	app, db, _ := newAdminApp(t)
	customers, _ := seedShop(t, db)
	id := fmt.Sprint(customers[0].ID)

	resp := postForm(t, app, "/admin/customers/edit", url.Values{"id": {id}, "_column": {"status"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out utils.EditResponseStruct
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, out.Success)
	assert.Contains(t, out.Content, "<select")

	resp = postForm(t, app, "/admin/customers/edit", url.Values{"id": {id}, "_column": {"status"}, "_save": {"1"}, "status": {"gone"}})
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.False(t, out.Success)

	resp = postForm(t, app, "/admin/customers/edit", url.Values{"id": {id}, "_column": {"status"}, "_save": {"1"}, "status": {"vip"}})
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, out.Success)
	assert.Contains(t, out.Content, "VIP")
}

func TestOrdersOfCustomer(t *testing.T) {
	app, db, _ := newAdminApp(t)
	customers, _ := seedShop(t, db)

	p := getPage(t, app, fmt.Sprintf("/admin/customers/%d/orders/?format=json", customers[0].ID))
	require.Len(t, p.Rows, 2)
	assert.Contains(t, p.cell(0, "number"), "A-2")
	assert.Equal(t, "gift, express", p.cell(0, "tags"))
	assert.Equal(t, `<span class="green">30.00</span>`, p.cell(1, "total"))
	assert.Equal(t, "10", p.cell(1, "unit_price"))
	assert.Equal(t, "web", p.cell(1, "channel"))
	assert.Equal(t, "-", p.cell(0, "channel"))

	p = getPage(t, app, fmt.Sprintf("/admin/customers/%d/orders/?format=json&tags=express", customers[0].ID))
	require.Len(t, p.Rows, 1)
	assert.Contains(t, p.cell(0, "number"), "A-2")
}

func TestOrderWithoutTagsShowsDefault(t *testing.T) {
	app, db, _ := newAdminApp(t)
	customers, _ := seedShop(t, db)

	p := getPage(t, app, fmt.Sprintf("/admin/customers/%d/orders/?format=json", customers[1].ID))
	require.Len(t, p.Rows, 1)
	assert.Equal(t, "-", p.cell(0, "tags"))
}

func TestOrderBlankQuantityIsInvalid(t *testing.T) {
	app, db, _ := newAdminApp(t)
	customers, orders := seedShop(t, db)

	resp := postForm(t, app, fmt.Sprintf("/admin/customers/%d/orders/edit", customers[0].ID), url.Values{
		"id": {fmt.Sprint(orders[0].ID)}, "_column": {"quantity"}, "_save": {"1"}, "quantity": {""},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out utils.EditResponseStruct
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.False(t, out.Success)
	assert.Contains(t, out.Content, "has-error")

	var stored models.Order
	require.NoError(t, db.First(&stored, orders[0].ID).Error)
	assert.Equal(t, 3, stored.Quantity)
}

func TestBlockedCustomerOrdersAreLocked(t *testing.T) {
	app, db, _ := newAdminApp(t)
	customers, orders := seedShop(t, db)

	p := getPage(t, app, fmt.Sprintf("/admin/customers/%d/orders/?format=json", customers[1].ID))
	require.NotEmpty(t, p.Columns)
	assert.Equal(t, "blocked", p.Columns[0].Name)

	resp := postForm(t, app, fmt.Sprintf("/admin/customers/%d/orders/edit", customers[1].ID), url.Values{
		"id": {fmt.Sprint(orders[2].ID)}, "_column": {"paid"},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMarkPaid(t *testing.T) {
	app, db, _ := newAdminApp(t)
	customers, orders := seedShop(t, db)

	resp := postForm(t, app, fmt.Sprintf("/admin/customers/%d/orders/", customers[0].ID), url.Values{
		"_action": {"mark_paid"},
		"ids":     {fmt.Sprint(orders[0].ID), fmt.Sprint(orders[2].ID)},
	})
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	var paid []string
	require.NoError(t, db.Model(&models.Order{}).Where("paid = ?", true).Pluck("number", &paid).Error)
	assert.Equal(t, []string{"A-1"}, paid)
}

func TestMarkPaidNeedsEditPermission(t *testing.T) {
	app, db, _ := newAdminAppFor(t, clerk)
	customers, orders := seedShop(t, db)

	resp := postForm(t, app, fmt.Sprintf("/admin/customers/%d/orders/", customers[0].ID), url.Values{
		"_action": {"mark_paid"},
		"ids":     {fmt.Sprint(orders[0].ID)},
	})
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	var paid int64
	require.NoError(t, db.Model(&models.Order{}).Where("paid = ?", true).Count(&paid).Error)
	assert.Zero(t, paid)
}

func TestAdminPermissions(t *testing.T) {
	_, _, admin := newAdminApp(t)
	assert.ElementsMatch(t, []string{
		"shop.view_customer", "shop.edit_customer",
		"shop.view_order", "shop.edit_order",
	}, admin.Permissions())
}

func TestHealth(t *testing.T) {
	app, _, _ := newAdminApp(t)
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result services.HealthCheckResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "ok", result.Database)
	assert.Equal(t, "disabled", result.Authorizer)
}

func TestParseList(t *testing.T) {
	assert.Equal(t, []string{"gift", "express"}, parseList(" gift, ,express,gift "))
	assert.Empty(t, parseList(""))
}
