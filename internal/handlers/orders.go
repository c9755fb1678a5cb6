// orders.go
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

	"github.com/localnerve/gutils-admin/internal/columns"
	"github.com/localnerve/gutils-admin/internal/forms"
	"github.com/localnerve/gutils-admin/internal/listview"
	"github.com/localnerve/gutils-admin/internal/models"
	"github.com/localnerve/gutils-admin/internal/query"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderStatuses are the known order states
var OrderStatuses = []columns.Option{
	{Value: "new", Label: "New", Icon: "fa-inbox"},
	{Value: "shipped", Label: "Shipped", Icon: "fa-truck", Style: "green"},
	{Value: "cancelled", Label: "Cancelled", Icon: "fa-times", Style: "red"},
}

const tagged = "EXISTS (SELECT 1 FROM order_tags JOIN tags ON tags.id = order_tags.tag_id " +
	"WHERE order_tags.order_id = orders.id AND tags.name IN ?)"

// OrderFilter filters orders by number, status, payment, total and tags
func OrderFilter() *query.FilterForm {
	f := query.NewFilterForm(
		&forms.Field{Name: "number", Help: "Other filters are ignored", Input: forms.Text{MaxLength: 32}},
		&forms.Field{Name: "status", Input: forms.Select{Choices: statusChoices(OrderStatuses)}},
		&forms.Field{Name: "paid", Input: forms.NullBool{}},
		&forms.Field{Name: "total_min", Label: "Total from", Input: forms.Decimal{Places: 2}},
		&forms.Field{Name: "total_max", Label: "Total to", Input: forms.Decimal{Places: 2}},
		&forms.Field{Name: "tags", Help: "Comma separated tag names", Input: forms.Text{}},
		&forms.Field{Name: "created", Label: "Created between", Input: forms.DateRangeInput{}},
	)
	f.Rules = map[string]query.Rule{
		"number":    "number__iexact__important",
		"total_min": "total__gte",
		"total_max": "total__lte",
		"created":   "created_at__daterange",
	}
	f.Queries = map[string]query.Hook{
		"tags": func(cleaned map[string]any) clause.Expression {
			s, _ := cleaned["tags"].(string)
			names := parseList(s)
			if len(names) == 0 {
				return nil
			}
			return clause.Expr{SQL: tagged, Vars: []any{names}}
		},
	}
	return f
}

// OrdersView lists the orders of the customer named by the url
func OrdersView() *listview.View[models.Order] {
	return &listview.View[models.Order]{
		Name: "customer_orders",
		Columns: []columns.Decl{
			{Name: "number", Column: columns.Column{Kind: columns.Edit{}, Edit: true}},
			{Name: "status", Column: columns.Column{Kind: columns.Typed{Options: OrderStatuses, OnlyIcon: true}, Tooltip: "order status"}},
			{Name: "channel", Column: columns.Column{HeaderName: "Channel", Default: "-"}},
			{Name: "quantity", Column: columns.Column{Kind: columns.Integer{}, Edit: true}},
			{Name: "total", Column: columns.Column{Kind: columns.Decimal{Places: columns.Places(2), Colorize: true}, Edit: true}},
			{Name: "unit_price", Column: columns.Column{Kind: columns.Decimal{Places: columns.Places(2), DiscardZeros: true}, HeaderName: "Unit price"}},
			{Name: "paid", Column: columns.Column{Kind: columns.Bool{}, Edit: true}},
			{Name: "tags", Column: columns.Column{Kind: columns.ManyRelation{InnerField: "name", Separator: ", "}, Default: "-"}},
			{Name: "note", Column: columns.Column{Kind: columns.Text{StripTags: true}, Trim: 30, Edit: true}},
			{Name: "separator", Column: columns.Column{Kind: columns.Separator{Text: "|"}}},
			{Name: "created_at", Column: columns.Column{Kind: columns.DateTime{}}},
		},
		Parent: &listview.Parent{
			Load:   listview.LoadByPK[models.Customer](),
			Lookup: "customer_id",
			Details: []listview.Detail{
				{Label: "Customer", Field: "name"},
				{Label: "Contact", Field: "contact"},
				{Label: "Status", Field: "status"},
			},
		},
		Configure:          configureOrders,
		Filter:             OrderFilter,
		Preload:            []string{"Tags"},
		IndexHints:         []string{"idx_orders_customer_id"},
		DefaultSort:        []string{"-created_at", "-id"},
		AllowDelete:        true,
		AllowSelectColumns: true,
		Actions: map[string]listview.Action[models.Order]{
			"mark_paid": markPaid,
		},
		ListActions: []listview.ListAction{
			{Name: "mark_paid", Label: "Mark paid", Confirm: "Mark the selected orders as paid?"},
		},
	}
}

// configureOrders freezes the orders of blocked customers
func configureOrders(r *listview.Request[models.Order]) error {
	customer, ok := r.Parent.(*models.Customer)
	if !ok {
		return nil
	}
	if customer.Status != "blocked" {
		return nil
	}
	for _, name := range []string{"quantity", "total", "paid", "note"} {
		col, _ := r.Columns.Get(name)
		frozen := col.Column
		frozen.Edit = false
		if err := r.Columns.Replace(name, frozen, ""); err != nil {
			return err
		}
	}
	return r.Columns.Add("blocked", columns.Column{
		Kind:       columns.Separator{Icon: "fa fa-lock", Text: "blocked"},
		HeaderName: "Locked",
	}, columns.Before("number"))
}

// markPaid marks the selected orders of the current list as paid
func markPaid(r *listview.Request[models.Order]) error {
	if !r.CanEdit() {
		r.Flash(listview.LevelError, "You do not have permission to change these orders.")
		return nil
	}
	ids := r.IDs()
	if len(ids) == 0 {
		r.Flash(listview.LevelWarning, "No orders selected.")
		return nil
	}

	var updated int64
	err := r.DB().Transaction(func(tx *gorm.DB) error {
		db, ok, err := r.Records(tx)
		if err != nil || !ok {
			return err
		}
		orders := []models.Order{}
		if err := db.Where(clause.IN{Column: clause.PrimaryColumn, Values: anyOf(ids)}).Find(&orders).Error; err != nil {
			return err
		}
		if len(orders) == 0 {
			return nil
		}
		targets := make([]uint64, len(orders))
		for i, o := range orders {
			targets[i] = o.ID
		}
		res := tx.Model(&models.Order{}).Where("id IN ?", targets).Update("paid", true)
		updated = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return err
	}

	r.Log().Info("orders marked paid", zap.Int64("updated", updated))
	r.Flash(listview.LevelSuccess, fmt.Sprintf("%d marked paid.", updated))
	return nil
}
