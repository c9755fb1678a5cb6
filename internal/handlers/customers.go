// customers.go
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
)

// CustomerStatuses are the known customer states
var CustomerStatuses = []columns.Option{
	{Value: "active", Label: "Active", Icon: "fa-user", Style: "green"},
	{Value: "vip", Label: "VIP", Icon: "fa-star", Style: "orange"},
	{Value: "blocked", Label: "Blocked", Icon: "fa-ban", Style: "red"},
}

func statusChoices(options []columns.Option) []forms.Choice {
	choices := []forms.Choice{{Value: "", Label: "---------"}}
	for _, o := range options {
		choices = append(choices, forms.Choice{Value: o.Value, Label: o.Label})
	}
	return choices
}

// CustomerFilter filters customers by name, email, phone, status and signup date
func CustomerFilter() *query.FilterForm {
	f := query.NewFilterForm(
		&forms.Field{Name: "name", Input: forms.Text{MaxLength: 255}},
		&forms.Field{Name: "email", Input: forms.Text{MaxLength: 255}},
		&forms.Field{Name: "phone", Input: forms.Text{MaxLength: 32}},
		&forms.Field{Name: "status", Input: forms.Select{Choices: statusChoices(CustomerStatuses)}},
		&forms.Field{Name: "not_status", Label: "Exclude status", Input: forms.Select{Choices: statusChoices(CustomerStatuses)}},
		&forms.Field{Name: "active", Input: forms.NullBool{}},
		&forms.Field{Name: "created", Label: "Created between", Input: forms.DateRangeInput{}},
		&forms.Field{Name: "id", Label: "ID", Help: "Other filters are ignored", Input: forms.IntList{}},
	)
	f.Rules = map[string]query.Rule{
		"name":       "name__icontains",
		"email":      "email__icontains",
		"phone":      "phone__strip",
		"not_status": "~status",
		"created":    "created_at__daterange",
		"id":         "id__in__important",
	}
	return f
}

func customerStatusForm() *forms.Form {
	return forms.New(&forms.Field{
		Name:     "status",
		Required: true,
		Input:    forms.Select{Choices: statusChoices(CustomerStatuses)[1:]},
	})
}

// CustomersView lists customers
func CustomersView() *listview.View[models.Customer] {
	return &listview.View[models.Customer]{
		Name:  "customers",
		Title: "Customers",
		Columns: []columns.Decl{
			{Name: "id", Column: columns.Column{Kind: columns.Edit{}, HeaderName: "#"}},
			{Name: "name", Column: columns.Column{Edit: true, Trim: 40, TooltipField: "email"}},
			{Name: "email", Column: columns.Column{Edit: true, Kind: columns.URL{Href: "mailto:%v", Args: []string{"email"}}}},
			{Name: "contact", Column: columns.Column{
				Kind:       columns.Multi{Fields: []string{"email", "phone"}, Separator: " / "},
				HeaderName: "Contact",
				Default:    "-",
			}},
			{Name: "status", Column: columns.Column{Kind: columns.Typed{Options: CustomerStatuses}, EditForm: customerStatusForm}},
			{Name: "active", Column: columns.Column{Edit: true, Kind: columns.Bool{}}},
			{Name: "discount", Column: columns.Column{Edit: true, Kind: columns.Percent{}}},
			{Name: "created_at", Column: columns.Column{Kind: columns.DateTime{Short: true}}},
			{Name: "orders", Column: columns.Column{
				Kind:       columns.URL{Href: "%v/orders/", Icon: "fa-list", Text: "orders"},
				HeaderName: "Orders",
				Value:      func(any) any { return "orders" },
			}},
		},
		Filter:             CustomerFilter,
		DefaultSort:        []string{"name"},
		AllowDelete:        true,
		AllowSelectColumns: true,
		SaveQuery:          true,
		EditURL: func(c *models.Customer) string {
			return fmt.Sprintf("%d/orders/", c.ID)
		},
	}
}
