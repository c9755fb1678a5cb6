// columns_test.go
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

package columns_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/localnerve/gutils-admin/internal/columns"
	"github.com/localnerve/gutils-admin/internal/models"
	"github.com/localnerve/gutils-admin/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

func customerEnv(t *testing.T) *columns.Env {
	db := &gorm.DB{Config: &gorm.Config{NamingStrategy: schema.NamingStrategy{}}}
	meta, err := columns.ParseMeta(db, &models.Customer{})
	require.NoError(t, err)
	return columns.NewEnv(meta, "en")
}

func names(list []*columns.Bound) []string {
	out := make([]string, len(list))
	for i, b := range list {
		out[i] = b.Name
	}
	return out
}

func TestRegistryKeepsDeclarationOrder(t *testing.T) {
	decls := []columns.Decl{}
	want := []string{}
	for i := 0; i < 20; i++ {
		name := fmt.Sprintf("c%02d", 19-i)
		decls = append(decls, columns.Decl{Name: name})
		want = append(want, name)
	}

	r := columns.NewRegistry(nil, decls, nil)
	assert.Equal(t, want, r.Names())
	assert.Equal(t, want, names(r.Columns()))
}

func TestRegistryExplicitIndexAndExclusions(t *testing.T) {
	r := columns.NewRegistry(nil, []columns.Decl{
		{Name: "a"},
		{Name: "b"},
		{Name: "c", Column: columns.Column{Index: 1}},
		{Name: "d"},
	}, []string{"d"})

	assert.Equal(t, []string{"a", "c", "b"}, r.Names())
	_, ok := r.Get("d")
	assert.False(t, ok)
}

func TestRegistryMutations(t *testing.T) {
	r := columns.NewRegistry(nil, []columns.Decl{{Name: "a"}, {Name: "b"}, {Name: "c"}}, nil)

	require.NoError(t, r.Add("x", columns.Column{}, columns.After("a")))
	assert.Equal(t, []string{"a", "x", "b", "c"}, r.Names())

	require.NoError(t, r.Add("y", columns.Column{}, columns.Before("a")))
	assert.Equal(t, []string{"y", "a", "x", "b", "c"}, r.Names())

	require.NoError(t, r.Add("z", columns.Column{}))
	assert.Equal(t, []string{"y", "a", "x", "b", "c", "z"}, r.Names())

	require.NoError(t, r.Replace("b", columns.Column{VerboseName: "Bee"}, "bee"))
	assert.Equal(t, []string{"y", "a", "x", "bee", "c", "z"}, r.Names())
	bee, ok := r.Get("bee")
	require.True(t, ok)
	assert.Equal(t, "Bee", bee.Header)
	assert.Equal(t, "bee", bee.Field)
	_, ok = r.Get("b")
	assert.False(t, ok)

	require.NoError(t, r.Delete("x"))
	assert.Equal(t, []string{"y", "a", "bee", "c", "z"}, r.Names())
	assert.Len(t, r.Columns(), r.Len())

	err := r.Add("w", columns.Column{}, columns.After("missing"))
	assert.True(t, errors.Is(err, types.ErrColumnNotFound))
	assert.True(t, errors.Is(r.Delete("missing"), types.ErrColumnNotFound))
	assert.True(t, errors.Is(r.Replace("missing", columns.Column{}, ""), types.ErrColumnNotFound))
	assert.True(t, errors.Is(r.Replace("a", columns.Column{}, "c"), types.ErrColumnExists))
	assert.Equal(t, []string{"y", "a", "bee", "c", "z"}, r.Names())
}

func TestRegistrySelectKeepsDeclaredOrder(t *testing.T) {
	r := columns.NewRegistry(nil, []columns.Decl{{Name: "A"}, {Name: "B"}, {Name: "C"}, {Name: "D"}}, nil)

	assert.Equal(t, []string{"A", "C"}, names(r.Select([]string{"C", "A"})))
	assert.Equal(t, []string{"A", "B", "C", "D"}, names(r.Select(nil)))
	assert.Equal(t, []string{"B"}, r.Known([]string{"nope", "B"}))
	assert.Empty(t, r.Known(nil))
}

func TestBindResolvesModelMetadata(t *testing.T) {
	env := customerEnv(t)
	r := columns.NewRegistry(env, []columns.Decl{
		{Name: "name", Column: columns.Column{Edit: true}},
		{Name: "active", Column: columns.Column{Kind: columns.Bool{}}},
		{Name: "status", Column: columns.Column{Sort: columns.NoSort}},
		{Name: "contact"},
	}, nil)

	name, _ := r.Get("name")
	assert.Equal(t, "Name", name.VerboseName)
	assert.Equal(t, "name", name.Sort)
	assert.True(t, name.Editable)
	assert.Equal(t, "str col-editable", name.StyleClass())
	assert.Equal(t, "name", name.CellAttrs()["data-column"])

	active, _ := r.Get("active")
	assert.Equal(t, "A", active.Header)
	assert.Equal(t, "bool", active.StyleClass())
	assert.False(t, active.Editable)

	status, _ := r.Get("status")
	assert.False(t, status.Sortable())

	contact, _ := r.Get("contact")
	assert.Equal(t, "", contact.VerboseName)
	assert.False(t, contact.Sortable())

	assert.Equal(t, []string{"name", "active"}, r.SortKeys())
}

func TestResolve(t *testing.T) {
	order := models.Order{
		Number:   "A-1",
		Quantity: 4,
		Total:    decimal.RequireFromString("10"),
		Customer: models.Customer{Name: "Ada", Email: "ada@example.com", Phone: "555"},
		Tags:     []models.Tag{{Name: "gift"}, {Name: "rush"}},
	}

	v, ok := columns.Resolve(order, "customer.name")
	assert.True(t, ok)
	assert.Equal(t, "Ada", v)

	v, ok = columns.Resolve(order, "customer.contact")
	assert.True(t, ok)
	assert.Equal(t, "ada@example.com / 555", v)

	v, ok = columns.Resolve(order, "unit_price")
	assert.True(t, ok)
	assert.Equal(t, "2.5", v.(decimal.Decimal).String())

	v, ok = columns.Resolve(order, "tags")
	assert.True(t, ok)
	assert.Len(t, v.(columns.Lister).All(), 2)

	_, ok = columns.Resolve(order, "customer.missing")
	assert.False(t, ok)
	_, ok = columns.Resolve(42, "anything")
	assert.False(t, ok)
}

func render(c columns.Column, name string, item any) string {
	return string(columns.Bind(c, name, nil).Render(item))
}

func TestDisplayKinds(t *testing.T) {
	customer := models.Customer{ID: 7, Name: "<b>Ada</b> Lovelace", Discount: 0, Active: true}
	order := models.Order{
		ID:       3,
		Number:   "A-1",
		Total:    decimal.RequireFromString("-1234.5"),
		Paid:     true,
		Status:   "shipped",
		Tags:     []models.Tag{{Name: "gift"}, {Name: "<rush>"}},
		Customer: customer,
	}

	assert.Equal(t, "&lt;b&gt;Ada&lt;/b&gt; Lovelace", render(columns.Column{}, "name", customer))
	assert.Equal(t, "0", render(columns.Column{Kind: columns.Integer{}}, "discount", customer))
	assert.Equal(t, "-", render(columns.Column{Kind: columns.Integer{}, Default: "-"}, "discount", customer))
	assert.Equal(t, "-1,234.50", render(columns.Column{Kind: columns.Decimal{}}, "total", order))
	assert.Equal(t, `<span class="red">-1,234</span>`,
		render(columns.Column{Kind: columns.Decimal{Places: columns.Places(0), DiscardZeros: true, Colorize: true}, Field: "total"}, "t",
			models.Order{Total: decimal.RequireFromString("-1234")}))
	assert.Equal(t, `<span class="fa fa-check-circle green"></span>`, render(columns.Column{Kind: columns.Bool{}}, "paid", order))
	assert.Equal(t, "gift<br/>&lt;rush&gt;", render(columns.Column{Kind: columns.ManyRelation{}}, "tags", order))
	assert.Equal(t, "gift, &lt;rush&gt;",
		render(columns.Column{Kind: columns.ManyRelation{InnerField: "name", Separator: ", "}}, "tags", order))
	assert.Equal(t, "A-1, shipped", render(columns.Column{Kind: columns.Multi{Fields: []string{"number", "note", "status"}}}, "m", order))
	assert.Equal(t, `<span class="green"><span class="fa fa-truck" title="Shipped"></span> Shipped</span>`,
		render(columns.Column{Kind: columns.Typed{Options: []columns.Option{{Value: "shipped", Label: "Shipped", Icon: "fa-truck", Style: "green"}}}}, "status", order))
	assert.Equal(t, `<span class="red">5%</span>`, render(columns.Column{Kind: columns.Percent{}, Field: "quantity"}, "q", models.Order{Quantity: 5}))
	assert.Equal(t, `<a class="url popup" href="/admin/customers/7/orders/" title="Orders">Ada Lovelace</a>`,
		render(columns.Column{Kind: columns.URL{Href: "/admin/customers/%v/orders/", Popup: true}, VerboseName: "Orders"}, "name", customer))
	assert.Equal(t, "Ada", render(columns.Column{Kind: columns.NewTemplate(`{{ .item.Name | trunc 3 }}`)}, "tpl", models.Customer{Name: "Ada Lovelace"}))
}

func TestDisplayDefaultFillsEmptyCells(t *testing.T) {
	empty := models.Order{Number: "B-1"}

	assert.Equal(t, "-", render(columns.Column{Default: "-"}, "channel", empty))
	assert.Equal(t, "", render(columns.Column{}, "channel", empty))
	assert.Equal(t, "-", render(columns.Column{Kind: columns.ManyRelation{InnerField: "name"}, Default: "-"}, "tags", empty))
	assert.Equal(t, "n/a", render(columns.Column{Kind: columns.Multi{Fields: []string{"note"}}, Default: "n/a"}, "m", empty))
	assert.Equal(t, "-", render(columns.Column{Kind: columns.DateTime{}, Default: "-"}, "created_at", empty))
	assert.Equal(t, "&lt;none&gt;", render(columns.Column{Kind: columns.Text{}, Default: "<none>"}, "note", empty))
	assert.Equal(t, "-", render(columns.Column{Kind: columns.Template{}, Default: "-"}, "tpl", empty))
	assert.Equal(t, "", render(columns.Column{Kind: columns.Template{}}, "tpl", empty))

	// values are never replaced
	assert.Equal(t, "B-1", render(columns.Column{Default: "-"}, "number", empty))
}

func TestDisplayDecimalPrecision(t *testing.T) {
	wide := models.Order{Total: decimal.RequireFromString("12345678901234567.891")}
	assert.Equal(t, "12,345,678,901,234,567.89", render(columns.Column{Kind: columns.Decimal{}}, "total", wide))
	assert.Equal(t, "12,345,678,901,234,568", render(columns.Column{Kind: columns.Decimal{Places: columns.Places(0)}}, "total", wide))

	half := models.Order{Total: decimal.RequireFromString("2.5")}
	assert.Equal(t, "3", render(columns.Column{Kind: columns.Decimal{Places: columns.Places(0)}}, "total", half))
	assert.Equal(t, "2.500", render(columns.Column{Kind: columns.Decimal{Places: columns.Places(3)}}, "total", half))
	assert.Equal(t, "+2.50", render(columns.Column{Kind: columns.Decimal{Sign: true}}, "total", half))

	de := columns.Bind(columns.Column{Kind: columns.Decimal{}}, "total", columns.NewEnv(nil, "de"))
	assert.Equal(t, "-1.234,50", string(de.Render(models.Order{Total: decimal.RequireFromString("-1234.5")})))

	env := &columns.Env{}
	assert.Equal(t, "1,000.10", env.FormatDecimal(decimal.RequireFromString("1000.1"), 2))
}

func TestDisplayTrimIsPerCall(t *testing.T) {
	b := columns.Bind(columns.Column{Trim: 5}, "note", nil)

	long := string(b.Render(models.Order{Note: "<i>abcdefgh</i>"}))
	assert.True(t, strings.HasPrefix(long, `<span title="abcdefgh">abcde `), long)

	short := string(b.Render(models.Order{Note: "x<y"}))
	assert.Equal(t, "x&lt;y", short)
}

func TestDisplayDateTime(t *testing.T) {
	created := time.Date(2024, 1, 31, 13, 45, 0, 0, time.UTC)
	c := models.Customer{CreatedAt: created}

	assert.Equal(t, "2024-01-31 13:45", render(columns.Column{Kind: columns.DateTime{}}, "created_at", c))
	assert.Equal(t, `<span title="2024-01-31 13:45">2024-01-31</span>`, render(columns.Column{Kind: columns.DateTime{Short: true}}, "created_at", c))
	assert.Equal(t, "", render(columns.Column{Kind: columns.DateTime{}}, "created_at", models.Customer{}))
}

func TestDisplayOverrideAndTooltip(t *testing.T) {
	env := columns.NewEnv(nil, "en")
	env.Override = map[string]func(item any) string{
		"name": func(item any) string { return "<" + item.(models.Customer).Name + ">" },
	}
	b := columns.Bind(columns.Column{}, "name", env)
	assert.Equal(t, "&lt;Ada&gt;", string(b.Render(models.Customer{Name: "Ada"})))

	tip := columns.Bind(columns.Column{TooltipField: "email"}, "name", nil)
	assert.Equal(t, `<span title="a@b.c">Ada</span>`, string(tip.Render(models.Customer{Name: "<b>Ada</b>", Email: "a@b.c"})))
}
