// page.go
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

package listview

import (
	"context"
	"fmt"
	"html/template"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/gutils-admin/internal/columns"
	"github.com/localnerve/gutils-admin/internal/forms"
	"github.com/localnerve/gutils-admin/internal/query"
	"github.com/localnerve/gutils-admin/internal/render"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Page is one page of listed records
type Page[T any] struct {
	Items      []T
	Number     int
	TotalPages int
	PerPage    int
	Total      int64
	Sort       string
}

// HasOther reports whether the list spans more than one page
func (p *Page[T]) HasOther() bool {
	return p.TotalPages > 1
}

// PageNumber resolves the requested page: "last" is the last page,
// anything invalid or out of range is the first page.
func PageNumber(raw string, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if raw == "last" {
		return totalPages
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > totalPages {
		return 1
	}
	return n
}

// TotalPages returns the number of pages of total records, at least one
func TotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

func (h *Handler[T]) perPage() int {
	if h.View.PerPage > 0 {
		return h.View.PerPage
	}
	return h.PerPage
}

func (h *Handler[T]) paginate(r *Request[T]) (*Page[T], error) {
	page := &Page[T]{Items: []T{}, Number: 1, TotalPages: 1, PerPage: h.perPage()}
	r.Sort = ""

	quiet := r.DB().Session(&gorm.Session{Logger: h.DB.Logger.LogMode(logger.Silent)})
	counted, ok, err := r.records(quiet, false)
	if err != nil {
		return nil, err
	}
	if !ok {
		return page, nil
	}
	if key := h.distinctKey(); key != "" && counted.Statement.Distinct {
		counted = counted.Distinct(key)
	}
	if err := counted.Count(&page.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to count %s: %w", r.View.Name, err)
	}

	page.TotalPages = TotalPages(page.Total, page.PerPage)
	page.Number = PageNumber(r.Query.Get("page"), page.TotalPages)

	db, _, err := r.records(quiet, true)
	if err != nil {
		return nil, err
	}
	db = h.applySort(r, db)
	page.Sort = r.Sort

	err = db.Limit(page.PerPage).Offset((page.Number - 1) * page.PerPage).Find(&page.Items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.View.Name, err)
	}
	return page, nil
}

// distinctKey is the qualified primary key counted by distinct lists
func (h *Handler[T]) distinctKey() string {
	s := h.meta.Schema()
	if s.PrioritizedPrimaryField == nil {
		return ""
	}
	return s.Table + "." + s.PrioritizedPrimaryField.DBName
}

func (h *Handler[T]) applySort(r *Request[T], db *gorm.DB) *gorm.DB {
	requested := r.Query.Get("sort")
	if requested != "" {
		key := strings.TrimPrefix(requested, "-")
		for _, known := range r.Columns.SortKeys() {
			if known == key {
				r.Sort = requested
				return db.Order(orderBy(requested))
			}
		}
	}
	for _, key := range h.View.DefaultSort {
		db = db.Order(orderBy(key))
	}
	return db
}

func orderBy(key string) clause.OrderByColumn {
	desc := strings.HasPrefix(key, "-")
	key = strings.TrimPrefix(key, "-")
	col := query.Column(key)
	if col.Table == "" {
		col.Table = clause.CurrentTable
	}
	return clause.OrderByColumn{Column: col, Desc: desc}
}

// Message is a flash message
type Message struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// Header is a column header of the rendered table
type Header struct {
	Name    string `json:"name"`
	Header  string `json:"header"`
	Style   string `json:"-"`
	SortURL string `json:"sortUrl,omitempty"`
	Sorted  string `json:"sorted,omitempty"`
}

// Cell is one rendered table cell
type Cell struct {
	Name  string            `json:"name"`
	HTML  template.HTML     `json:"html"`
	Style string            `json:"-"`
	Attrs template.HTMLAttr `json:"-"`
}

// Row is one rendered record
type Row struct {
	PK       string `json:"pk"`
	Checkbox bool   `json:"-"`
	Cells    []Cell `json:"cells"`
}

// ColumnChoice is an entry of the column selection form
type ColumnChoice struct {
	Name     string
	Header   string
	Selected bool
}

// DetailValue is a rendered parent detail
type DetailValue struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// PageLink is a pagination link
type PageLink struct {
	Label   string
	URL     string
	Current bool
}

// PageInfo is the pagination state of the rendered page
type PageInfo struct {
	Number     int        `json:"number"`
	TotalPages int        `json:"totalPages"`
	PerPage    int        `json:"perPage"`
	Total      int64      `json:"total"`
	HasOther   bool       `json:"-"`
	Links      []PageLink `json:"-"`
}

// ListContext is the data of the list template
type ListContext struct {
	Title              string
	Path               string
	EditURL            string
	Messages           []Message
	Details            []DetailValue
	Filter             *forms.Form
	Headers            []Header
	Rows               []Row
	Choices            []ColumnChoice
	Page               PageInfo
	Actions            []ListAction
	CanDelete          bool
	AllowSelectColumns bool
}

// EditContext is the data of the inline edit template
type EditContext struct {
	ID     string
	Column string
	Form   *forms.Form
}

func (h *Handler[T]) visibleColumns(ctx context.Context, r *Request[T]) ([]*columns.Bound, []string) {
	if !h.View.AllowSelectColumns || h.Store == nil {
		return r.Columns.Columns(), nil
	}
	userID := ""
	if r.User != nil {
		userID = r.User.ID
	}
	selected, err := h.Store.Selected(ctx, userID, h.identity(r))
	if err != nil {
		r.Log().Warn("column selection unavailable", zap.Error(err))
		return r.Columns.Columns(), nil
	}
	return r.Columns.Select(selected), selected
}

func (h *Handler[T]) pk(item *T) string {
	field := h.meta.Schema().PrioritizedPrimaryField
	if field == nil {
		return ""
	}
	value, _ := field.ValueOf(context.Background(), reflect.ValueOf(item))
	return fmt.Sprint(value)
}

func (h *Handler[T]) row(item *T, list []*columns.Bound, checkbox bool) Row {
	row := Row{PK: h.pk(item), Checkbox: checkbox, Cells: make([]Cell, 0, len(list))}
	for _, col := range list {
		row.Cells = append(row.Cells, Cell{
			Name:  col.Name,
			HTML:  col.Render(item),
			Style: col.StyleClass(),
			Attrs: columns.Attrs(col.CellAttrs()),
		})
	}
	return row
}

func (h *Handler[T]) details(r *Request[T]) []DetailValue {
	if r.Parent == nil || h.View.Parent == nil {
		return nil
	}
	out := make([]DetailValue, 0, len(h.View.Parent.Details))
	for _, d := range h.View.Parent.Details {
		value, _ := columns.Resolve(r.Parent, d.Field)
		label := d.Label
		if label == "" {
			label = columns.UpperFirst(strings.ReplaceAll(d.Field, "_", " "))
		}
		out = append(out, DetailValue{Label: label, Value: columns.Stringify(value)})
	}
	return out
}

func (h *Handler[T]) renderList(r *Request[T], page *Page[T]) error {
	c := r.Ctx
	visible, selected := h.visibleColumns(c.UserContext(), r)
	canDelete := h.canDelete(r)

	messages, err := h.takeMessages(r)
	if err != nil {
		r.Log().Warn("flash messages unavailable", zap.Error(err))
	}

	lc := ListContext{
		Title:              h.Title(),
		Path:               c.OriginalURL(),
		EditURL:            strings.TrimSuffix(c.Path(), "/") + "/edit",
		Messages:           messages,
		Details:            h.details(r),
		Headers:            make([]Header, 0, len(visible)),
		Rows:               make([]Row, 0, len(page.Items)),
		Actions:            h.View.ListActions,
		CanDelete:          canDelete,
		AllowSelectColumns: h.View.AllowSelectColumns && h.Store != nil,
		Page: PageInfo{
			Number:     page.Number,
			TotalPages: page.TotalPages,
			PerPage:    page.PerPage,
			Total:      page.Total,
			HasOther:   page.HasOther(),
			Links:      pageLinks(r.Query, c.Path(), page.Number, page.TotalPages),
		},
	}
	if r.Filter != nil {
		lc.Filter = r.Filter.Form
	}

	for _, col := range visible {
		header := Header{Name: col.Name, Header: col.Header, Style: col.StyleClass()}
		if col.Sortable() {
			next := col.Sort
			switch page.Sort {
			case col.Sort:
				header.Sorted = "asc"
				next = "-" + col.Sort
			case "-" + col.Sort:
				header.Sorted = "desc"
			}
			header.SortURL = withParam(r.Query, c.Path(), "sort", next, "page")
		}
		lc.Headers = append(lc.Headers, header)
	}

	for i := range page.Items {
		lc.Rows = append(lc.Rows, h.row(&page.Items[i], visible, canDelete))
	}

	wanted := map[string]bool{}
	for _, name := range selected {
		wanted[name] = true
	}
	lc.Choices = make([]ColumnChoice, 0, r.Columns.Len())
	for _, col := range r.Columns.Columns() {
		lc.Choices = append(lc.Choices, ColumnChoice{
			Name:     col.Name,
			Header:   col.Header,
			Selected: len(selected) == 0 || wanted[col.Name],
		})
	}

	if r.Query.Get("format") == "json" {
		return c.JSON(fiber.Map{
			"title":    lc.Title,
			"messages": lc.Messages,
			"details":  lc.Details,
			"columns":  lc.Headers,
			"rows":     lc.Rows,
			"page":     lc.Page,
			"sort":     page.Sort,
		})
	}

	html, err := h.Render.Render(render.ItemList, lc)
	if err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.SendString(html)
}

func withParam(params forms.Values, path, key, value string, drop ...string) string {
	q := url.Values{}
	for k, vs := range params {
		q[k] = vs
	}
	for _, d := range drop {
		q.Del(d)
	}
	q.Set(key, value)
	return path + "?" + q.Encode()
}

func pageLinks(params forms.Values, path string, current, total int) []PageLink {
	if total <= 1 {
		return nil
	}
	links := []PageLink{}
	add := func(label string, n int) {
		links = append(links, PageLink{Label: label, URL: withParam(params, path, "page", strconv.Itoa(n)), Current: n == current && label == strconv.Itoa(n)})
	}
	if current > 1 {
		add("«", current-1)
	}
	for n := 1; n <= total; n++ {
		if n == 1 || n == total || (n >= current-3 && n <= current+3) {
			add(strconv.Itoa(n), n)
		}
	}
	if current < total {
		add("»", current+1)
	}
	return links
}
