// request.go
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
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/gutils-admin/internal/columns"
	"github.com/localnerve/gutils-admin/internal/forms"
	"github.com/localnerve/gutils-admin/internal/query"
	"github.com/localnerve/gutils-admin/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/hints"
)

// Request is the state of one request served by a view
type Request[T any] struct {
	Ctx     *fiber.Ctx
	User    *types.User
	View    *View[T]
	Parent  any
	Columns *columns.Registry
	Filter  *query.FilterForm
	// Query holds the url parameters, Values the submitted body.
	Query  forms.Values
	Values forms.Values
	Sort   string

	h         *Handler[T]
	messages  []Message
	responded bool
}

// DB returns the handler database bound to the request context
func (r *Request[T]) DB() *gorm.DB {
	return r.h.DB.WithContext(r.Ctx.UserContext())
}

// Log returns the handler logger with the view name
func (r *Request[T]) Log() *zap.Logger {
	return r.h.Log.With(zap.String("view", r.View.Name))
}

// Flash queues a message shown on the next rendered page
func (r *Request[T]) Flash(level, text string) {
	r.messages = append(r.messages, Message{Level: level, Text: text})
}

// JSON writes v as the response of an action
func (r *Request[T]) JSON(v any) error {
	r.responded = true
	return r.Ctx.JSON(v)
}

// Redirect answers an action with a redirect to location
func (r *Request[T]) Redirect(location string) error {
	r.responded = true
	if err := r.h.saveMessages(r); err != nil {
		return err
	}
	return r.Ctx.Redirect(location, fiber.StatusFound)
}

// CanEdit reports whether the user may change the listed records
func (r *Request[T]) CanEdit() bool {
	return r.h.canEdit(r)
}

// IDs returns the positive record ids posted as "ids"
func (r *Request[T]) IDs() []uint64 {
	ids := []uint64{}
	for _, raw := range r.Values["ids"] {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil && id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// Base returns the records of the view before filtering: the static scope,
// the parent scope and the eager loading hints.
func (r *Request[T]) Base(tx *gorm.DB) *gorm.DB {
	return r.base(tx, true)
}

func (r *Request[T]) base(tx *gorm.DB, preload bool) *gorm.DB {
	v := r.View
	db := tx.Model(new(T))
	if v.Scope != nil {
		db = v.Scope(db)
	}
	if v.Parent != nil && r.Parent != nil {
		switch {
		case v.Parent.Scope != nil:
			db = v.Parent.Scope(db, r.Parent)
		case v.Parent.Lookup != "":
			pk, _ := columns.Resolve(r.Parent, "pk")
			db = db.Where(clause.Eq{Column: query.Column(v.Parent.Lookup), Value: pk})
		}
	}
	for _, join := range v.Joins {
		db = db.Joins(join)
	}
	if preload {
		for _, p := range v.Preload {
			db = db.Preload(p)
		}
	}
	if v.Distinct {
		db = db.Distinct()
	}
	if len(v.IndexHints) > 0 && db.Dialector.Name() == "mysql" {
		db = db.Clauses(hints.UseIndex(v.IndexHints...))
	}
	return db
}

// Records returns the records listed by the request. ok is false when the list
// is empty by policy: the filter form is invalid, or EmptyQuery is set and the
// filter selects nothing.
func (r *Request[T]) Records(tx *gorm.DB) (db *gorm.DB, ok bool, err error) {
	return r.records(tx, true)
}

func (r *Request[T]) records(tx *gorm.DB, preload bool) (db *gorm.DB, ok bool, err error) {
	db = r.base(tx, preload)
	if r.Filter == nil {
		return db, true, nil
	}
	if !r.Filter.IsBound() {
		return db, !r.View.EmptyQuery, nil
	}
	if !r.Filter.IsValid() {
		return db, false, nil
	}
	q, err := r.Filter.Query()
	if err != nil {
		return nil, false, err
	}
	if q.IsEmpty() && r.View.EmptyQuery {
		return db, false, nil
	}
	db = q.Apply(db)
	if r.Filter.Distinct {
		db = db.Distinct()
	}
	return db, true, nil
}

func primaryKeyEq(key any) clause.Expression {
	return clause.Eq{Column: clause.PrimaryColumn, Value: key}
}
