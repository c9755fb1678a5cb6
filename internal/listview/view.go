// view.go
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
	"github.com/localnerve/gutils-admin/internal/columns"
	"github.com/localnerve/gutils-admin/internal/forms"
	"github.com/localnerve/gutils-admin/internal/query"
	"gorm.io/gorm"
)

// View declares an admin list of records of type T.
// A View is shared by every request, per request state lives in Request.
type View[T any] struct {
	// Name identifies the view for column selection and saved queries.
	Name  string
	Title string
	// App prefixes the default permission names, "<app>.view_<model>".
	App string

	Columns   []columns.Decl
	Table     func() []columns.Decl
	Excluded  []string
	Configure func(r *Request[T]) error
	Override  map[string]func(item *T) string

	Filter     func() *query.FilterForm
	EmptyQuery bool

	Scope       func(db *gorm.DB) *gorm.DB
	Parent      *Parent
	Preload     []string
	Joins       []string
	IndexHints  []string
	Distinct    bool
	DefaultSort []string
	PerPage     int

	ViewPerms          []string
	// EditPerms guard inline saves and mutating actions, "<app>.edit_<model>" by default.
	EditPerms          []string
	// DeletePerms default to EditPerms.
	DeletePerms        []string
	AllowDelete        bool
	AllowSelectColumns bool
	SaveQuery          bool

	EditForm forms.Factory
	EditURL  func(item *T) string

	Actions     map[string]Action[T]
	ListActions []ListAction
}

// Parent scopes a view to the records related to an object named in the url
type Parent struct {
	// Param is the route parameter holding the parent key, "pk" by default.
	Param string
	Load  func(db *gorm.DB, key string) (any, error)
	// Lookup is the column of the listed records referencing the parent.
	Lookup string
	// Scope replaces the Lookup predicate.
	Scope   func(db *gorm.DB, parent any) *gorm.DB
	Details []Detail
}

// Detail is a label/value pair of the parent object shown above the list
type Detail struct {
	Label string
	Field string
}

// Action handles a named POST action, the request is redirected back
// unless the action wrote its own response.
type Action[T any] func(r *Request[T]) error

// ListAction is a button posting a view specific action
type ListAction struct {
	Name    string
	Label   string
	Confirm string
}

// LoadByPK loads the parent of type P by primary key
func LoadByPK[P any](preload ...string) func(db *gorm.DB, key string) (any, error) {
	return func(db *gorm.DB, key string) (any, error) {
		var parent P
		for _, p := range preload {
			db = db.Preload(p)
		}
		if err := db.Where(primaryKeyEq(recordKey(key))).First(&parent).Error; err != nil {
			return nil, err
		}
		return &parent, nil
	}
}

func (v *View[T]) declarations() []columns.Decl {
	if len(v.Columns) > 0 {
		return v.Columns
	}
	if v.Table != nil {
		return v.Table()
	}
	return nil
}
