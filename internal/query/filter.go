// filter.go
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

package query

import (
	"strings"
	"unicode"

	"github.com/localnerve/gutils-admin/internal/forms"
)

// listKeys are request keys that never count as filter data
var listKeys = map[string]bool{"page": true, "sort": true, "popup": true, "format": true, "restore": true}

// FilterForm is a form whose cleaned values become a Query
type FilterForm struct {
	*forms.Form
	Rules    map[string]Rule
	Queries  map[string]Hook
	Distinct bool
}

// NewFilterForm creates a filter form over fields
func NewFilterForm(fields ...*forms.Field) *FilterForm {
	form := forms.New(fields...)
	form.AutoID = "id_filter_%s"
	form.CleanString = cleanString
	return &FilterForm{Form: form, Rules: map[string]Rule{}, Queries: map[string]Hook{}}
}

// BindQuery binds data unless it only holds pagination and sorting keys.
// It reports whether the form was bound.
func (f *FilterForm) BindQuery(data forms.Values) bool {
	for _, key := range data.Keys() {
		if !listKeys[key] {
			f.Bind(data)
			return true
		}
	}
	return false
}

// Query builds the query of a valid form
func (f *FilterForm) Query() (Query, error) {
	if !f.IsValid() {
		return Query{}, nil
	}
	return Build(f.Names(), f.Cleaned, f.Rules, f.Queries)
}

// IsEmpty reports whether no cleaned value is set, ignoring exclude
func (f *FilterForm) IsEmpty(exclude ...string) bool {
	if !f.IsValid() {
		return true
	}
	skip := map[string]bool{}
	for _, name := range exclude {
		skip[name] = true
	}
	for name, value := range f.Cleaned {
		if !skip[name] && !forms.IsEmpty(value) {
			if b, ok := value.(bool); ok && !b {
				continue
			}
			return false
		}
	}
	return true
}

// cleanString drops control characters, decodes + as space and %2B as +
func cleanString(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	s = strings.ReplaceAll(s, "+", " ")
	s = strings.ReplaceAll(s, "%2B", "+")
	return strings.TrimSpace(s)
}
