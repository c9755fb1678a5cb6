// accessor.go
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

package columns

import "strings"

// Attributer exposes named attributes of a record to columns
type Attributer interface {
	Attr(name string) (any, bool)
}

// Lister is a relation value. Resolve returns it as is so relation columns can iterate it.
type Lister interface {
	All() []any
}

// Resolve walks a dotted attribute path on item. Zero argument functions found
// along the way are invoked.
func Resolve(item any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	current := item
	for _, part := range strings.Split(path, ".") {
		var (
			value any
			ok    bool
		)
		switch v := current.(type) {
		case Attributer:
			value, ok = v.Attr(part)
		case map[string]any:
			value, ok = v[part]
		default:
			return nil, false
		}
		if !ok {
			return nil, false
		}
		current = invoke(value)
	}
	return current, true
}

func invoke(value any) any {
	switch fn := value.(type) {
	case func() any:
		return fn()
	case func() string:
		return fn()
	case func() bool:
		return fn()
	case func() int:
		return fn()
	}
	return value
}
