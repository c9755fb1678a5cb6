// registry.go
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

import (
	"sort"

	"github.com/localnerve/gutils-admin/internal/types"
)

// Decl declares a column under a name
type Decl struct {
	Name   string
	Column Column
}

// Registry is the ordered set of bound columns of one view instance.
// names and byName always hold the same columns.
type Registry struct {
	env    *Env
	names  []string
	byName map[string]*Bound
}

// Placement positions a column added to the registry
type Placement struct {
	After  string
	Before string
}

// After places a new column right after name
func After(name string) Placement {
	return Placement{After: name}
}

// Before places a new column right before name
func Before(name string) Placement {
	return Placement{Before: name}
}

// NewRegistry binds the declarations not excluded and orders them by Index.
// Declarations without an Index keep their declaration order.
func NewRegistry(env *Env, decls []Decl, excluded []string) *Registry {
	skip := make(map[string]bool, len(excluded))
	for _, name := range excluded {
		skip[name] = true
	}

	type indexed struct {
		index int
		bound *Bound
	}
	list := make([]indexed, 0, len(decls))
	for i, d := range decls {
		if skip[d.Name] {
			continue
		}
		index := d.Column.Index
		if index == 0 {
			index = i + 1
		}
		list = append(list, indexed{index: index, bound: Bind(d.Column, d.Name, env)})
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].index < list[j].index
	})

	r := &Registry{env: env, names: make([]string, 0, len(list)), byName: make(map[string]*Bound, len(list))}
	for _, item := range list {
		if _, dup := r.byName[item.bound.Name]; dup {
			continue
		}
		r.names = append(r.names, item.bound.Name)
		r.byName[item.bound.Name] = item.bound
	}
	return r
}

// Env returns the environment the columns are bound against
func (r *Registry) Env() *Env {
	return r.env
}

// Len returns the number of columns
func (r *Registry) Len() int {
	return len(r.names)
}

// Names returns the column names in display order
func (r *Registry) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// Columns returns the bound columns in display order
func (r *Registry) Columns() []*Bound {
	list := make([]*Bound, len(r.names))
	for i, name := range r.names {
		list[i] = r.byName[name]
	}
	return list
}

// Get returns the named column
func (r *Registry) Get(name string) (*Bound, bool) {
	b, ok := r.byName[name]
	return b, ok
}

// SortKeys returns the declared sort keys
func (r *Registry) SortKeys() []string {
	keys := []string{}
	for _, name := range r.names {
		if b := r.byName[name]; b.Sortable() {
			keys = append(keys, b.Sort)
		}
	}
	return keys
}

// Select returns the columns named in selected, in display order.
// An empty selection selects every column.
func (r *Registry) Select(selected []string) []*Bound {
	if len(selected) == 0 {
		return r.Columns()
	}
	wanted := make(map[string]bool, len(selected))
	for _, name := range selected {
		wanted[name] = true
	}
	list := []*Bound{}
	for _, name := range r.names {
		if wanted[name] {
			list = append(list, r.byName[name])
		}
	}
	return list
}

// Known filters names down to registered columns, in display order
func (r *Registry) Known(names []string) []string {
	known := []string{}
	if len(names) == 0 {
		return known
	}
	for _, b := range r.Select(names) {
		known = append(known, b.Name)
	}
	return known
}

// Add binds column under name and inserts it at the end, or next to an existing column
func (r *Registry) Add(name string, column Column, at ...Placement) error {
	position := len(r.names)
	for _, p := range at {
		switch {
		case p.After != "":
			i, err := r.position(p.After)
			if err != nil {
				return err
			}
			position = i + 1
		case p.Before != "":
			i, err := r.position(p.Before)
			if err != nil {
				return err
			}
			position = i
		}
	}
	if i, err := r.position(name); err == nil {
		r.names = append(r.names[:i], r.names[i+1:]...)
		if i < position {
			position--
		}
	}
	r.names = append(r.names, "")
	copy(r.names[position+1:], r.names[position:])
	r.names[position] = name
	r.byName[name] = Bind(column, name, r.env)
	return nil
}

// Replace binds column in place of name, optionally under newName
func (r *Registry) Replace(name string, column Column, newName string) error {
	i, err := r.position(name)
	if err != nil {
		return err
	}
	if newName == "" {
		newName = name
	}
	if newName != name {
		if _, taken := r.byName[newName]; taken {
			return &types.ColumnError{Name: newName, Err: types.ErrColumnExists}
		}
	}
	delete(r.byName, name)
	r.names[i] = newName
	r.byName[newName] = Bind(column, newName, r.env)
	return nil
}

// Delete removes the named column
func (r *Registry) Delete(name string) error {
	i, err := r.position(name)
	if err != nil {
		return err
	}
	r.names = append(r.names[:i], r.names[i+1:]...)
	delete(r.byName, name)
	return nil
}

func (r *Registry) position(name string) (int, error) {
	if _, ok := r.byName[name]; ok {
		for i, n := range r.names {
			if n == name {
				return i, nil
			}
		}
	}
	return -1, &types.ColumnError{Name: name, Err: types.ErrColumnNotFound}
}
