// form.go
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

package forms

import (
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// NonFieldErrors is the Errors key for errors not tied to one field
const NonFieldErrors = "__all__"

// ErrRequired is returned for a required field without a value
var ErrRequired = errors.New("this field is required")

// Values holds submitted request data, one or more values per key
type Values map[string][]string

// Get returns the first value for key
func (v Values) Get(key string) string {
	if vs := v[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Has reports whether key was submitted
func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

// Keys returns every submitted key
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	return keys
}

// Input converts raw submitted values into a typed value and renders its widget.
type Input interface {
	Clean(data Values, name string) (any, error)
	Render(name, id string, data Values, initial any) template.HTML
}

// Field is one named input of a form
type Field struct {
	Name     string
	Label    string
	Required bool
	Help     string
	Input    Input
}

// Factory builds a fresh form, forms carry bound state so they are never shared
type Factory func() *Form

// Form is an ordered set of fields bound to submitted data.
type Form struct {
	Fields  []*Field
	Initial map[string]any
	Cleaned map[string]any
	Errors  map[string][]string
	// AutoID formats widget ids, "%s" is replaced by the field name.
	AutoID string
	// Validate runs after every field cleaned without error.
	Validate func(f *Form) error
	// CleanString post-processes every non-empty cleaned string.
	CleanString func(s string) string

	data    Values
	cleaned bool
}

// New creates an unbound form with the given fields
func New(fields ...*Field) *Form {
	return &Form{
		Fields:  fields,
		Initial: map[string]any{},
		AutoID:  "id_%s",
	}
}

// Bind attaches submitted data and resets any previous validation
func (f *Form) Bind(data Values) *Form {
	if data == nil {
		data = Values{}
	}
	f.data = data
	f.cleaned = false
	f.Cleaned = nil
	f.Errors = nil
	return f
}

// IsBound reports whether the form has data to validate
func (f *Form) IsBound() bool {
	return f.data != nil
}

// Field returns the named field or nil
func (f *Form) Field(name string) *Field {
	for _, field := range f.Fields {
		if field.Name == name {
			return field
		}
	}
	return nil
}

// Names returns the field names in form order
func (f *Form) Names() []string {
	names := make([]string, len(f.Fields))
	for i, field := range f.Fields {
		names[i] = field.Name
	}
	return names
}

// Prune removes every field not named in keep
func (f *Form) Prune(keep []string) {
	wanted := make(map[string]bool, len(keep))
	for _, name := range keep {
		wanted[name] = true
	}
	fields := f.Fields[:0]
	for _, field := range f.Fields {
		if wanted[field.Name] {
			fields = append(fields, field)
		}
	}
	f.Fields = fields
}

// IsValid cleans the bound data once and reports whether it had no errors.
// An unbound form is never valid.
func (f *Form) IsValid() bool {
	if !f.IsBound() {
		return false
	}
	if !f.cleaned {
		f.clean()
	}
	return len(f.Errors) == 0
}

func (f *Form) clean() {
	f.cleaned = true
	f.Cleaned = make(map[string]any, len(f.Fields))
	f.Errors = map[string][]string{}

	for _, field := range f.Fields {
		value, err := field.Input.Clean(f.data, field.Name)
		if err == nil && field.Required && IsEmpty(value) {
			err = ErrRequired
		}
		if err != nil {
			f.Errors[field.Name] = append(f.Errors[field.Name], err.Error())
			continue
		}
		if s, ok := value.(string); ok && s != "" && f.CleanString != nil {
			value = f.CleanString(s)
		}
		f.Cleaned[field.Name] = value
	}

	if len(f.Errors) == 0 && f.Validate != nil {
		if err := f.Validate(f); err != nil {
			f.Errors[NonFieldErrors] = append(f.Errors[NonFieldErrors], err.Error())
		}
	}
}

// AddError records a validation error, used from Validate hooks
func (f *Form) AddError(field string, err error) {
	if f.Errors == nil {
		f.Errors = map[string][]string{}
	}
	if field == "" {
		field = NonFieldErrors
	}
	f.Errors[field] = append(f.Errors[field], err.Error())
}

// ID returns the widget id of a field
func (f *Form) ID(name string) string {
	if f.AutoID == "" {
		return ""
	}
	return fmt.Sprintf(f.AutoID, name)
}

// Row is the rendering of one field
type Row struct {
	Name   string
	ID     string
	Label  string
	Help   string
	Widget template.HTML
	Errors []string
}

// Rows renders every field for templates
func (f *Form) Rows() []Row {
	rows := make([]Row, 0, len(f.Fields))
	for _, field := range f.Fields {
		label := field.Label
		if label == "" {
			label = humanize(field.Name)
		}
		id := f.ID(field.Name)
		rows = append(rows, Row{
			Name:   field.Name,
			ID:     id,
			Label:  label,
			Help:   field.Help,
			Widget: field.Input.Render(field.Name, id, f.data, f.Initial[field.Name]),
			Errors: f.Errors[field.Name],
		})
	}
	return rows
}

// NonFieldErrors returns the form-wide errors
func (f *Form) NonFieldErrors() []string {
	return f.Errors[NonFieldErrors]
}

// IsEmpty reports values that never contribute to a query or satisfy a required field
func IsEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		return len(v) == 0
	case []int64:
		return len(v) == 0
	case []any:
		return len(v) == 0
	case DateRange:
		return v.IsZero()
	case *bool:
		return v == nil
	}
	return false
}

func humanize(name string) string {
	s := strings.ReplaceAll(name, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
