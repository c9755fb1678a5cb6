// model.go
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
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm/schema"
)

var (
	decimalType = reflect.TypeOf(decimal.Decimal{})
	timeType    = reflect.TypeOf(time.Time{})
)

// ForModel derives a form for the named fields of a parsed model.
// Names may be database column names or Go field names, the form field is named
// after the database column. NOT NULL fields are required even with a database
// default, an update never falls back to it.
func ForModel(s *schema.Schema, names []string) (*Form, error) {
	form := New()
	for _, name := range names {
		f := s.LookUpField(name)
		if f == nil || f.DBName == "" {
			return nil, fmt.Errorf("model %s has no editable field %q", s.Name, name)
		}
		input, err := inputFor(f)
		if err != nil {
			return nil, err
		}
		form.Fields = append(form.Fields, &Field{
			Name:     f.DBName,
			Label:    Label(f),
			Required: f.NotNull && input != Input(Checkbox{}),
			Input:    input,
		})
	}
	return form, nil
}

// Label returns the human name of a model field
func Label(f *schema.Field) string {
	if v := f.Tag.Get("verbose"); v != "" {
		return v
	}
	if f.DBName != "" {
		return strings.ReplaceAll(f.DBName, "_", " ")
	}
	return f.Name
}

func inputFor(f *schema.Field) (Input, error) {
	t := f.FieldType
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch {
	case t == decimalType:
		places := int32(2)
		if f.Scale > 0 {
			places = int32(f.Scale)
		}
		return Decimal{Places: places}, nil
	case t == timeType:
		return Date{}, nil
	}
	switch f.GORMDataType {
	case schema.Bool:
		return Checkbox{}, nil
	case schema.Int, schema.Uint:
		var min *int64
		if f.DataType == schema.Uint {
			zero := int64(0)
			min = &zero
		}
		return Integer{Min: min}, nil
	case schema.Float:
		return Decimal{Places: 6}, nil
	case schema.String:
		return Text{MaxLength: f.Size, Multiline: strings.EqualFold(f.TagSettings["TYPE"], "text")}, nil
	case schema.Time:
		return Date{}, nil
	}
	return nil, fmt.Errorf("field %s of type %s cannot be edited inline", f.Name, f.FieldType)
}
