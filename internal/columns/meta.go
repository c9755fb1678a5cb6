// meta.go
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
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

var schemaCache = &sync.Map{}

// FieldMeta describes the model field behind a column
type FieldMeta struct {
	Name        string
	DBName      string
	VerboseName string
}

// Meta looks up model field metadata by column name
type Meta interface {
	Field(name string) (FieldMeta, bool)
}

// SchemaMeta reads field metadata from a parsed GORM schema.
type SchemaMeta struct {
	schema *schema.Schema
}

// ParseMeta parses the GORM schema of model using the naming strategy of db
func ParseMeta(db *gorm.DB, model any) (*SchemaMeta, error) {
	s, err := schema.Parse(model, schemaCache, db.NamingStrategy)
	if err != nil {
		return nil, err
	}
	return &SchemaMeta{schema: s}, nil
}

// Schema returns the parsed schema
func (m *SchemaMeta) Schema() *schema.Schema {
	return m.schema
}

// Field finds a field by database column name, Go field name or, for relations,
// a case insensitive Go field name.
func (m *SchemaMeta) Field(name string) (FieldMeta, bool) {
	f := m.schema.LookUpField(name)
	if f == nil {
		for _, candidate := range m.schema.Fields {
			if strings.EqualFold(candidate.Name, name) {
				f = candidate
				break
			}
		}
	}
	if f == nil {
		return FieldMeta{}, false
	}
	verbose := f.Tag.Get("verbose")
	if verbose == "" {
		verbose = strings.ReplaceAll(f.DBName, "_", " ")
		if verbose == "" {
			verbose = f.Name
		}
	}
	return FieldMeta{Name: f.Name, DBName: f.DBName, VerboseName: verbose}, true
}

// UpperFirst upper cases the first letter of s
func UpperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
