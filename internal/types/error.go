// error.go
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

package types

import (
	"errors"
	"fmt"
)

// Admin error taxonomy. Handlers translate these into HTTP responses at the boundary.
var (
	// ErrNotFound covers a missing parent object, a missing edit target and an unknown action.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the permission check fails.
	ErrForbidden = errors.New("forbidden")
	// ErrNotEditable is returned when inline editing targets a column that is not editable.
	ErrNotEditable = errors.New("column is not editable")
	// ErrColumnNotFound signals a view misconfiguration referencing an unknown column.
	ErrColumnNotFound = errors.New("column not found")
	// ErrColumnExists signals a registry rename onto a name already in use.
	ErrColumnExists = errors.New("column already exists")
	// ErrReferentialIntegrity is returned when dependent records block a delete.
	ErrReferentialIntegrity = errors.New("referential integrity conflict")
)

type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Err     error  `json:"-"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// Unwrap exposes the taxonomy error, if any, to errors.Is.
func (e *CustomError) Unwrap() error {
	return e.Err
}

// ColumnError names the column involved in a registry failure.
type ColumnError struct {
	Name string
	Err  error
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("%s: %q", e.Err, e.Name)
}

func (e *ColumnError) Unwrap() error {
	return e.Err
}
