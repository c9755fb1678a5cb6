// sqlite_purego.go
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

//go:build !cgo

package database

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

const (
	sqliteFileOptions   = "?_pragma=foreign_keys(1)"
	sqliteMemoryOptions = "&_pragma=foreign_keys(1)"
)

// openSQLite uses the cgo-free driver when the binary is built with CGO_ENABLED=0.
func openSQLite(dsn string) gorm.Dialector {
	return sqlite.Open(dsn)
}
