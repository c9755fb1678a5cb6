// inspect_schema.go
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

package main

import (
	"fmt"
	"log"
	"regexp"
	"sort"

	"github.com/localnerve/gutils-admin/data"
	"github.com/localnerve/gutils-admin/internal/database"
)

var createTable = regexp.MustCompile("CREATE TABLE IF NOT EXISTS `[^`]*`\\.`([^`]+)`")

// Prints the tables AutoMigrate creates and flags any missing from the MariaDB init scripts.
func main() {
	db, err := database.OpenInMemory()
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close(db)

	declared := map[string]bool{}
	for _, m := range createTable.FindAllStringSubmatch(data.InitdbMariaDBTables, -1) {
		declared[m[1]] = true
	}

	tables, err := db.Migrator().GetTables()
	if err != nil {
		log.Fatal(err)
	}
	sort.Strings(tables)

	for _, table := range tables {
		if table == "sqlite_sequence" {
			continue
		}
		fmt.Printf("\n=== Table: %s ===\n", table)
		if !declared[table] {
			fmt.Println("!! missing from data/initdb/mariadb")
		}
		columns, err := db.Migrator().ColumnTypes(table)
		if err != nil {
			log.Fatal(err)
		}
		for _, c := range columns {
			nullable, _ := c.Nullable()
			fmt.Printf("  %-20s %-16s null=%v\n", c.Name(), c.DatabaseTypeName(), nullable)
		}
	}
}
