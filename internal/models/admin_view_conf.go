// admin_view_conf.go
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

package models

import (
	"strings"
	"time"
)

// AdminViewConf stores the columns a user selected for one admin list view.
// A row with a NULL user is the default for every user of that view.
type AdminViewConf struct {
	ID              uint64  `gorm:"primaryKey;autoIncrement"`
	UserID          *string `gorm:"type:char(36);index:idx_admin_view_conf_user_view,unique"`
	ViewName        string  `gorm:"size:64;not null;index:idx_admin_view_conf_user_view,unique"`
	SelectedColumns *string `gorm:"size:2048"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName overrides the table name for AdminViewConf
func (AdminViewConf) TableName() string {
	return "admin_view_conf"
}

// ColumnNames splits the stored selection, an empty slice means "show all".
func (c AdminViewConf) ColumnNames() []string {
	if c.SelectedColumns == nil || *c.SelectedColumns == "" {
		return []string{}
	}
	return strings.Split(*c.SelectedColumns, ",")
}
