// view.go
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

package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/gutils-admin/internal/types"
)

// ViewHeader lets clients embedding one view in several pages keep separate column selections
const ViewHeader = "X-Admin-View"

// ViewIdentity names the admin view serving the request.
// Column selections are stored per view identity.
func ViewIdentity(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := name
		if suffix := c.Get(ViewHeader); suffix != "" {
			identity = name + ":" + suffix
		}
		c.Locals(types.LocalsView, identity)
		return c.Next()
	}
}
