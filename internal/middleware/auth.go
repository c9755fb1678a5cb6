// auth.go
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
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/gutils-admin/internal/services"
	"github.com/localnerve/gutils-admin/internal/types"
	"go.uber.org/zap"
)

// SessionCookie is the authorizer session cookie name
const SessionCookie = "cookie_session"

type initializer interface {
	Init(baseURL string) error
}

// Authenticate resolves the session cookie into the request user.
// Requests without a valid session continue anonymously, views decide what they may see.
func Authenticate(validator services.SessionValidator, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cookie := c.Cookies(SessionCookie)
		if cookie == "" {
			return c.Next()
		}

		if init, ok := validator.(initializer); ok {
			if err := init.Init(c.BaseURL()); err != nil {
				log.Error("authorizer unavailable", zap.Error(err))
				return c.Next()
			}
		}

		user, err := validator.ValidateSession(cookie)
		if err != nil {
			if !errors.Is(err, services.ErrInvalidSession) {
				log.Warn("session validation failed", zap.Error(err))
			}
			return c.Next()
		}

		c.Locals(types.LocalsUser, user)
		return c.Next()
	}
}

// RequireRole rejects requests whose user lacks role
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, _ := c.Locals(types.LocalsUser).(*types.User)
		if !user.HasRole(role) {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: "Role \"" + role + "\" required",
				Type:    "authorization",
				Err:     types.ErrForbidden,
			}
		}
		return c.Next()
	}
}
