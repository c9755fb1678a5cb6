// middleware_test.go
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
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/gutils-admin/internal/services"
	"github.com/localnerve/gutils-admin/internal/types"
	"github.com/localnerve/gutils-admin/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeValidator struct {
	users   map[string]*types.User
	initErr error
	inits   int
	baseURL string
}

func (f *fakeValidator) Init(baseURL string) error {
	f.inits++
	f.baseURL = baseURL
	return f.initErr
}

func (f *fakeValidator) ValidateSession(cookie string) (*types.User, error) {
	if user, ok := f.users[cookie]; ok {
		return user, nil
	}
	if cookie == "broken" {
		return nil, errors.New("authorizer down")
	}
	return nil, services.ErrInvalidSession
}

func whoami(c *fiber.Ctx) error {
	user, _ := c.Locals(types.LocalsUser).(*types.User)
	if user == nil {
		return c.SendString("anonymous")
	}
	return c.SendString(user.ID)
}

func call(t *testing.T, app *fiber.App, cookie string, header map[string]string) (int, string) {
	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: cookie})
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuthenticate(t *testing.T) {
	validator := &fakeValidator{users: map[string]*types.User{
		"good": {ID: "u1", Roles: []string{"staff"}},
	}}
	app := fiber.New()
	app.Use(Authenticate(validator, zap.NewNop()))
	app.Get("/", whoami)

	_, body := call(t, app, "", nil)
	assert.Equal(t, "anonymous", body)
	assert.Zero(t, validator.inits)

	_, body = call(t, app, "good", nil)
	assert.Equal(t, "u1", body)
	assert.Equal(t, "http://example.com", validator.baseURL)

	_, body = call(t, app, "expired", nil)
	assert.Equal(t, "anonymous", body)

	_, body = call(t, app, "broken", nil)
	assert.Equal(t, "anonymous", body)
}

func TestAuthenticateWithoutAuthorizer(t *testing.T) {
	validator := &fakeValidator{
		users:   map[string]*types.User{"good": {ID: "u1"}},
		initErr: errors.New("no route to host"),
	}
	app := fiber.New()
	app.Use(Authenticate(validator, zap.NewNop()))
	app.Get("/", whoami)

	status, body := call(t, app, "good", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "anonymous", body)
}

func TestRequireRole(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler(nil)})
	app.Use(func(c *fiber.Ctx) error {
		if c.Get("X-Role") != "" {
			c.Locals(types.LocalsUser, &types.User{ID: "u1", Roles: []string{c.Get("X-Role")}})
		}
		return c.Next()
	})
	app.Use(RequireRole("admin"))
	app.Get("/", whoami)

	status, _ := call(t, app, "", nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = call(t, app, "", map[string]string{"X-Role": "staff"})
	assert.Equal(t, http.StatusForbidden, status)

	status, body := call(t, app, "", map[string]string{"X-Role": "admin"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "u1", body)
}

func TestViewIdentity(t *testing.T) {
	app := fiber.New()
	app.Use(ViewIdentity("customers"))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(types.LocalsView).(string))
	})

	_, body := call(t, app, "", nil)
	assert.Equal(t, "customers", body)

	_, body = call(t, app, "", map[string]string{ViewHeader: "dashboard"})
	assert.Equal(t, "customers:dashboard", body)
}
