// utils_test.go
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

package utils

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/gutils-admin/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestPingService(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	assert.NoError(t, PingService("http://"+ln.Addr().String(), time.Second))
	assert.Error(t, PingService("http://", time.Second))
	assert.Error(t, PingService("://bad", time.Second))
}

func TestDefaultPort(t *testing.T) {
	assert.Equal(t, "443", defaultPort("https"))
	assert.Equal(t, "3306", defaultPort("mysql"))
	assert.Equal(t, "80", defaultPort("http"))
}

func TestErrorHandler(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.New(core))})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return types.ErrNotFound
	})
	app.Get("/conflict", func(c *fiber.Ctx) error {
		return errors.Join(errors.New("customer 1 has orders"), types.ErrReferentialIntegrity)
	})
	app.Get("/custom", func(c *fiber.Ctx) error {
		return &types.CustomError{Code: fiber.StatusForbidden, Message: "nope", Type: "permission"}
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("NOT NULL constraint failed: customers.discount")
	})

	cases := []struct {
		path    string
		status  int
		kind    string
		message string
	}{
		{"/missing", http.StatusNotFound, "notFound", types.ErrNotFound.Error()},
		{"/conflict", http.StatusConflict, "conflict", "customer 1 has orders\n" + types.ErrReferentialIntegrity.Error()},
		{"/custom", http.StatusForbidden, "permission", "nope"},
		{"/boom", http.StatusInternalServerError, "unknown", "Internal Server Error"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tc.path, nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)

			var body ErrorResponseStruct
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.status, body.Status)
			assert.Equal(t, tc.kind, body.Type)
			assert.Equal(t, tc.message, body.Message)
			assert.False(t, body.Ok)
		})
	}

	// driver errors stay in the log
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "NOT NULL constraint failed: customers.discount", logs.All()[0].ContextMap()["error"])
}
