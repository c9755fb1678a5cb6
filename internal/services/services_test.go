// services_test.go
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

package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/localnerve/gutils-admin/internal/config"
	"github.com/localnerve/gutils-admin/internal/database"
	"github.com/localnerve/gutils-admin/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const permissionsYAML = `
superuser: admin
roles:
  staff:
    - shop.view_customer
    - shop.view_order
  support:
    - shop.*
`

func TestParsePermissions(t *testing.T) {
	p, err := ParsePermissions([]byte(permissionsYAML))
	require.NoError(t, err)
	assert.Equal(t, "admin", p.Superuser)
	assert.Len(t, p.Roles, 2)

	_, err = ParsePermissions([]byte("roles: [oops"))
	assert.Error(t, err)
}

func TestLoadPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "permissions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(permissionsYAML), 0o600))

	p, err := LoadPermissions(path)
	require.NoError(t, err)
	assert.Contains(t, p.Roles["staff"], "shop.view_order")

	_, err = LoadPermissions(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestHasPermissions(t *testing.T) {
	p, err := ParsePermissions([]byte(permissionsYAML))
	require.NoError(t, err)

	staff := &types.User{ID: "u1", Roles: []string{"staff"}}
	support := &types.User{ID: "u2", Roles: []string{"support"}}
	admin := &types.User{ID: "u3", Roles: []string{"admin"}}
	nobody := &types.User{ID: "u4"}

	assert.True(t, p.HasPermissions(staff, []string{"shop.view_customer"}))
	assert.False(t, p.HasPermissions(staff, []string{"shop.view_customer", "shop.edit_customer"}))
	assert.True(t, p.HasPermissions(support, []string{"shop.edit_customer", "shop.edit_order"}))
	assert.False(t, p.HasPermissions(support, []string{"billing.view_invoice"}))
	assert.True(t, p.HasPermissions(admin, []string{"billing.view_invoice"}))
	assert.True(t, p.HasPermissions(nobody, nil))
	assert.False(t, p.HasPermissions(nobody, []string{"shop.view_customer"}))
	assert.False(t, p.HasPermissions(nil, nil))
}

func TestCheckPermissions(t *testing.T) {
	p, err := ParsePermissions([]byte(`
roles:
  staff: [shop.view_customer]
`))
	require.NoError(t, err)

	assert.NoError(t, p.Check([]string{"shop.view_customer"}))
	err = p.Check([]string{"shop.view_order", "shop.view_customer", "shop.edit_order"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shop.edit_order, shop.view_order")

	p.Roles["support"] = []string{"shop.*"}
	assert.NoError(t, p.Check([]string{"shop.view_order", "shop.edit_order"}))
}

func TestUserFrom(t *testing.T) {
	user, err := userFrom(map[string]any{
		"id":    "c7d0c5b8-4c9e-4b8e-9a43-3e1f0b9d2a11",
		"email": "ada@example.com",
		"roles": []string{"staff"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.True(t, user.HasRole("staff"))

	_, err = userFrom(map[string]any{"email": "ghost@example.com"})
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestAuthorizerNotInitialized(t *testing.T) {
	a := NewAuthorizer(&config.Config{}, zap.NewNop())
	assert.False(t, a.Initialized())
	_, err := a.ValidateSession("cookie")
	assert.Error(t, err)

	assert.Error(t, a.Init("http://localhost:3000"))
	assert.False(t, a.Initialized())
}

func TestHealthCheck(t *testing.T) {
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	defer database.Close(db)

	cfg := &config.Config{DBType: "sqlite", DBAppDatabase: "memory"}
	result := HealthCheck(cfg, db, zap.NewNop())
	assert.True(t, result.Healthy())
	assert.Equal(t, "ok", result.Database)
	assert.Equal(t, "disabled", result.Authorizer)
	assert.Equal(t, "sqlite", result.Details["database_type"])

	cfg.AuthzURL = "http://"
	result = HealthCheck(cfg, db, zap.NewNop())
	assert.False(t, result.Healthy())
	assert.Equal(t, "unreachable", result.Authorizer)
	assert.Contains(t, result.Details, "authorizer_error")
}
