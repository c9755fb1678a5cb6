// store_test.go
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

package selection_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/localnerve/gutils-admin/internal/database"
	"github.com/localnerve/gutils-admin/internal/models"
	"github.com/localnerve/gutils-admin/internal/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *selection.GormStore {
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	return selection.NewGormStore(db, nil)
}

func TestSelectionRoundTrip(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	user := uuid.NewString()

	got, err := store.Selected(ctx, user, "customers")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, store.SetSelected(ctx, user, "customers", []string{"name", "email"}))
	got, err = store.Selected(ctx, user, "customers")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "email"}, got)

	require.NoError(t, store.SetSelected(ctx, user, "customers", []string{"status"}))
	got, err = store.Selected(ctx, user, "customers")
	require.NoError(t, err)
	assert.Equal(t, []string{"status"}, got)

	var count int64
	store.DB.Model(&models.AdminViewConf{}).Count(&count)
	assert.Equal(t, int64(1), count)

	got, err = store.Selected(ctx, user, "orders")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSelectionFallsBackToDefault(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	user := uuid.NewString()

	require.NoError(t, store.SetSelected(ctx, "", "customers", []string{"name"}))

	got, err := store.Selected(ctx, user, "customers")
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, got)

	require.NoError(t, store.SetSelected(ctx, user, "customers", []string{"email"}))
	got, err = store.Selected(ctx, user, "customers")
	require.NoError(t, err)
	assert.Equal(t, []string{"email"}, got)

	got, err = store.Selected(ctx, uuid.NewString(), "customers")
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, got)
}

func TestEmptySelectionDeletes(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	user := uuid.NewString()

	require.NoError(t, store.SetSelected(ctx, user, "customers", []string{"name"}))
	require.NoError(t, store.SetSelected(ctx, user, "customers", nil))

	got, err := store.Selected(ctx, user, "customers")
	require.NoError(t, err)
	assert.Empty(t, got)

	var count int64
	store.DB.Model(&models.AdminViewConf{}).Count(&count)
	assert.Zero(t, count)
}

func TestInvalidUser(t *testing.T) {
	store := newStore(t)

	_, err := store.Selected(context.Background(), "not-a-uuid", "customers")
	assert.Error(t, err)
	assert.Error(t, store.SetSelected(context.Background(), "not-a-uuid", "customers", []string{"a"}))
}
