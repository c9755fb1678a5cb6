// store.go
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

package selection

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/localnerve/gutils-admin/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store persists the columns a user selected for a view.
// An empty user id addresses the default selection of the view.
type Store interface {
	Selected(ctx context.Context, userID, view string) ([]string, error)
	SetSelected(ctx context.Context, userID, view string, names []string) error
}

// GormStore keeps selections in the admin_view_conf table
type GormStore struct {
	DB  *gorm.DB
	Log *zap.Logger
}

// NewGormStore creates a store on db
func NewGormStore(db *gorm.DB, log *zap.Logger) *GormStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &GormStore{DB: db, Log: log}
}

// Selected returns the user selection, falling back to the view default.
// An empty result means every column is shown.
func (s *GormStore) Selected(ctx context.Context, userID, view string) ([]string, error) {
	uid, err := parseUser(userID)
	if err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx).Session(&gorm.Session{Logger: s.DB.Logger.LogMode(logger.Silent)})
	if uid != nil {
		var conf models.AdminViewConf
		err := db.Where("user_id = ? AND view_name = ?", *uid, view).First(&conf).Error
		if err == nil {
			return conf.ColumnNames(), nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to read column selection of %s: %w", view, err)
		}
	}

	var conf models.AdminViewConf
	err = db.Where("user_id IS NULL AND view_name = ?", view).First(&conf).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read default column selection of %s: %w", view, err)
	}
	return conf.ColumnNames(), nil
}

// SetSelected stores names, an empty list removes the stored selection.
// Concurrent saves for the same key are last writer wins.
func (s *GormStore) SetSelected(ctx context.Context, userID, view string, names []string) error {
	uid, err := parseUser(userID)
	if err != nil {
		return err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scope := tx.Where("user_id IS NULL AND view_name = ?", view)
		if uid != nil {
			scope = tx.Where("user_id = ? AND view_name = ?", *uid, view)
		}

		if len(names) == 0 {
			return scope.Delete(&models.AdminViewConf{}).Error
		}

		joined := strings.Join(names, ",")
		var conf models.AdminViewConf
		return scope.
			Attrs(models.AdminViewConf{UserID: uid, ViewName: view}).
			Assign(models.AdminViewConf{SelectedColumns: &joined}).
			FirstOrCreate(&conf).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save column selection of %s: %w", view, err)
	}

	s.Log.Debug("column selection saved",
		zap.String("view", view),
		zap.String("user", userID),
		zap.Strings("columns", names))
	return nil
}

func parseUser(userID string) (*string, error) {
	if userID == "" {
		return nil, nil
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", userID, err)
	}
	s := id.String()
	return &s, nil
}
