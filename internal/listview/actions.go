// actions.go
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

package listview

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/gutils-admin/internal/columns"
	"github.com/localnerve/gutils-admin/internal/forms"
	"github.com/localnerve/gutils-admin/internal/render"
	"github.com/localnerve/gutils-admin/internal/types"
	"github.com/localnerve/gutils-admin/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var forUpdate = clause.Locking{Strength: "UPDATE"}

// actionDelete deletes the selected records of the current list, one savepoint per record
func (h *Handler[T]) actionDelete(r *Request[T]) error {
	if !h.canDelete(r) {
		r.Flash(LevelError, "You do not have permission to delete these records.")
		return nil
	}
	ids := r.IDs()
	if len(ids) == 0 {
		r.Flash(LevelWarning, "No records selected.")
		return nil
	}

	deleted, conflicts := 0, 0
	err := r.DB().Transaction(func(tx *gorm.DB) error {
		db, ok, err := r.Records(tx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		items := []T{}
		err = db.Clauses(forUpdate).Where(clause.IN{Column: clause.PrimaryColumn, Values: uintValues(ids)}).Find(&items).Error
		if err != nil {
			return err
		}

		for i := range items {
			item := &items[i]
			err := tx.Transaction(func(tx *gorm.DB) error {
				return tx.Delete(item).Error
			})
			switch {
			case err == nil:
				deleted++
			case IsConflict(err):
				conflicts++
				r.Flash(LevelError, fmt.Sprintf("Impossible delete %v: other records depend on it.", item))
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.Flash(LevelSuccess, fmt.Sprintf("%d deleted.", deleted))
	if h.Metrics != nil {
		h.Metrics.Deleted(h.View.Name, deleted, conflicts)
	}
	r.Log().Info("records deleted",
		zap.Int("requested", len(ids)),
		zap.Int("deleted", deleted),
		zap.Int("conflicts", conflicts),
	)
	return nil
}

// actionSelectColumns persists the posted column names known to the view
func (h *Handler[T]) actionSelectColumns(r *Request[T]) error {
	if h.Store == nil || !h.View.AllowSelectColumns {
		return &types.CustomError{
			Code:    fiber.StatusNotFound,
			Message: "Column selection is not enabled",
			Type:    "action",
			Err:     types.ErrNotFound,
		}
	}
	if r.User == nil {
		r.Flash(LevelError, "Sign in to choose the visible columns.")
		return nil
	}

	names := r.Columns.Known(r.Values["columns"])
	if err := h.Store.SetSelected(r.Ctx.UserContext(), r.User.ID, h.identity(r), names); err != nil {
		return err
	}
	if h.Metrics != nil {
		h.Metrics.ColumnsSelected(h.View.Name)
	}
	return nil
}

// actionEdit serves both phases of the inline edit protocol
func (h *Handler[T]) actionEdit(r *Request[T]) error {
	id := r.param("id")
	name := r.param("_column")
	save := r.Values.Has("_save")
	if !h.canEdit(r) {
		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: "You do not have permission to edit these records",
			Type:    "permission",
			Err:     types.ErrForbidden,
		}
	}

	resp := utils.EditResponseStruct{}
	err := r.DB().Transaction(func(tx *gorm.DB) error {
		db := r.Base(tx)
		if save {
			db = db.Clauses(forUpdate)
		}
		item := new(T)
		err := db.Where(primaryKeyEq(recordKey(id))).Take(item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &types.CustomError{
				Code:    fiber.StatusNotFound,
				Message: fmt.Sprintf("Record %q not found", id),
				Type:    "edit",
				Err:     types.ErrNotFound,
			}
		}
		if err != nil {
			return err
		}

		col, ok := r.Columns.Get(name)
		if !ok || !col.Editable {
			return &types.CustomError{
				Code:    fiber.StatusNotFound,
				Message: fmt.Sprintf("Column %q is not editable", name),
				Type:    "edit",
				Err:     types.ErrNotEditable,
			}
		}

		form, err := h.editForm(col)
		if err != nil {
			return err
		}
		if form.Initial == nil {
			form.Initial = map[string]any{}
		}
		for _, field := range form.Names() {
			if value, ok := columns.Resolve(item, field); ok {
				form.Initial[field] = value
			}
		}
		form.AutoID = fmt.Sprintf("id_%s_%s_%%s", id, name)

		if !save {
			resp.Success = true
			resp.Content, err = h.Render.Render(render.ItemListEdit, EditContext{ID: id, Column: name, Form: form})
			return err
		}

		if !form.Bind(r.Values).IsValid() {
			resp.Content, err = h.Render.Render(render.ItemListEdit, EditContext{ID: id, Column: name, Form: form})
			return err
		}

		updates := make(map[string]any, len(form.Cleaned))
		for field, value := range form.Cleaned {
			if meta, ok := h.meta.Field(field); ok && meta.DBName != "" {
				field = meta.DBName
			}
			updates[field] = value
		}
		if err := tx.Model(item).Updates(updates).Error; err != nil {
			return err
		}
		if err := r.Base(tx).Where(primaryKeyEq(recordKey(id))).Take(item).Error; err != nil {
			return err
		}

		visible, _ := h.visibleColumns(r.Ctx.UserContext(), r)
		resp.Success = true
		resp.Content, err = h.Render.Render(render.TableRow, h.row(item, visible, h.canDelete(r)))
		return err
	})
	if err != nil {
		return err
	}

	if h.Metrics != nil {
		h.Metrics.Edited(h.View.Name, name, save && resp.Success)
	}
	if save {
		r.Log().Debug("inline edit", zap.String("id", id), zap.String("column", name), zap.Bool("saved", resp.Success))
	}
	return r.JSON(resp)
}

// editForm picks the form of an editable column: its own, the view form
// pruned to the column fields, or one derived from the model.
func (h *Handler[T]) editForm(col *columns.Bound) (*forms.Form, error) {
	if col.EditForm != nil {
		return col.EditForm(), nil
	}
	fields := col.FieldNames()
	if h.View.EditForm != nil {
		form := h.View.EditForm()
		form.Prune(fields)
		return form, nil
	}
	return forms.ForModel(h.meta.Schema(), fields)
}

// param reads a value posted in the body, or given in the url
func (r *Request[T]) param(name string) string {
	if v := r.Values.Get(name); v != "" {
		return v
	}
	return r.Query.Get(name)
}

func recordKey(id string) any {
	if n, err := strconv.ParseUint(id, 10, 64); err == nil {
		return n
	}
	return id
}

func uintValues(ids []uint64) []any {
	values := make([]any, len(ids))
	for i, id := range ids {
		values[i] = id
	}
	return values
}

// IsConflict reports whether err means dependent records blocked a delete
func IsConflict(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated) || errors.Is(err, types.ErrReferentialIntegrity)
}
