// handler.go
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
	"net/url"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/localnerve/gutils-admin/internal/columns"
	"github.com/localnerve/gutils-admin/internal/render"
	"github.com/localnerve/gutils-admin/internal/selection"
	"github.com/localnerve/gutils-admin/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultPerPage is used when neither the view nor the deps set a page size
const DefaultPerPage = 50

// Checker decides whether a user holds every permission in perms
type Checker interface {
	HasPermissions(user *types.User, perms []string) bool
}

// Recorder counts admin mutations
type Recorder interface {
	Deleted(view string, deleted, conflicts int)
	Edited(view, column string, saved bool)
	ColumnsSelected(view string)
}

// Deps are the collaborators shared by every view handler
type Deps struct {
	DB       *gorm.DB
	Store    selection.Store
	Render   *render.Engine
	Perms    Checker
	Sessions *session.Store
	Log      *zap.Logger
	Metrics  Recorder

	PerPage  int
	LoginURL string
	Language string
	// App is the default permission prefix of views without one.
	App string
}

// Handler serves one View over HTTP
type Handler[T any] struct {
	View *View[T]
	Deps

	meta        *columns.SchemaMeta
	env         *columns.Env
	model       string
	viewPerms   []string
	editPerms   []string
	deletePerms []string
	actions     map[string]Action[T]
}

// NewHandler validates view and prepares its handler
func NewHandler[T any](view *View[T], deps Deps) (*Handler[T], error) {
	if view.Name == "" {
		return nil, errors.New("listview: view name is required")
	}
	if deps.DB == nil || deps.Render == nil {
		return nil, fmt.Errorf("listview %s: database and renderer are required", view.Name)
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.PerPage <= 0 {
		deps.PerPage = DefaultPerPage
	}

	meta, err := columns.ParseMeta(deps.DB, new(T))
	if err != nil {
		return nil, fmt.Errorf("listview %s: %w", view.Name, err)
	}

	h := &Handler[T]{
		View:  view,
		Deps:  deps,
		meta:  meta,
		model: strings.ToLower(meta.Schema().Name),
	}

	h.env = columns.NewEnv(meta, deps.Language)
	if view.EditURL != nil {
		h.env.EditURL = func(item any) string {
			return view.EditURL(item.(*T))
		}
	}
	if len(view.Override) > 0 {
		h.env.Override = make(map[string]func(item any) string, len(view.Override))
		for name, fn := range view.Override {
			fn := fn
			h.env.Override[name] = func(item any) string {
				return fn(item.(*T))
			}
		}
	}

	app := view.App
	if app == "" {
		app = deps.App
	}
	h.viewPerms = view.ViewPerms
	if h.viewPerms == nil && app != "" {
		h.viewPerms = []string{fmt.Sprintf("%s.view_%s", app, h.model)}
	}
	h.editPerms = view.EditPerms
	if h.editPerms == nil && app != "" {
		h.editPerms = []string{fmt.Sprintf("%s.edit_%s", app, h.model)}
	}
	h.deletePerms = view.DeletePerms
	if h.deletePerms == nil {
		h.deletePerms = h.editPerms
	}

	h.actions = map[string]Action[T]{
		"delete":         h.actionDelete,
		"select_columns": h.actionSelectColumns,
		"edit":           h.actionEdit,
	}
	for name, action := range view.Actions {
		h.actions[name] = action
	}

	if len(view.declarations()) == 0 {
		return nil, fmt.Errorf("listview %s: no columns declared", view.Name)
	}
	return h, nil
}

// Register mounts the list, action and inline edit routes under path
func (h *Handler[T]) Register(router fiber.Router, path string) {
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	router.Get(path, h.List).Name(h.View.Name)
	router.Post(path, h.Post)
	router.Get(path+"edit", h.Edit)
	router.Post(path+"edit", h.Edit)
}

// Permissions lists the view, edit and delete permissions the handler checks
func (h *Handler[T]) Permissions() []string {
	perms := append([]string{}, h.viewPerms...)
	groups := [][]string{h.editPerms}
	if h.View.AllowDelete {
		groups = append(groups, h.deletePerms)
	}
	for _, group := range groups {
		for _, p := range group {
			if !slices.Contains(perms, p) {
				perms = append(perms, p)
			}
		}
	}
	return perms
}

// Title returns the view title, the model table name by default
func (h *Handler[T]) Title() string {
	if h.View.Title != "" {
		return h.View.Title
	}
	return columns.UpperFirst(strings.ReplaceAll(h.meta.Schema().Table, "_", " "))
}

// List handles GET requests
func (h *Handler[T]) List(c *fiber.Ctx) error {
	r, err := h.begin(c)
	if r == nil {
		return err
	}

	if h.View.SaveQuery {
		if target := h.savedQuery(r); target != "" {
			return c.Redirect(target, fiber.StatusFound)
		}
	}

	page, err := h.paginate(r)
	if err != nil {
		return err
	}
	return h.renderList(r, page)
}

// Post dispatches the _action of a form submission
func (h *Handler[T]) Post(c *fiber.Ctx) error {
	r, err := h.begin(c)
	if r == nil {
		return err
	}
	return h.dispatch(r, r.Values.Get("_action"))
}

// Edit serves the inline edit protocol
func (h *Handler[T]) Edit(c *fiber.Ctx) error {
	r, err := h.begin(c)
	if r == nil {
		return err
	}
	return h.dispatch(r, "edit")
}

func (h *Handler[T]) dispatch(r *Request[T], name string) error {
	if name == "" {
		return h.redirectBack(r)
	}
	action, ok := h.actions[name]
	if !ok {
		return &types.CustomError{
			Code:    fiber.StatusNotFound,
			Message: fmt.Sprintf("Invalid action %q", name),
			Type:    "action",
			Err:     types.ErrNotFound,
		}
	}
	if err := action(r); err != nil {
		return err
	}
	if r.responded {
		return nil
	}
	return h.redirectBack(r)
}

func (h *Handler[T]) redirectBack(r *Request[T]) error {
	if err := h.saveMessages(r); err != nil {
		return err
	}
	return r.Ctx.Redirect(r.Ctx.OriginalURL(), fiber.StatusFound)
}

// begin checks view permissions and resolves the parent, columns and filter form.
// A nil request means the response was already written.
func (h *Handler[T]) begin(c *fiber.Ctx) (*Request[T], error) {
	user, _ := c.Locals(types.LocalsUser).(*types.User)
	if !h.allowed(user, h.viewPerms) {
		return nil, h.deny(c)
	}

	r := &Request[T]{
		Ctx:    c,
		User:   user,
		View:   h.View,
		Query:  queryValues(c),
		Values: postValues(c),
		h:      h,
	}

	if p := h.View.Parent; p != nil {
		param := p.Param
		if param == "" {
			param = "pk"
		}
		parent, err := p.Load(h.DB.WithContext(c.UserContext()), c.Params(param))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &types.CustomError{
				Code:    fiber.StatusNotFound,
				Message: fmt.Sprintf("Parent %q not found", c.Params(param)),
				Type:    "parent",
				Err:     types.ErrNotFound,
			}
		}
		if err != nil {
			return nil, err
		}
		r.Parent = parent
	}

	r.Columns = h.registry()
	if h.View.Configure != nil {
		if err := h.View.Configure(r); err != nil {
			return nil, err
		}
	}

	if h.View.Filter != nil {
		r.Filter = h.View.Filter()
		r.Filter.BindQuery(r.Query)
	}
	return r, nil
}

func (h *Handler[T]) registry() *columns.Registry {
	return columns.NewRegistry(h.env, h.View.declarations(), h.View.Excluded)
}

func (h *Handler[T]) allowed(user *types.User, perms []string) bool {
	if h.Perms == nil || len(perms) == 0 {
		return true
	}
	return h.Perms.HasPermissions(user, perms)
}

func (h *Handler[T]) deny(c *fiber.Ctx) error {
	if c.XHR() || h.LoginURL == "" {
		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: "You do not have permission to view this page",
			Type:    "permission",
			Err:     types.ErrForbidden,
		}
	}
	return c.Redirect(h.LoginURL+"?next="+url.QueryEscape(c.OriginalURL()), fiber.StatusFound)
}

func (h *Handler[T]) canEdit(r *Request[T]) bool {
	return h.allowed(r.User, h.editPerms)
}

func (h *Handler[T]) canDelete(r *Request[T]) bool {
	return h.View.AllowDelete && h.allowed(r.User, h.deletePerms)
}

func (h *Handler[T]) identity(r *Request[T]) string {
	if name, ok := r.Ctx.Locals(types.LocalsView).(string); ok && name != "" {
		return name
	}
	return h.View.Name
}
