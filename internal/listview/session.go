// session.go
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
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/localnerve/gutils-admin/internal/forms"
	"go.uber.org/zap"
)

const (
	messagesKey = "_messages"
	queriesKey  = "_queries"
)

// Flash levels
const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// saveMessages appends the queued flash messages to the session
func (h *Handler[T]) saveMessages(r *Request[T]) error {
	if len(r.messages) == 0 || h.Sessions == nil {
		return nil
	}
	sess, err := h.Sessions.Get(r.Ctx)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	stored := []Message{}
	if raw, ok := sess.Get(messagesKey).(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &stored); err != nil {
			r.Log().Warn("dropping unreadable flash messages", zap.Error(err))
			stored = stored[:0]
		}
	}
	stored = append(stored, r.messages...)
	r.messages = nil

	encoded, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	sess.Set(messagesKey, string(encoded))
	return sess.Save()
}

// takeMessages returns the stored and queued flash messages, clearing the session copy
func (h *Handler[T]) takeMessages(r *Request[T]) ([]Message, error) {
	messages := []Message{}
	if h.Sessions != nil {
		sess, err := h.Sessions.Get(r.Ctx)
		if err != nil {
			return append(messages, r.messages...), err
		}
		if raw, ok := sess.Get(messagesKey).(string); ok && raw != "" {
			if err := json.Unmarshal([]byte(raw), &messages); err != nil {
				messages = messages[:0]
			}
			sess.Delete(messagesKey)
			if err := sess.Save(); err != nil {
				return messages, err
			}
		}
	}
	messages = append(messages, r.messages...)
	r.messages = nil
	return messages, nil
}

// savedQuery remembers the query string of the view in the session.
// It returns the url to redirect to when the request asks to restore it.
func (h *Handler[T]) savedQuery(r *Request[T]) string {
	if h.Sessions == nil {
		return ""
	}
	sess, err := h.Sessions.Get(r.Ctx)
	if err != nil {
		r.Log().Warn("saved query unavailable", zap.Error(err))
		return ""
	}

	saved := map[string]string{}
	if raw, ok := sess.Get(queriesKey).(string); ok && raw != "" {
		_ = json.Unmarshal([]byte(raw), &saved)
	}
	key := h.identity(r)

	if r.Query.Has("restore") {
		if q := saved[key]; q != "" {
			return r.Ctx.Path() + "?" + q
		}
		return ""
	}

	q := encodeQuery(r.Query, "format")
	if q == "" || saved[key] == q {
		return ""
	}
	saved[key] = q
	encoded, err := json.Marshal(saved)
	if err != nil {
		return ""
	}
	sess.Set(queriesKey, string(encoded))
	if err := sess.Save(); err != nil {
		r.Log().Warn("failed to save query", zap.Error(err))
	}
	return ""
}

func encodeQuery(values forms.Values, drop ...string) string {
	q := make(map[string][]string, len(values))
	for k, vs := range values {
		q[k] = vs
	}
	for _, d := range drop {
		delete(q, d)
	}
	return url.Values(q).Encode()
}
