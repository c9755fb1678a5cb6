// metrics.go
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

package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Admin counts admin mutations per view
type Admin struct {
	deleted   *prometheus.CounterVec
	conflicts *prometheus.CounterVec
	edits     *prometheus.CounterVec
	selection *prometheus.CounterVec
}

// NewAdmin creates the admin counters and registers them with reg
func NewAdmin(namespace string, reg prometheus.Registerer) (*Admin, error) {
	m := &Admin{
		deleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "admin",
			Name:      "records_deleted_total",
			Help:      "Records deleted by the delete action.",
		}, []string{"view"}),
		conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "admin",
			Name:      "delete_conflicts_total",
			Help:      "Records kept because other records depend on them.",
		}, []string{"view"}),
		edits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "admin",
			Name:      "inline_edits_total",
			Help:      "Inline edit requests by column and outcome.",
		}, []string{"view", "column", "saved"}),
		selection: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "admin",
			Name:      "column_selections_total",
			Help:      "Saved column selections.",
		}, []string{"view"}),
	}

	for _, c := range []prometheus.Collector{m.deleted, m.conflicts, m.edits, m.selection} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Deleted counts the outcome of one delete action
func (m *Admin) Deleted(view string, deleted, conflicts int) {
	m.deleted.WithLabelValues(view).Add(float64(deleted))
	m.conflicts.WithLabelValues(view).Add(float64(conflicts))
}

// Edited counts one inline edit request
func (m *Admin) Edited(view, column string, saved bool) {
	m.edits.WithLabelValues(view, column, strconv.FormatBool(saved)).Inc()
}

// ColumnsSelected counts one saved column selection
func (m *Admin) ColumnsSelected(view string) {
	m.selection.WithLabelValues(view).Inc()
}
