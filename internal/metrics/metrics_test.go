// metrics_test.go
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
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewAdmin("test", reg)
	require.NoError(t, err)

	m.Deleted("customers", 3, 1)
	m.Deleted("customers", 2, 0)
	m.Edited("customers", "name", true)
	m.Edited("customers", "name", false)
	m.ColumnsSelected("orders")

	assert.Equal(t, 5.0, testutil.ToFloat64(m.deleted.WithLabelValues("customers")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.conflicts.WithLabelValues("customers")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.edits.WithLabelValues("customers", "name", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.selection.WithLabelValues("orders")))

	_, err = NewAdmin("test", reg)
	assert.Error(t, err)
}
