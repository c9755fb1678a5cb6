// permissions.go
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
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/localnerve/gutils-admin/internal/types"
	"gopkg.in/yaml.v3"
)

// Permissions maps roles to the permissions they grant
type Permissions struct {
	// Superuser is granted every permission.
	Superuser string              `yaml:"superuser"`
	Roles     map[string][]string `yaml:"roles"`
}

// LoadPermissions reads a YAML permission map from path
func LoadPermissions(path string) (*Permissions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read permissions: %w", err)
	}
	return ParsePermissions(data)
}

// ParsePermissions decodes a YAML permission map
func ParsePermissions(data []byte) (*Permissions, error) {
	p := &Permissions{}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse permissions: %w", err)
	}
	if p.Roles == nil {
		p.Roles = map[string][]string{}
	}
	return p, nil
}

// HasPermissions reports whether the roles of user grant every permission in perms.
// A role granting "<app>.*" holds every permission of app.
func (p *Permissions) HasPermissions(user *types.User, perms []string) bool {
	if user == nil {
		return false
	}
	if p.Superuser != "" && user.HasRole(p.Superuser) {
		return true
	}

	granted := map[string]bool{}
	for _, role := range user.Roles {
		for _, perm := range p.Roles[role] {
			granted[perm] = true
		}
	}
	for _, perm := range perms {
		if granted[perm] || granted["*"] {
			continue
		}
		if app, _, ok := strings.Cut(perm, "."); ok && granted[app+".*"] {
			continue
		}
		return false
	}
	return true
}

// Check fails when a permission is not granted by any role
func (p *Permissions) Check(perms []string) error {
	defined := map[string]bool{}
	for _, granted := range p.Roles {
		for _, perm := range granted {
			defined[perm] = true
		}
	}

	missing := []string{}
	for _, perm := range perms {
		app, _, _ := strings.Cut(perm, ".")
		if !defined[perm] && !defined[app+".*"] && !defined["*"] {
			missing = append(missing, perm)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("permissions not granted by any role: %s", strings.Join(missing, ", "))
	}
	return nil
}
