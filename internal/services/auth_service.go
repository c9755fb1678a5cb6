// auth_service.go
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
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	authorizer "github.com/localnerve/authorizer-go"
	"github.com/localnerve/gutils-admin/internal/config"
	"github.com/localnerve/gutils-admin/internal/types"
	"github.com/localnerve/gutils-admin/internal/utils"
	"go.uber.org/zap"
)

// ErrInvalidSession reports a session cookie the authorizer rejected
var ErrInvalidSession = errors.New("session is not valid")

// SessionValidator resolves a session cookie into the signed in user
type SessionValidator interface {
	ValidateSession(cookie string) (*types.User, error)
}

// Authorizer validates admin sessions against an authorizer service
type Authorizer struct {
	cfg  *config.Config
	log  *zap.Logger
	once sync.Once
	err  error

	client *authorizer.AuthorizerClient
}

// NewAuthorizer creates an authorizer, the client connects on first use
func NewAuthorizer(cfg *config.Config, log *zap.Logger) *Authorizer {
	return &Authorizer{cfg: cfg, log: log}
}

// Init creates the authorizer client once, redirecting back to baseURL
func (a *Authorizer) Init(baseURL string) error {
	a.once.Do(func() {
		if err := utils.PingAuthorizer(a.cfg.AuthzURL); err != nil {
			a.err = fmt.Errorf("authorizer ping failed: %w", err)
			return
		}

		a.log.Info("initializing authorizer",
			zap.String("url", a.cfg.AuthzURL),
			zap.String("clientID", a.cfg.AuthzClientID),
			zap.String("redirect", baseURL),
		)

		client, err := authorizer.NewAuthorizerClient(a.cfg.AuthzClientID, a.cfg.AuthzURL, baseURL, nil)
		if err != nil {
			a.err = fmt.Errorf("failed to create authorizer client: %w", err)
			return
		}
		a.client = client
	})
	return a.err
}

// Initialized reports whether the client is ready
func (a *Authorizer) Initialized() bool {
	return a.client != nil
}

// ValidateSession validates cookie and returns the session user
func (a *Authorizer) ValidateSession(cookie string) (*types.User, error) {
	if a.client == nil {
		return nil, errors.New("authorizer client not initialized")
	}

	res, err := a.client.ValidateSession(&authorizer.ValidateSessionInput{
		Cookie: cookie,
	})
	if err != nil {
		return nil, fmt.Errorf("session validation failed: %w", err)
	}
	if res == nil || !res.IsValid || res.User == nil {
		return nil, ErrInvalidSession
	}

	return userFrom(res.User)
}

// userFrom converts an authorizer user through its JSON form
func userFrom(v any) (*types.User, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session user: %w", err)
	}
	user := &types.User{}
	if err := json.Unmarshal(raw, user); err != nil {
		return nil, fmt.Errorf("failed to decode session user: %w", err)
	}
	if user.ID == "" {
		return nil, ErrInvalidSession
	}
	return user, nil
}
