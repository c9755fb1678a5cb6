// testcontainers.go
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

// This file is a helper for running tests with testcontainers.
// It is used by the integration tests and by the standalone cmd/testcontainers executable.
// Expects environment variables to be loaded from .env files.

package helpers

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/localnerve/gutils-admin/data"
	"github.com/localnerve/gutils-admin/internal/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

// AdminImage is the image tag the admin server is built under
const AdminImage = "gutils-admin-test:latest"

// TestContainers are the containers of one test environment
type TestContainers struct {
	Network        *testcontainers.DockerNetwork
	DBContainer    testcontainers.Container
	AdminContainer testcontainers.Container

	// DBConfig reaches the database from the host.
	DBConfig *config.Config
}

// Terminate stops every started container
func (tc *TestContainers) Terminate(t *testing.T) {
	ctx := context.Background()
	for name, c := range map[string]testcontainers.Container{
		"admin":   tc.AdminContainer,
		"MariaDB": tc.DBContainer,
	} {
		if c == nil {
			continue
		}
		if err := c.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate %s: %v", name, err)
		}
	}
	if tc.Network != nil {
		if err := tc.Network.Remove(ctx); err != nil {
			logMessage(t, "Failed to remove network: %v", err)
		}
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// StartMariaDB starts a MariaDB container with the admin schema and users created.
// networkName may be empty.
func StartMariaDB(ctx context.Context, t *testing.T, networkName string) (testcontainers.Container, *config.Config, error) {
	port, err := nat.NewPort("tcp", "3306")
	if err != nil {
		return nil, nil, err
	}

	req := testcontainers.ContainerRequest{
		Image:        env("DB_IMAGE", "mariadb:11"),
		ExposedPorts: []string{string(port)},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": env("DB_ROOT_PASSWORD", "rootpass"),
			"MYSQL_DATABASE":      env("DB_APP_DATABASE", "gutils_admin"),
			"MYSQL_USER":          env("DB_APP_USER", "admin_app"),
			"MYSQL_PASSWORD":      env("DB_APP_PASSWORD", "admin_pass"),
		},
		WaitingFor: wait.ForListeningPort(port).WithStartupTimeout(90 * time.Second),
	}
	if networkName != "" {
		req.Networks = []string{networkName}
		req.NetworkAliases = map[string][]string{networkName: {env("DB_HOST", "mariadb")}}
	}

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start MariaDB: %w", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		return c, nil, err
	}
	mapped, err := c.MappedPort(ctx, port)
	if err != nil {
		return c, nil, err
	}

	cfg := &config.Config{
		DBType:               "mariadb",
		DBHost:               host,
		DBPort:               mapped.Port(),
		DBAppDatabase:        req.Env["MYSQL_DATABASE"],
		DBAppUser:            req.Env["MYSQL_USER"],
		DBAppPassword:        req.Env["MYSQL_PASSWORD"],
		DBAppConnectionLimit: 5,
		DBLogLevel:           "silent",
	}
	if err := initMariaDB(t, cfg, req.Env["MYSQL_ROOT_PASSWORD"]); err != nil {
		return c, nil, err
	}
	logMessage(t, "MariaDB ready at %s:%s", host, mapped.Port())
	return c, cfg, nil
}

func initMariaDB(t *testing.T, cfg *config.Config, rootPassword string) error {
	db, err := sql.Open("mysql", fmt.Sprintf("root:%s@tcp(%s:%s)/%s?multiStatements=false",
		rootPassword, cfg.DBHost, cfg.DBPort, cfg.DBAppDatabase))
	if err != nil {
		return fmt.Errorf("failed to open MariaDB: %w", err)
	}
	defer db.Close()

	for i := 0; ; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		if i == 30 {
			return fmt.Errorf("MariaDB not ready after 30 seconds: %w", err)
		}
		time.Sleep(time.Second)
	}

	vars := map[string]string{
		"DB_APP_DATABASE": cfg.DBAppDatabase,
		"DB_APP_USER":     cfg.DBAppUser,
	}
	for name, script := range map[string]string{
		"tables":     data.InitdbMariaDBTables,
		"privileges": data.InitdbMariaDBPrivileges,
	} {
		if err := ExecuteSQL(db, script, vars); err != nil {
			return fmt.Errorf("failed to execute %s init sql: %w", name, err)
		}
		logMessage(t, "Executed %s init sql", name)
	}
	return nil
}

// ExecuteSQL runs the statements of script one by one after expanding ${VAR} references.
// Lines starting with "--" are comments, statements end with ";" at the end of a line.
func ExecuteSQL(db *sql.DB, script string, vars map[string]string) error {
	script = os.Expand(script, func(name string) string { return vars[name] })

	var stmt strings.Builder
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		stmt.WriteString(line)
		stmt.WriteString("\n")
		if !strings.HasSuffix(trimmed, ";") {
			continue
		}
		q := strings.TrimSuffix(strings.TrimSpace(stmt.String()), ";")
		stmt.Reset()
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("%w: when executing > %s", err, q)
		}
	}
	return nil
}

// CreateAllTestContainers starts MariaDB and the admin server on one network.
// The admin image is built from the repository Dockerfile when missing.
func CreateAllTestContainers(t *testing.T) (*TestContainers, error) {
	ctx := context.Background()
	tc := &TestContainers{}

	nw, err := network.New(ctx)
	if err != nil {
		return tc, fmt.Errorf("failed to create network: %w", err)
	}
	tc.Network = nw

	tc.DBContainer, tc.DBConfig, err = StartMariaDB(ctx, t, nw.Name)
	if err != nil {
		tc.Terminate(t)
		return nil, err
	}

	port, err := nat.NewPort("tcp", env("PORT", "3000"))
	if err != nil {
		tc.Terminate(t)
		return nil, err
	}

	req := testcontainers.ContainerRequest{
		ExposedPorts: []string{string(port)},
		Env: map[string]string{
			"DB_TYPE":                 "mariadb",
			"DB_HOST":                 env("DB_HOST", "mariadb"),
			"DB_PORT":                 "3306",
			"DB_APP_DATABASE":         tc.DBConfig.DBAppDatabase,
			"DB_APP_USER":             tc.DBConfig.DBAppUser,
			"DB_APP_PASSWORD":         tc.DBConfig.DBAppPassword,
			"DB_APP_CONNECTION_LIMIT": "5",
			"AUTHZ_URL":               env("AUTHZ_URL", "http://authorizer:8080"),
			"AUTHZ_CLIENT_ID":         env("AUTHZ_CLIENT_ID", "test_client"),
			"SESSION_SECURE":          "false",
			"PORT":                    port.Port(),
		},
		WaitingFor: wait.ForHTTP("/metrics").WithPort(port).WithStartupTimeout(60 * time.Second),
		Networks:   []string{nw.Name},
	}

	exists, err := imageExists(ctx, AdminImage)
	if err != nil {
		tc.Terminate(t)
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	if exists {
		logMessage(t, "Image %s exists, reusing...", AdminImage)
		req.Image = AdminImage
	} else {
		logMessage(t, "Image %s does not exist, building...", AdminImage)
		session := uuid.NewString()
		repo, tag, _ := strings.Cut(AdminImage, ":")
		req.FromDockerfile = testcontainers.FromDockerfile{
			Context:    env("TESTCONTAINERS_BUILD_CONTEXT", "../.."),
			Dockerfile: "Dockerfile",
			Repo:       repo,
			Tag:        tag,
			KeepImage:  true,
			BuildArgs: map[string]*string{
				"RESOURCE_REAPER_SESSION_ID": &session,
			},
			BuildOptionsModifier: func(opts *build.ImageBuildOptions) {
				opts.Target = "runtime"
			},
			PrintBuildLog: true,
		}
	}

	tc.AdminContainer, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		tc.Terminate(t)
		return nil, fmt.Errorf("failed to start admin: %w", err)
	}

	host, _ := tc.AdminContainer.Host(ctx)
	mapped, _ := tc.AdminContainer.MappedPort(ctx, port)
	logMessage(t, "BASE_URL=http://%s:%s", host, mapped.Port())
	return tc, nil
}

func imageExists(ctx context.Context, name string) (bool, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return false, err
	}
	defer cli.Close()

	images, err := cli.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return false, err
	}
	for _, img := range images {
		for _, tag := range img.RepoTags {
			if tag == name {
				return true, nil
			}
		}
	}
	return false, nil
}

func logMessage(t *testing.T, format string, args ...any) {
	if t != nil {
		t.Helper()
		t.Logf(format, args...)
		return
	}
	fmt.Printf(format+"\n", args...)
}
