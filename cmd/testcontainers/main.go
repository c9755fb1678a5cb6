// main.go
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

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/localnerve/gutils-admin/tests/helpers"
	"go.uber.org/zap"
)

const usage = `
Start MariaDB and the admin server in containers, configured from the environment.
The containers run until the process is interrupted.

Usage:

testcontainers [-h] [-f ENV_FILE_PATH]

ENV_FILE_PATH: path to a .env file applied before starting

example
  testcontainers -f /path/to/something/.env
`

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	flag.Parse()

	if showHelp {
		fmt.Print(usage + "\n")
		return
	}

	log, _ := zap.NewDevelopment()
	defer log.Sync()

	if envFilename != "" {
		log.Info("loading environment", zap.String("file", envFilename))
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatal("failed to load environment", zap.Error(err))
		}
	} else {
		log.Info("no environment file specified, using the current environment")
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	ready := make(chan *helpers.TestContainers, 1)
	go func() {
		tc, err := helpers.CreateAllTestContainers(nil)
		if err != nil {
			log.Fatal("failed to create test containers", zap.Error(err))
		}
		cfg := tc.DBConfig
		log.Info("containers ready",
			zap.String("db", fmt.Sprintf("%s:%s/%s", cfg.DBHost, cfg.DBPort, cfg.DBAppDatabase)),
			zap.String("user", cfg.DBAppUser),
		)
		ready <- tc
	}()

	var tc *helpers.TestContainers
	for tc == nil {
		select {
		case tc = <-ready:
		case sig := <-sigs:
			log.Warn("interrupted before the containers were ready", zap.String("signal", sig.String()))
			return
		}
	}

	sig := <-sigs
	log.Info("terminating test containers", zap.String("signal", sig.String()))
	tc.Terminate(nil)
}
