/*
Copyright 2025 Clearline Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/clearline-finance/clearline"
	"github.com/clearline-finance/clearline/config"
	"github.com/clearline-finance/clearline/database"
	"github.com/clearline-finance/clearline/internal/notification"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Clearline represents the CLI application, encapsulating the root Cobra command.
type Clearline struct {
	cmd *cobra.Command
}

// clearlineInstance holds the Clearline service instance and its configuration.
// It is shared by the subcommands so they all operate on the same service.
type clearlineInstance struct {
	service *clearline.Clearline
	cnf     *config.Configuration
}

// recoverPanic handles any panics during program execution and logs the error using Logrus.
func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun sets up the configuration and initializes the Clearline instance before running any command.
func preRun(app *clearlineInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("clearline.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		service, err := setupClearline(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.service = service
		app.cnf = cnf

		return nil
	}
}

// setupClearline creates and initializes a new Clearline service from the provided configuration.
// It connects the data source and wires in the HTTP reconciliation engine client.
func setupClearline(cfg *config.Configuration) (*clearline.Clearline, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	service, err := clearline.NewClearline(db, clearline.NewHTTPReconEngine())
	if err != nil {
		return nil, fmt.Errorf("error creating clearline: %v", err)
	}
	return service, nil
}

// NewCLI creates the command-line interface for the Clearline application.
// It sets up the root command and the server, worker and migration subcommands.
func NewCLI() *Clearline {
	var configFile string
	b := &clearlineInstance{}

	var rootCmd = &cobra.Command{
		Use:   "clearline",
		Short: "Reconciliation task processing engine",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./clearline.json", "Configuration file for clearline")

	rootCmd.PersistentPreRunE = preRun(b)

	rootCmd.AddCommand(serverCommands(b))
	rootCmd.AddCommand(workerCommands(b))
	rootCmd.AddCommand(migrateCommands(b))

	return &Clearline{cmd: rootCmd}
}

// executeCLI runs the root command, handling any errors that occur during execution.
func (w Clearline) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
