// Package commands implements the hermes CLI.
package commands

import (
	"errors"

	"github.com/lunagic/hermes/hermes"
	"github.com/lunagic/hermes/hermesservices/database"
	"github.com/spf13/cobra"
)

// session opens the configured database once per invocation.
type session struct {
	configFile string
	verbose    bool
	service    *database.Service
}

func (s *session) database() (*database.Service, error) {
	if s.service != nil {
		return s.service, nil
	}

	config, err := hermes.LoadConfig(s.configFile)
	if err != nil {
		return nil, err
	}

	cacheDriver, err := config.Cache()
	if err != nil {
		return nil, err
	}

	configFuncs := []database.ServiceConfigFunc{
		database.WithTableCache(cacheDriver, config.AppTableCacheTTL),
	}

	if s.verbose {
		config.AppLogLevel = "debug"
		logger, err := config.ZapLogger()
		if err != nil {
			return nil, err
		}
		configFuncs = append(configFuncs, database.WithZapLogger(logger))
	}

	service, err := config.Database(configFuncs...)
	if err != nil {
		return nil, err
	}

	s.service = service

	return service, nil
}

func (s *session) close() error {
	if s.service == nil {
		return nil
	}

	err := s.service.Close()
	s.service = nil

	return err
}

func NewRootCommand() *cobra.Command {
	s := &session{}

	cmd := &cobra.Command{
		Use:           "hermes",
		Short:         "Query and inspect SQL databases",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return s.close()
		},
	}

	cmd.PersistentFlags().StringVar(&s.configFile, "config", "", "Path to a config file")
	cmd.PersistentFlags().BoolVarP(&s.verbose, "verbose", "v", false, "Log every statement")

	cmd.AddCommand(NewTablesCommand(s))
	cmd.AddCommand(NewFindCommand(s))
	cmd.AddCommand(NewCountCommand(s))
	cmd.AddCommand(NewQueryCommand(s))
	cmd.AddCommand(NewRenderCommand())

	return cmd
}

var errCriteria = errors.New("criteria must look like column=value")
