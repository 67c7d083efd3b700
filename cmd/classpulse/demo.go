package main

import (
	"classpulse/internal/config"
	"classpulse/internal/logger"
	"classpulse/internal/seed"
	"classpulse/internal/service"
	"encoding/json"

	"github.com/spf13/cobra"
)

func runDemo(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	flowSvc := service.NewFlowService(service.FlowConfig{
		JoinBaseURL: cfg.Share.JoinBaseURL,
		HelpContact: cfg.Share.HelpContact,
	}, nil, service.NewCodes(), service.NewAnalyticsService(), log.Named("flow"))

	insights, err := seed.Walkthrough(cmd.Context(), flowSvc)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(insights)
}
