package main

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	seedDemo   bool

	rootCmd = &cobra.Command{
		Use:           "classpulse",
		Short:         "Live classroom polling server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and WebSocket server",
		RunE:  runServe, // serve.go
	}

	demoCmd = &cobra.Command{
		Use:   "demo",
		Short: "Run the create, join, answer and edit walkthrough and print the insights",
		RunE:  runDemo, // demo.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a config file (yaml, json or toml)")
	serveCmd.Flags().BoolVar(&seedDemo, "seed", false, "preload a demo course")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(demoCmd)
}
