package main

import (
	"log"
)

// @title ClassPulse API
// @version 1.0
// @description Live classroom polling: courses, sessions, PIN join and analytics
// @host localhost:8080
// @BasePath /v1
func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}
