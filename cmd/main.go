package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/vantyr-labs/raid6-engine/internal/cobra"
	"github.com/vantyr-labs/raid6-engine/internal/config"
	"github.com/vantyr-labs/raid6-engine/internal/logger"
)

func main() {

	if err := logger.InitLogger(config.LogLevelInfo); err != nil {
		logrus.Fatalf(("Error initializing Logger : %v"), err)
	}

	if err := cobra.ExecuteCmd(); err != nil {
		logrus.Errorf("Error executing command: %v", err)
		os.Exit(1)
	}
}
