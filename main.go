package main

import (
	"os"

	"modhost/cmd"
	"modhost/logger"

	_ "go.uber.org/automaxprocs/maxprocs"
)

func main() {
	logger.InitLogger(os.Getenv("LOG_PATH")) // Initialize the logger first
	defer logger.Sync()                      // Ensure logs are flushed on exit
	cmd.Execute()
}
