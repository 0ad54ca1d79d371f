package main

import (
	"datadetox/internal/server"
	"datadetox/internal/util"
	"datadetox/pkg/logger"
	"datadetox/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
