package main

import (
	"fmt"

	"github.com/joho/godotenv"

	"github.com/temirov/snippets/internal/cli"
	"github.com/temirov/snippets/internal/utils"
)

// main is the entry point for the snippets command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger()
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer loggerInstance.Sync()

	// A missing .env file is not an error.
	_ = godotenv.Load()

	if applicationExecutionError := cli.Execute(loggerInstance); applicationExecutionError != nil {
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage + ": " + applicationExecutionError.Error())
	}
}
