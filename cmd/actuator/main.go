// Actuator CLI — инструмент командной строки для выполнения
// и проверки действий через HTTP API.
//
// Использование:
//
//	actuator [--api-url URL] [--json] <command> <subcommand> [flags]
//
// Команды:
//
//	action    Выполнение и проверка действий
//	function  Реестр функций
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/Actuator/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var apiURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "actuator",
		Short:         "Actuator CLI — workflow action engine",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultURL := "http://localhost:8080"
	if v := os.Getenv("ACTUATOR_API_URL"); v != "" {
		defaultURL = v
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", defaultURL, "API server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewActionCmd(clientFn, outputFn),
		cli.NewFunctionCmd(clientFn, outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		// Результат уже выведен
		if !errors.Is(err, cli.ErrActionFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
