package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// ErrActionFailed — действие выполнено со статусом error.
// Результат уже выведен, команда завершается с ненулевым кодом.
var ErrActionFailed = errors.New("action failed")

// NewActionCmd создаёт группу команд для выполнения действий.
func NewActionCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "action",
		Short: "Execute and validate actions",
	}

	cmd.AddCommand(
		newActionExecCmd(clientFn, outputFn),
		newActionValidateCmd(clientFn, outputFn),
		newActionKindsCmd(clientFn, outputFn),
	)

	return cmd
}

func newActionExecCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var configFile string
	var instanceFile string
	var extra map[string]string
	var async bool

	cmd := &cobra.Command{
		Use:   "exec",
		Short: "Execute an action against a workflow instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			config, err := readJSON(cmd.InOrStdin(), configFile)
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			req := ExecuteRequest{Config: config}
			if instanceFile != "" {
				if req.Instance, err = readJSON(cmd.InOrStdin(), instanceFile); err != nil {
					return fmt.Errorf("failed to read instance: %w", err)
				}
			}
			if len(extra) > 0 {
				req.Extra = make(map[string]any, len(extra))
				for k, v := range extra {
					req.Extra[k] = v
				}
			}

			if async {
				queued, err := client.EnqueueAction(req)
				if err != nil {
					return err
				}
				out.Queued(queued)
				return nil
			}

			result, err := client.ExecuteAction(req)
			if err != nil {
				return err
			}

			out.Result(result)
			if result.Status == "error" {
				return ErrActionFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "Path to action config JSON, - for stdin (required)")
	cmd.Flags().StringVar(&instanceFile, "instance", "", "Path to workflow instance JSON")
	cmd.Flags().StringToStringVar(&extra, "extra", nil, "Extra template context (key=value)")
	cmd.Flags().BoolVar(&async, "async", false, "Queue the action for the worker instead of waiting")
	cmd.MarkFlagRequired("config")

	return cmd
}

func newActionValidateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an action config without executing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			config, err := readJSON(cmd.InOrStdin(), configFile)
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			if err := client.ValidateAction(config); err != nil {
				return err
			}

			out.Info("Config is valid")
			return nil
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "Path to action config JSON, - for stdin (required)")
	cmd.MarkFlagRequired("config")

	return cmd
}

func newActionKindsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List supported action kinds",
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := clientFn().ListKinds()
			if err != nil {
				return err
			}

			outputFn().List("KIND", kinds)
			return nil
		},
	}
}

// readJSON читает JSON из файла или stdin ("-") и проверяет синтаксис.
func readJSON(stdin io.Reader, path string) (json.RawMessage, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("%s is not valid JSON", path)
	}
	return json.RawMessage(data), nil
}
