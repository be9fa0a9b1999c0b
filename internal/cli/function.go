package cli

import (
	"github.com/spf13/cobra"
)

// NewFunctionCmd создаёт группу команд для реестра функций.
func NewFunctionCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "function",
		Short: "Inspect registered functions",
	}

	cmd.AddCommand(newFunctionListCmd(clientFn, outputFn))

	return cmd
}

func newFunctionListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List functions available to function actions",
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := clientFn().ListFunctions(prefix)
			if err != nil {
				return err
			}

			outputFn().List("NAME", names)
			return nil
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "Only names with this prefix (e.g. text.)")

	return cmd
}
