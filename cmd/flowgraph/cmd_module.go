package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowgraph/flowgraph/internal/core/env"
	"github.com/flowgraph/flowgraph/pkg/flowgraph"
)

var moduleCmd = &cobra.Command{
	Use:   "module",
	Short: "Load extension modules",
}

var moduleLoadCmd = &cobra.Command{
	Use:   "load <path>",
	Short: "Load an extension package (directory, .zip, or .flowmod manifest)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := flowgraph.NewRuntime(env.Options{})
		defer rt.Shutdown()

		if err := rt.LoadModule(args[0]); err != nil {
			return fmt.Errorf("load module: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "loaded module from %s\n", args[0])
		for name := range rt.Env.Factory.Categories() {
			fmt.Fprintf(cmd.OutOrStdout(), "  category: %s\n", name)
		}
		return nil
	},
}

func init() {
	moduleCmd.AddCommand(moduleLoadCmd)
}
