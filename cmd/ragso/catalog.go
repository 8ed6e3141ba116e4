package main

import (
	"fmt"

	"github.com/aretw0/ragso/pkg/adapters/catalog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect catalog tables",
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check catalog tables for broken references",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.CatalogPath
		if len(args) > 0 {
			path = args[0]
		}
		tables, err := catalog.Load(path)
		if err != nil {
			return err
		}
		warnings, err := catalog.Validate(tables)
		for _, w := range warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
		}
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Catalog is valid: %d seats, %d biblios, %d items\n",
			len(tables.Seats), len(tables.Biblios), len(tables.Items))
		return nil
	},
}

var catalogDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the built-in sample catalog as YAML",
	Long:  `Prints the sample library so it can be edited and passed back with --catalog.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(catalog.Default())
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogValidateCmd, catalogDumpCmd)
}
