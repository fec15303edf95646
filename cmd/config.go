package cmd

import (
	"fmt"
	"os"
	"ranobelib-downloader/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective config",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig, config.Options{Debug: flagDebug, Headed: flagHeaded})
		if err != nil {
			return err
		}
		fmt.Printf("Config file: %s\n\n", flagConfig)
		cfg.Print()
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(flagConfig); err == nil {
			return fmt.Errorf("%s already exists", flagConfig)
		}
		if err := config.SaveYAML(config.DefaultConfig(), flagConfig); err != nil {
			return err
		}
		fmt.Println("Created:", flagConfig)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	RootCmd.AddCommand(configCmd)
}
