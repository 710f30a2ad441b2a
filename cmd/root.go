package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
)

const defaultConfigPath = "config.yaml"

var (
	cfgPath string
	rootCmd = &cobra.Command{
		Use:           "iovox-sms",
		Short:         "Send SMS through the IOVOX API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath, "path to YAML config file")
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

// configPath returns the config file to load. The default file is optional; an explicit --config must exist.
func configPath() string {
	return resolveConfigPath(cfgPath, rootCmd.PersistentFlags().Changed("config"))
}

func resolveConfigPath(path string, explicit bool) string {
	if explicit || path != defaultConfigPath {
		return path
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return ""
	}
	return path
}
