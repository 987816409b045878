package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tabload/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "tabload",
	Short: "Load tabular files into Snowflake tables",
	Long: "tabload - A batch CLI that bulk-loads CSV and Excel files into Snowflake,\n" +
		"inferring column types from sample data and streaming rows in bounded batches.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.ShowError(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(home + "/.tabload")
	}

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found is okay; flags and environment suffice
	}
}
