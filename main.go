package main

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "humedad",
	Short: "ASTM D2216 moisture content service",
	Long: `humedad computes ASTM D2216 moisture-content results, checks specimen
mass against the particle size table and stores test records for the report
generator.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml (defaults only when empty)")
	rootCmd.AddCommand(serveCmd, calcCmd, tablaCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
