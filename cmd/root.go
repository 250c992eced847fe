package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"devsync/config"
)

var (
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "devsync",
	Short: "Workspace file sync and environment management tool",
	Long: `devsync is a command-line companion for a remote development workspace.
It downloads files and folders from the workspace object store, uploads local
changes back, and drives the local sidecar agent that manages the remote
environment lifecycle.
Configuration is loaded from .env file or environment variables`,
}

func Execute(config *config.Config) error {
	cfg = config
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(bucketInfoCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(envCmd)

	rootCmd.PersistentFlags().StringP("bucket", "b", "", "Override bucket name from config")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
}

func getBucketName(cmd *cobra.Command) string {
	bucket, _ := cmd.Flags().GetString("bucket")
	if bucket != "" {
		return bucket
	}
	return cfg.BucketName
}

func isVerbose(cmd *cobra.Command) bool {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return verbose
}

// newLogger builds the logger injected into the transfer and sidecar
// layers. Verbose mode lowers the level to debug; either way the JSON
// result payloads still go to stdout separately.
func newLogger(cmd *cobra.Command) *zap.Logger {
	level := zap.InfoLevel
	if isVerbose(cmd) {
		level = zap.DebugLevel
	}

	zapConfig := zap.NewDevelopmentConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.OutputPaths = []string{"stderr"}

	logger, err := zapConfig.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
