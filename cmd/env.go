package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"devsync/internal/sidecar"
	"devsync/pkg/utils"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Manage the remote development environment via the local agent",
	Long: `Manage the remote development environment through the sidecar agent
listening on the local loopback port (SIDECAR_PORT from config).

The agent exposes a fixed contract: start the environment, create a
devfile, and report the current status (PENDING, STABLE or CHANGED).`,
}

var envStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the remote environment",
	Example: `  # Start the environment at the configured workspace
  devsync env start

  # Start from a specific location, recreating home volumes
  devsync env start --location /projects/app --recreate-home`,
	Run: func(cmd *cobra.Command, args []string) {
		runEnvStart(cmd)
	},
}

var envStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report the environment status",
	Run: func(cmd *cobra.Command, args []string) {
		runEnvStatus(cmd)
	},
}

var envDevfileCmd = &cobra.Command{
	Use:   "devfile [path]",
	Short: "Create a devfile for the environment",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runEnvDevfile(cmd, args)
	},
}

func runEnvStart(cmd *cobra.Command) {
	location, _ := cmd.Flags().GetString("location")
	recreateHome, _ := cmd.Flags().GetBool("recreate-home")

	client := sidecarClient(cmd)

	ctx, cancel := context.WithTimeout(context.Background(), envTimeout(cmd))
	defer cancel()

	if isVerbose(cmd) {
		cmd.Printf("Starting environment (workspace: %s)...\n", cfg.WorkspaceID)
	}

	err := client.Start(ctx, sidecar.StartRequest{
		Location:            location,
		RecreateHomeVolumes: recreateHome,
	})
	if err != nil {
		utils.PrintError(err, "env start")
		return
	}

	result := map[string]interface{}{
		"workspace_id":   cfg.WorkspaceID,
		"location":       location,
		"recreate_home":  recreateHome,
		"operation_time": utils.FormatTime(time.Now()),
	}
	if err := utils.PrintJSON(result); err != nil {
		utils.PrintError(err, "env start")
		return
	}

	if isVerbose(cmd) {
		cmd.Println("Environment start requested successfully")
	}
}

func runEnvStatus(cmd *cobra.Command) {
	client := sidecarClient(cmd)

	ctx, cancel := context.WithTimeout(context.Background(), envTimeout(cmd))
	defer cancel()

	status, err := client.Status(ctx)
	if err != nil {
		utils.PrintError(err, "env status")
		return
	}

	if err := utils.PrintJSON(status); err != nil {
		utils.PrintError(err, "env status")
		return
	}
}

func runEnvDevfile(cmd *cobra.Command, args []string) {
	path := args[0]

	client := sidecarClient(cmd)

	ctx, cancel := context.WithTimeout(context.Background(), envTimeout(cmd))
	defer cancel()

	if isVerbose(cmd) {
		cmd.Printf("Creating devfile at: %s\n", path)
	}

	location, err := client.CreateDevfile(ctx, path)
	if err != nil {
		utils.PrintError(err, "env devfile")
		return
	}

	result := map[string]interface{}{
		"path":           path,
		"location":       location,
		"operation_time": utils.FormatTime(time.Now()),
	}
	if err := utils.PrintJSON(result); err != nil {
		utils.PrintError(err, "env devfile")
		return
	}
}

func sidecarClient(cmd *cobra.Command) *sidecar.Client {
	return sidecar.New(cfg.SidecarPort, newLogger(cmd))
}

func envTimeout(cmd *cobra.Command) time.Duration {
	timeout, _ := cmd.Flags().GetInt("timeout")
	return time.Duration(timeout) * time.Second
}

func init() {
	envCmd.AddCommand(envStartCmd)
	envCmd.AddCommand(envStatusCmd)
	envCmd.AddCommand(envDevfileCmd)

	envStartCmd.Flags().String("location", "", "Location to start the environment from")
	envStartCmd.Flags().Bool("recreate-home", false, "Recreate the environment's home volumes")
	envStartCmd.Flags().Int("timeout", 300, "Timeout in seconds for the operation")

	envStatusCmd.Flags().Int("timeout", 30, "Timeout in seconds for the operation")

	envDevfileCmd.Flags().Int("timeout", 60, "Timeout in seconds for the operation")
}
