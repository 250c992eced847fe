package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"devsync/internal/models"
	"devsync/internal/s3client"
	"devsync/internal/transfer"
	"devsync/pkg/utils"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [directory]",
	Short: "Remove leftover partial downloads, or stale remote objects",
	Long: `Remove .partial files left behind by interrupted downloads.

Downloads write to a .partial file and rename it into place on success, so
a crash mid-transfer can leave partials behind. This command walks the
given directory (default: current directory) and deletes any .partial file
older than the cutoff.

With --remote, stale objects in the workspace bucket are deleted instead,
filtered by the same age cutoff under the --folder prefix.

WARNING: deletion is irreversible.`,
	Example: `  # Remove partial files older than a day under the current directory
  devsync clean --days 1

  # Clean a specific download directory
  devsync clean /tmp/downloads --days 7

  # Preview what would be removed
  devsync clean /tmp/downloads --days 7 --dry-run

  # Delete remote objects older than 30 days from a folder
  devsync clean --remote --folder "temp" --days 30 --confirm`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runClean(cmd, args)
	},
}

func runClean(cmd *cobra.Command, args []string) {
	days, _ := cmd.Flags().GetInt("days")
	remote, _ := cmd.Flags().GetBool("remote")
	folder, _ := cmd.Flags().GetString("folder")
	confirm, _ := cmd.Flags().GetBool("confirm")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if days <= 0 {
		err := fmt.Errorf("days must be greater than 0")
		utils.PrintError(err, "clean")
		return
	}

	cutoffDate := time.Now().AddDate(0, 0, -days)

	if remote {
		runRemoteClean(cmd, folder, days, confirm, dryRun, cutoffDate)
		return
	}

	directory := "."
	if len(args) == 1 {
		directory = args[0]
	}

	// Show confirmation prompt if not in confirm mode and not dry-run
	if !confirm && !dryRun {
		fmt.Printf("This will permanently delete %s files older than %d days (%s) under '%s'\n",
			transfer.PartialSuffix, days, cutoffDate.Format("2006-01-02"), directory)
		fmt.Print("Are you sure? (yes/no): ")

		var response string
		fmt.Scanln(&response)
		if response != "yes" && response != "y" && response != "YES" {
			fmt.Println("Operation cancelled.")
			return
		}
	}

	if isVerbose(cmd) {
		cmd.Printf("Cleaning partial downloads under: %s\n", directory)
		if dryRun {
			cmd.Println("DRY RUN MODE: No files will actually be deleted")
		}
	}

	result, err := cleanPartials(directory, cutoffDate, dryRun)
	if err != nil {
		utils.PrintError(err, "clean")
		return
	}
	result.DaysOld = days

	if err := utils.PrintJSON(result); err != nil {
		utils.PrintError(err, "clean")
		return
	}

	if isVerbose(cmd) {
		cmd.Println("Clean operation completed successfully")
	}
}

// cleanPartials walks the directory and removes every .partial file whose
// modification time is before the cutoff.
func cleanPartials(directory string, cutoff time.Time, dryRun bool) (*models.CleanResult, error) {
	var removedFiles []string
	var totalSize int64

	err := filepath.Walk(directory, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(info.Name(), transfer.PartialSuffix) {
			return nil
		}
		if !info.ModTime().Before(cutoff) {
			return nil
		}

		if !dryRun {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to remove %s: %w", path, err)
			}
		}

		removedFiles = append(removedFiles, path)
		totalSize += info.Size()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &models.CleanResult{
		Directory:      directory,
		RemovedFiles:   removedFiles,
		RemovedCount:   len(removedFiles),
		TotalSizeBytes: totalSize,
		TotalSizeHuman: utils.FormatBytes(totalSize),
		OperationTime:  utils.FormatTime(time.Now()),
		CutoffDate:     utils.FormatTime(cutoff),
		DryRun:         dryRun,
	}, nil
}

func runRemoteClean(cmd *cobra.Command, folder string, days int, confirm, dryRun bool, cutoffDate time.Time) {
	if !confirm && !dryRun {
		bucketName := getBucketName(cmd)

		fmt.Printf("WARNING: This will permanently delete objects older than %d days (%s) from bucket '%s'",
			days, cutoffDate.Format("2006-01-02"), bucketName)
		if folder != "" {
			fmt.Printf(" in folder '%s'", folder)
		}
		fmt.Println()
		fmt.Print("Are you sure? (yes/no): ")

		var response string
		fmt.Scanln(&response)
		if response != "yes" && response != "y" && response != "YES" {
			fmt.Println("Operation cancelled.")
			return
		}
	}

	client, err := s3client.New(cfg)
	if err != nil {
		utils.PrintError(err, "clean")
		return
	}

	timeout, _ := cmd.Flags().GetInt("timeout")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	if isVerbose(cmd) {
		cmd.Printf("Deleting objects older than %d days from bucket: %s\n", days, getBucketName(cmd))
		if folder != "" {
			cmd.Printf("Folder: %s\n", folder)
		}
		if dryRun {
			cmd.Println("DRY RUN MODE: No objects will actually be deleted")
		}
	}

	result, err := client.DeleteStaleObjects(ctx, folder, days, dryRun)
	if err != nil {
		utils.PrintError(err, "clean")
		return
	}

	if err := utils.PrintJSON(result); err != nil {
		utils.PrintError(err, "clean")
		return
	}

	if isVerbose(cmd) {
		cmd.Println("Remote clean operation completed successfully")
	}
}

func init() {
	cleanCmd.Flags().Int("days", 0, "Remove files/objects older than this many days (required)")
	err := cleanCmd.MarkFlagRequired("days")
	if err != nil {
		utils.PrintError(err, "clean")
		return
	}

	cleanCmd.Flags().Bool("remote", false, "Delete stale objects from the workspace bucket instead of local partial files")
	cleanCmd.Flags().StringP("folder", "f", "", "Remote mode: folder/prefix to search in (searches entire bucket if not specified)")
	cleanCmd.Flags().Bool("confirm", false, "Skip confirmation prompt")
	cleanCmd.Flags().Bool("dry-run", false, "Show what would be deleted without actually deleting")
	cleanCmd.Flags().Int("timeout", 1800, "Timeout in seconds for remote operations (default: 30 minutes)")
}
