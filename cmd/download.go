package cmd

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"devsync/internal/models"
	"devsync/internal/s3client"
	"devsync/internal/transfer"
	"devsync/pkg/utils"
)

var downloadCmd = &cobra.Command{
	Use:   "download [key or folder]",
	Short: "Download a file or a whole folder from the workspace store",
	Long: `Download a single object, or with --recursive every object under a
folder prefix, from the workspace bucket to a local destination.

Folder downloads run on a bounded worker pool; individual failures are
recorded and reported in the final summary without aborting the rest of
the batch. Files are written atomically: the data lands in a .partial
file which is renamed into place only when the stream completes.

If no destination is specified, files are downloaded to the current directory.`,
	Example: `  # Download a single object
  devsync download reports/summary.pdf

  # Download to a specific destination
  devsync download reports/summary.pdf --destination /tmp/downloads/

  # Download a whole folder
  devsync download reports/ --recursive

  # Folder download with more workers and a timeout
  devsync download logs/ --recursive --workers 8 --timeout 600

  # Download from a different bucket
  devsync download data/file.bin --bucket my-other-bucket

  # Verbose download with progress
  devsync download archives/dump.tar.gz --verbose`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runDownload(cmd, args)
	},
}

func runDownload(cmd *cobra.Command, args []string) {
	source := args[0]
	destination, _ := cmd.Flags().GetString("destination")
	recursive, _ := cmd.Flags().GetBool("recursive")
	flat, _ := cmd.Flags().GetBool("flat")
	workers, _ := cmd.Flags().GetInt("workers")
	confirm, _ := cmd.Flags().GetBool("confirm")

	// If destination is empty, use current directory
	if destination == "" {
		destination = "."
	}

	if workers <= 0 {
		workers = cfg.DownloadWorkers
	}

	// Show operation summary if not in confirm mode
	if !confirm {
		bucketName := getBucketName(cmd)

		fmt.Printf("Download operation summary:\n")
		fmt.Printf("Bucket: %s\n", bucketName)
		fmt.Printf("Source: %s\n", source)
		fmt.Printf("Destination: %s\n", destination)
		fmt.Printf("Recursive: %t\n", recursive)

		fmt.Print("Continue with download? (y/N): ")
		var response string
		_, err := fmt.Scanln(&response)
		if err != nil {
			utils.PrintError(err, "download")
			return
		}
		if !slices.Contains([]string{"y", "yes"}, strings.ToLower(response)) {
			fmt.Println("Download cancelled.")
			return
		}
	}

	client, err := s3client.New(cfg)
	if err != nil {
		utils.PrintError(err, "download")
		return
	}

	timeout, _ := cmd.Flags().GetInt("timeout")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	logger := newLogger(cmd)
	defer logger.Sync()

	if isVerbose(cmd) {
		cmd.Printf("Starting download operation...\n")
		cmd.Printf("  Source: %s\n", source)
		cmd.Printf("  Destination: %s\n", destination)
	}

	if recursive {
		runFolderDownload(cmd, ctx, client, logger, source, destination, workers, flat)
		return
	}

	runFileDownload(cmd, ctx, client, logger, source, destination)
}

func runFileDownload(cmd *cobra.Command, ctx context.Context, client *s3client.Client, logger *zap.Logger, key, destination string) {
	startTime := time.Now()

	localPath := filepath.Join(destination, path.Base(key))
	downloader := transfer.NewDownloader(client, logger)

	request := transfer.Request{
		Object: models.RemoteObject{
			Bucket: getBucketName(cmd),
			Key:    key,
			Name:   path.Base(key),
		},
		Path:     localPath,
		Progress: progressPrinter(cmd, key),
	}

	if _, err := downloader.Download(ctx, request); err != nil {
		utils.PrintError(err, "download")
		return
	}

	var size int64
	if info, err := os.Stat(localPath); err == nil {
		size = info.Size()
	}

	result := &models.DownloadResult{
		BucketName: getBucketName(cmd),
		SourcePath: key,
		Items: []models.DownloadItem{
			{RemotePath: key, LocalPath: localPath, Size: size},
		},
		TotalFiles:       1,
		TotalSizeBytes:   size,
		TotalSizeHuman:   utils.FormatBytes(size),
		OperationTime:    utils.FormatTime(startTime),
		DownloadDuration: time.Since(startTime).String(),
	}

	if err := utils.PrintJSON(result); err != nil {
		utils.PrintError(err, "download")
		return
	}

	if isVerbose(cmd) {
		cmd.Println("Download operation completed successfully")
		cmd.Printf("Downloaded file: %s\n", localPath)
	}
}

func runFolderDownload(cmd *cobra.Command, ctx context.Context, client *s3client.Client, logger *zap.Logger, prefix, destination string, workers int, flat bool) {
	startTime := time.Now()

	folderName := ""
	if !flat {
		folderName = path.Base(strings.TrimSuffix(prefix, "/"))
	}

	request := transfer.FolderRequest{
		Prefix:          prefix,
		DestinationRoot: destination,
		FolderName:      folderName,
	}
	if isVerbose(cmd) {
		request.ProgressFor = func(obj models.RemoteObject) transfer.ProgressFunc {
			return progressPrinter(cmd, obj.Key)
		}
	}

	folderDownloader := transfer.NewFolderDownloader(client, logger, workers)

	session, err := folderDownloader.DownloadAll(ctx, request)
	if err != nil {
		utils.PrintError(err, "download")
		return
	}

	summary := &models.FolderSummary{
		SessionID:        session.ID,
		BucketName:       getBucketName(cmd),
		Prefix:           session.Prefix,
		Destination:      session.Dir,
		TotalObjects:     len(session.Objects),
		Succeeded:        len(session.Succeeded()),
		Failed:           []models.FailedItem{},
		TotalSizeBytes:   session.Bytes(),
		TotalSizeHuman:   utils.FormatBytes(session.Bytes()),
		OperationTime:    utils.FormatTime(startTime),
		DownloadDuration: time.Since(startTime).String(),
	}
	for _, failure := range session.Failed() {
		summary.Failed = append(summary.Failed, models.FailedItem{
			Key:   failure.Object.Key,
			Error: failure.Err.Error(),
		})
	}

	if err := utils.PrintJSON(summary); err != nil {
		utils.PrintError(err, "download")
		return
	}

	if isVerbose(cmd) {
		cmd.Printf("Folder download settled: %d succeeded, %d failed\n",
			summary.Succeeded, len(summary.Failed))
	}
}

// progressPrinter renders coarse progress lines in verbose mode; the
// transfer layer emits one observation per chunk, so only whole-percent
// changes are printed.
func progressPrinter(cmd *cobra.Command, key string) transfer.ProgressFunc {
	if !isVerbose(cmd) {
		return nil
	}

	lastPercent := -1
	return func(p transfer.Progress) {
		percent := int(p.Percent)
		if percent == lastPercent {
			return
		}
		lastPercent = percent
		cmd.Printf("  %s: %d%% (%s)\n", key, percent, utils.FormatBytes(p.Received))
	}
}

func init() {
	downloadCmd.Flags().StringP("destination", "d", "", "Local destination path (default: current directory)")
	downloadCmd.Flags().BoolP("recursive", "r", false, "Download every object under the given folder prefix")
	downloadCmd.Flags().Bool("flat", false, "Recursive mode: download into the destination itself instead of a subdirectory named after the folder")
	downloadCmd.Flags().IntP("workers", "w", 0, "Concurrent downloads for recursive mode (default: DOWNLOAD_WORKERS from config)")
	downloadCmd.Flags().Bool("confirm", false, "Skip confirmation prompt")
	downloadCmd.Flags().Int("timeout", 3600, "Timeout in seconds for the operation (default: 1 hour)")

	downloadCmd.SetUsageTemplate(`Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

Additional help topics:{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`)
}
