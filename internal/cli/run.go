package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lrstanley/go-ytdlp"
	"github.com/spf13/cobra"

	"github.com/kadraa-png/yt-fetch/internal/archive"
	"github.com/kadraa-png/yt-fetch/internal/config"
	"github.com/kadraa-png/yt-fetch/internal/download"
	"github.com/kadraa-png/yt-fetch/internal/model"
	"github.com/kadraa-png/yt-fetch/internal/platform"
	"github.com/kadraa-png/yt-fetch/internal/transcode"
	"github.com/kadraa-png/yt-fetch/internal/ui"
)

func runFetch(cmd *cobra.Command, _ []string) error {
	opts.Normalize()
	if err := opts.Validate(); err != nil {
		return &usageError{err: err}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, opts)
}

func run(ctx context.Context, opts *config.Options) error {
	inputs, err := gatherInputs(opts)
	if err != nil {
		return err
	}

	var arc *archive.Archive
	if !opts.NoArchive {
		arc, err = archive.Open(opts.ArchivePath)
		if err != nil {
			return fmt.Errorf("failed to open archive %s: %w", opts.ArchivePath, err)
		}
	}

	// yt-dlp (and ffmpeg alongside it) is downloaded on first use when
	// not already present on the system.
	if _, err := ytdlp.Install(ctx, nil); err != nil {
		return fmt.Errorf("failed to provision yt-dlp: %w", err)
	}

	var service download.Fetcher = download.NewService(opts, arc)

	if opts.DryRun {
		ui.RenderDryRun(service.Resolve(ctx, inputs))
		return nil
	}

	if err := platform.CreateDirectoryIfNotExists(opts.OutputDir); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", opts.OutputDir, err)
	}

	renderer := ui.NewRenderer(opts.Verbose)
	service.SetUpdateCallback(renderer.ItemUpdated)

	renderer.Start(len(inputs))
	summary, runErr := service.Run(ctx, inputs)
	if summary == nil {
		summary = &download.Summary{}
	}
	renderer.Finish(summary)

	transcodeFailed := 0
	if opts.Compress && opts.Mode == config.ModeMP4 && runErr == nil {
		transcodeFailed = compressCompleted(ctx, service.Items(), renderer)
	}

	if summary.Failed > 0 {
		renderer.PrintHints(service.Hints())
	}

	if runErr != nil {
		return runErr
	}
	if failed := summary.Failed + transcodeFailed; failed > 0 {
		return fmt.Errorf("%d item(s) failed", failed)
	}
	return nil
}

// gatherInputs turns flags into the ordered list of downloader targets.
func gatherInputs(opts *config.Options) ([]string, error) {
	var inputs []string

	if opts.BulkFile != "" {
		parsed, err := platform.ParseBulkFile(opts.BulkFile, opts.EffectiveSearchLimit())
		if err != nil {
			return nil, &usageError{err: fmt.Errorf("failed to read bulk file: %w", err)}
		}
		inputs = parsed
	} else {
		inputs = platform.PrepareInputs(opts.Single, opts.Search, opts.EffectiveSearchLimit())
	}

	if len(inputs) == 0 {
		return nil, &usageError{err: fmt.Errorf("no valid inputs to process")}
	}
	return inputs, nil
}

// compressCompleted re-encodes every completed download through ffmpeg and
// returns the number of failures.
func compressCompleted(ctx context.Context, items []*model.WorkItem, renderer *ui.Renderer) int {
	transcoder := transcode.NewService()
	transcoder.SetUpdateCallback(renderer.TranscodeUpdated)

	failed := 0
	for _, item := range items {
		if item.Status != model.TaskStatusCompleted || item.OutputPath == "" {
			continue
		}
		if _, err := transcoder.Transcode(ctx, item.OutputPath); err != nil {
			fmt.Fprintf(os.Stderr, "compress failed for %s: %v\n", item.GetDisplayTitle(), err)
			failed++
		}
	}
	return failed
}
