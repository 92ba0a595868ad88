// Package cli wires the command-line surface: flag parsing, option
// translation, and the top-level run flow.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kadraa-png/yt-fetch/internal/config"
)

// Version is set during build via -ldflags "-X .../internal/cli.Version=X.Y.Z"
var Version = "dev"

// Exit codes
const (
	ExitFailure = 1
	ExitUsage   = 2
)

var opts = config.NewOptions()

// usageError marks errors that should exit with the usage code.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

var rootCmd = &cobra.Command{
	Use:   "yt-fetch",
	Short: "High-quality YouTube downloader",
	Long: `yt-fetch: High-quality YouTube downloader. MP4/MP3, metadata toggle,
flat folders, bulk status bar, fast dry-run (yt-dlp + ffmpeg).`,
	Example: `  # Download a single video as mp4
  yt-fetch --single "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

  # Top 3 search results as mp3
  yt-fetch -s "never gonna give you up" --mode mp3 --top 3

  # Bulk download with an archive, listing first
  yt-fetch -b list.txt --dry-run
  yt-fetch -b list.txt --archive done.txt`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          runFetch,
}

func init() {
	rootCmd.Version = Version

	f := rootCmd.Flags()

	f.StringVarP(&opts.Single, "single", "s", "", "Single URL or search query to download")
	f.StringVarP(&opts.BulkFile, "bulk-file", "b", "", "Path to a txt file with URLs or search queries (one per line)")

	f.StringVar(&opts.Search, "search", "", "Extra search query to include (in addition to --single)")
	f.IntVar(&opts.SearchLimit, "search-limit", config.DefaultSearchLimit, "Top N results to download for each search query")
	f.IntVar(&opts.Top, "top", 0, "Alias for --search-limit. If both set, --top wins")

	f.StringVar((*string)(&opts.Mode), "mode", string(config.DefaultMode), "Download as mp4 video or mp3 audio")
	f.StringVar((*string)(&opts.Container), "container", string(config.DefaultContainer), "Preferred container for video mode (mp4 or mkv)")

	f.StringVar(&opts.OutputDir, "out", config.DefaultOutputDir, "Output directory")
	f.StringVar(&opts.ArchivePath, "archive", config.DefaultArchivePath, "Download archive file to avoid duplicates")
	f.BoolVar(&opts.NoArchive, "no-archive", false, "Disable the download archive")
	f.BoolVar(&opts.Flat, "flat", false, "Put all outputs directly into the output folder (no per-uploader subfolders)")

	f.BoolVar(&opts.NoMetadata, "no-metadata", false, "Disable writing/embedding metadata, thumbnails, info JSON, and description")

	f.BoolVar(&opts.Aria2c, "aria2c", false, "Use aria2c external downloader for speed")
	f.BoolVar(&opts.NoAria2c, "no-aria2c", false, "Force-disable aria2c (overrides --aria2c)")
	f.BoolVar(&opts.Subs, "subs", false, "Download and embed available subtitles")
	f.BoolVar(&opts.Verbose, "verbose", false, "Verbose output")
	f.BoolVar(&opts.ForceIPv4, "force-ipv4", false, "Use IPv4 only (can avoid 403s on some networks)")
	f.StringVar(&opts.CookiesFile, "cookies-file", "", "Path to a cookies.txt file")
	f.StringVar(&opts.CookiesFromBrowser, "cookies-from-browser", "", "Load cookies from the given browser profile")
	f.IntVar(&opts.Retries, "retries", config.DefaultRetries, "Number of retries on HTTP errors")
	f.IntVar(&opts.FragmentRetries, "fragment-retries", config.DefaultFragmentRetries, "Retries per video fragment")
	f.Float64Var(&opts.Sleep, "sleep", config.DefaultSleepSeconds, "Seconds to sleep between downloads")
	f.Float64Var(&opts.SleepMax, "sleep-max", 0, "Max sleep (randomized between --sleep and --sleep-max)")
	f.BoolVarP(&opts.KeepVideo, "keep-video", "k", false, "Keep the original video file when extracting MP3")
	f.BoolVar(&opts.Redownload, "redownload", false, "Ignore the archive and overwrite existing files; always re-download")

	f.BoolVar(&opts.DryRun, "dry-run", false, "Resolve inputs and list what would be downloaded (no files saved)")
	f.BoolVar(&opts.Compress, "compress", false, "Re-encode completed video downloads through ffmpeg (H.264/AAC mp4)")

	rootCmd.MarkFlagsMutuallyExclusive("single", "bulk-file")
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var ue *usageError
		if errors.As(err, &ue) {
			return ExitUsage
		}
		return ExitFailure
	}
	return 0
}
