package download

import (
	"strconv"

	"github.com/lrstanley/go-ytdlp"

	"github.com/kadraa-png/yt-fetch/internal/config"
)

// Format selectors per mode. The mp4 ladder prefers remux-friendly codecs
// before falling back to the best available streams.
const (
	AudioFormatSelector = "bestaudio/best"
	MP4FormatSelector   = "bv*[ext=mp4][vcodec~='^(av1|vp9|h264)']+ba[ext=m4a]/" +
		"bv*[ext=mp4]+ba[ext=m4a]/b[ext=mp4]/bestvideo*+bestaudio/best"
	BestFormatSelector = "bestvideo*+bestaudio/best"
)

// Postprocessing constants
const (
	AudioCodec        = "mp3"
	AudioQuality      = "320K"
	ThumbnailFormat   = "jpg"
	MergeOutputFormat = "mkv"
	RemuxFormat       = "mp4"
)

// Network constants
const (
	UserAgentHeader     = "User-Agent:Mozilla/5.0"
	ConcurrentFragments = 2
)

// Android player client avoids throttled formats served to the web client.
const (
	PlayerClientArgs = "youtube:player_client=android"
)

// aria2c external downloader configuration
const (
	Aria2cDownloader = "aria2c"
	Aria2cArgs       = "aria2c:-x8 -s8 -k1M --summary-interval=0"
)

// PickFormat chooses the format selector for the given mode and container,
// avoiding unnecessary downloads (audio-only for mp3).
func PickFormat(mode config.Mode, container config.Container) string {
	if mode == config.ModeMP3 {
		return AudioFormatSelector
	}
	if container == config.ContainerMP4 {
		return MP4FormatSelector
	}
	return BestFormatSelector
}

// buildCommand translates run options into a configured downloader command.
func buildCommand(opts *config.Options) *ytdlp.Command {
	dl := ytdlp.New().
		Format(PickFormat(opts.Mode, opts.Container)).
		Paths(opts.OutputDir).
		Output(opts.OutputTemplate()).
		IgnoreErrors().
		Retries(strconv.Itoa(opts.Retries)).
		FragmentRetries(strconv.Itoa(opts.FragmentRetries)).
		ConcurrentFragments(ConcurrentFragments).
		AddHeaders(UserAgentHeader).
		ExtractorArgs(PlayerClientArgs).
		MergeOutputFormat(MergeOutputFormat)

	// yt-dlp consults the archive for every resolved video, covering search
	// expressions and playlists the pre-run ID check cannot see.
	if opts.ArchiveEnabled() && opts.ArchivePath != "" {
		dl = dl.DownloadArchive(opts.ArchivePath)
	}

	if opts.Verbose {
		dl = dl.Verbose()
	} else {
		dl = dl.Quiet().NoWarnings()
	}

	if opts.ForceIPv4 {
		dl = dl.ForceIPv4()
	}

	if opts.EmbedMetadata() {
		dl = dl.EmbedMetadata().
			EmbedChapters().
			WriteThumbnail().
			WriteDescription().
			WriteInfoJSON()
		if opts.Mode == config.ModeMP3 {
			dl = dl.ConvertThumbnails(ThumbnailFormat)
		}
		dl = dl.EmbedThumbnail()
	}

	if opts.Subs {
		dl = dl.WriteSubs().SubLangs("all").EmbedSubs()
	}

	if opts.Mode == config.ModeMP3 {
		dl = dl.ExtractAudio().AudioFormat(AudioCodec).AudioQuality(AudioQuality)
	} else if opts.Container == config.ContainerMP4 {
		dl = dl.RemuxVideo(RemuxFormat)
	}

	if opts.KeepVideo {
		dl = dl.KeepVideo()
	}

	if opts.Redownload {
		dl = dl.ForceOverwrites()
	}

	if opts.Aria2cEnabled() {
		dl = dl.Downloader(Aria2cDownloader).DownloaderArgs(Aria2cArgs)
	}

	if opts.CookiesFile != "" {
		dl = dl.Cookies(opts.CookiesFile)
	}
	if opts.CookiesFromBrowser != "" {
		dl = dl.CookiesFromBrowser(opts.CookiesFromBrowser)
	}

	return dl
}

// buildResolveCommand builds the flat, download-free command used by dry runs.
func buildResolveCommand(opts *config.Options) *ytdlp.Command {
	dl := ytdlp.New().
		SkipDownload().
		PrintJSON().
		FlatPlaylist().
		Quiet().
		NoWarnings().
		IgnoreErrors().
		Retries("2").
		FragmentRetries("1").
		AddHeaders(UserAgentHeader)

	if opts.ForceIPv4 {
		dl = dl.ForceIPv4()
	}
	if opts.CookiesFile != "" {
		dl = dl.Cookies(opts.CookiesFile)
	}
	if opts.CookiesFromBrowser != "" {
		dl = dl.CookiesFromBrowser(opts.CookiesFromBrowser)
	}

	return dl
}
