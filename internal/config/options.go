package config

import (
	"fmt"
)

// Download mode
type Mode string

const (
	ModeMP4 Mode = "mp4"
	ModeMP3 Mode = "mp3"
)

// Preferred container for video mode
type Container string

const (
	ContainerMP4 Container = "mp4"
	ContainerMKV Container = "mkv"
)

// Default values
const (
	DefaultMode            = ModeMP4
	DefaultContainer       = ContainerMP4
	DefaultOutputDir       = "./downloads"
	DefaultArchivePath     = "./downloaded.txt"
	DefaultSearchLimit     = 1
	DefaultRetries         = 10
	DefaultFragmentRetries = 10
	DefaultSleepSeconds    = 1.0
)

// Output templates
const (
	FlatOutputTemplate   = "%(title)s [%(id)s].%(ext)s"
	NestedOutputTemplate = "%(uploader)s/%(title)s [%(id)s].%(ext)s"
)

// Browsers cookies can be loaded from
var SupportedBrowsers = []string{"firefox", "chrome", "chromium", "brave", "edge", "vivaldi", "opera"}

// Options holds the full run configuration translated from command-line flags.
type Options struct {
	// Input selection (exactly one of Single/BulkFile)
	Single   string
	BulkFile string

	// Search controls
	Search      string
	SearchLimit int
	Top         int // alias for SearchLimit; wins when both are set

	// Modes
	Mode      Mode
	Container Container

	// Output
	OutputDir   string
	ArchivePath string
	NoArchive   bool
	Flat        bool

	// Metadata
	NoMetadata bool

	// Stability and extras
	Aria2c             bool
	NoAria2c           bool
	Subs               bool
	Verbose            bool
	ForceIPv4          bool
	CookiesFile        string
	CookiesFromBrowser string
	Retries            int
	FragmentRetries    int
	Sleep              float64
	SleepMax           float64
	KeepVideo          bool
	Redownload         bool

	// Run modes
	DryRun   bool
	Compress bool
}

// NewOptions returns options populated with defaults.
func NewOptions() *Options {
	return &Options{
		SearchLimit:     DefaultSearchLimit,
		Mode:            DefaultMode,
		Container:       DefaultContainer,
		OutputDir:       DefaultOutputDir,
		ArchivePath:     DefaultArchivePath,
		Retries:         DefaultRetries,
		FragmentRetries: DefaultFragmentRetries,
		Sleep:           DefaultSleepSeconds,
	}
}

// Normalize applies defaults and clamps values into valid ranges.
func (o *Options) Normalize() {
	if o.SearchLimit < 1 {
		o.SearchLimit = DefaultSearchLimit
	}
	if o.Retries < 0 {
		o.Retries = 0
	}
	if o.FragmentRetries < 0 {
		o.FragmentRetries = 0
	}
	if o.Sleep < 0 {
		o.Sleep = 0
	}
	// A max below the base sleep is meaningless
	if o.SleepMax != 0 && o.SleepMax < o.Sleep {
		o.SleepMax = 0
	}
	if o.OutputDir == "" {
		o.OutputDir = DefaultOutputDir
	}
	if o.ArchivePath == "" {
		o.ArchivePath = DefaultArchivePath
	}
}

// Validate checks enum values and input selection.
func (o *Options) Validate() error {
	if o.Single == "" && o.BulkFile == "" {
		return fmt.Errorf("one of --single or --bulk-file is required")
	}
	if o.Single != "" && o.BulkFile != "" {
		return fmt.Errorf("--single and --bulk-file are mutually exclusive")
	}
	if o.Mode != ModeMP4 && o.Mode != ModeMP3 {
		return fmt.Errorf("invalid mode %q (expected mp4 or mp3)", o.Mode)
	}
	if o.Container != ContainerMP4 && o.Container != ContainerMKV {
		return fmt.Errorf("invalid container %q (expected mp4 or mkv)", o.Container)
	}
	if o.CookiesFromBrowser != "" && !isSupportedBrowser(o.CookiesFromBrowser) {
		return fmt.Errorf("unsupported browser %q for --cookies-from-browser", o.CookiesFromBrowser)
	}
	return nil
}

// OutputTemplate returns the relative output template for the downloader.
func (o *Options) OutputTemplate() string {
	if o.Flat {
		return FlatOutputTemplate
	}
	return NestedOutputTemplate
}

// ArchiveEnabled reports whether the download archive is consulted and updated.
func (o *Options) ArchiveEnabled() bool {
	return !o.NoArchive && !o.Redownload
}

// Aria2cEnabled reports whether the aria2c external downloader is used.
// --no-aria2c force-disables it.
func (o *Options) Aria2cEnabled() bool {
	return o.Aria2c && !o.NoAria2c
}

// EffectiveSearchLimit returns the number of results per search query.
// --top wins over --search-limit when both are set.
func (o *Options) EffectiveSearchLimit() int {
	if o.Top > 0 {
		return o.Top
	}
	return o.SearchLimit
}

// EmbedMetadata reports whether metadata, chapters, and thumbnails are
// embedded and side files are written.
func (o *Options) EmbedMetadata() bool {
	return !o.NoMetadata
}

func isSupportedBrowser(name string) bool {
	for _, b := range SupportedBrowsers {
		if b == name {
			return true
		}
	}
	return false
}
