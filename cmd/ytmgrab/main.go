package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/ytmgrab/ytmgrab/internal/config"
	"github.com/ytmgrab/ytmgrab/internal/download"
	"github.com/ytmgrab/ytmgrab/internal/model"
	"github.com/ytmgrab/ytmgrab/internal/ytdlp"
)

func main() {
	// Command line flags
	var (
		urlFlag      = pflag.String("url", "", "YouTube or YouTube Music URL to download")
		searchFlag   = pflag.String("search", "", "Search query; downloads the top result")
		playlistFlag = pflag.Bool("playlist", false, "Treat the URL as a playlist")
		previewFlag  = pflag.Bool("preview", false, "Show playlist contents without downloading")
		formatFlag   = pflag.String("format", "", "Output format: mp3, m4a, flac or best")
		outputFlag   = pflag.String("output", "", "Downloads folder (overrides config)")
		configFlag   = pflag.String("config", "", "Path to config file")
		verboseFlag  = pflag.BoolP("verbose", "v", false, "Show verbose output")
	)

	pflag.Parse()

	input := *urlFlag
	if input == "" && pflag.NArg() > 0 {
		input = pflag.Arg(0)
	}

	if input == "" && *searchFlag == "" {
		fmt.Println("ytmgrab - Download music from YouTube")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  ytmgrab <URL> [options]")
		fmt.Println("  ytmgrab --search \"artist title\" [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: ytmgrab-tui")
		fmt.Println()
		pflag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	configPath := *configFlag
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	settings, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Apply flags
	if *outputFlag != "" {
		settings.DownloadsPath = *outputFlag
	}
	if *formatFlag != "" {
		if _, err := model.ParseFormat(*formatFlag); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		settings.Format = *formatFlag
	}

	// A bare argument that is not a URL is treated as a search query.
	query := *searchFlag
	if query == "" && input != "" && !ytdlp.IsURL(input) {
		query = input
		input = ""
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	manager := download.NewManager(&settings, func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := "   "
		switch event.Level {
		case download.LevelError:
			prefix = "error: "
		case download.LevelWarning:
			prefix = "warn:  "
		case download.LevelSuccess:
			prefix = "done:  "
		case download.LevelInfo:
			prefix = "info:  "
		}

		fmt.Println(prefix + event.Message)
	})

	if err := manager.CheckDependencies(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	switch {
	case *previewFlag:
		preview, err := manager.PreviewPlaylist(ctx, input)
		if err != nil {
			fail(ctx, err)
		}
		printPreview(preview)

	case query != "":
		if _, err := manager.SearchAndDownload(ctx, query); err != nil {
			fail(ctx, err)
		}

	case *playlistFlag:
		if _, err := manager.DownloadPlaylist(ctx, input); err != nil {
			fail(ctx, err)
		}

	default:
		if _, err := manager.DownloadSingle(ctx, input); err != nil {
			fail(ctx, err)
		}
	}
}

func printPreview(preview *download.PlaylistPreview) {
	fmt.Printf("%s (%s)\n", preview.Title, preview.Uploader)
	for i, entry := range preview.Entries {
		fmt.Printf("  %2d. %s (%d:%02d)\n", i+1, entry.Title, entry.Duration/60, entry.Duration%60)
	}
	fmt.Printf("Total: %d tracks, %d:%02d, ~%.1f MB\n",
		len(preview.Entries),
		preview.TotalDuration/60, preview.TotalDuration%60,
		float64(preview.EstimatedBytes)/1024/1024)
}

func fail(ctx context.Context, err error) {
	if ctx.Err() != nil {
		fmt.Println("\nDownload cancelled.")
		os.Exit(130)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
