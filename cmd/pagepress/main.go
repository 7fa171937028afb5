package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/pagepress/internal/config"
	pperrors "git.home.luguber.info/inful/pagepress/internal/errors"
	"git.home.luguber.info/inful/pagepress/internal/frontmatterops"
	"git.home.luguber.info/inful/pagepress/internal/pipeline"
	"git.home.luguber.info/inful/pagepress/internal/preview"
	"git.home.luguber.info/inful/pagepress/internal/source"
	"git.home.luguber.info/inful/pagepress/internal/state"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"pagepress.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Full bool `short:"f" help:"Ignore recorded build state and rebuild everything"`
	} `cmd:"" help:"Build the site from the content directory"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Discover struct {
		Section string `short:"s" help:"Only list sources in this section"`
	} `cmd:"" help:"List discovered Markdown sources without building"`

	Normalize struct {
		DryRun bool `help:"Report documents that would change without writing"`
	} `cmd:"" help:"Stamp missing uids into source front matter"`

	Preview struct {
		Port int `short:"p" help:"Listen port (overrides configuration)"`
	} `cmd:"" help:"Serve the site locally and rebuild on content changes"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	errs := pperrors.NewCLIErrorAdapter(CLI.Verbose, logger)

	switch ctx.Command() {
	case "build":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			errs.HandleError(err)
		}
		errs.HandleError(runBuild(cfg, CLI.Build.Full))
	case "init":
		errs.HandleError(runInit(CLI.Config, CLI.Init.Force))
	case "discover":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			errs.HandleError(err)
		}
		errs.HandleError(runDiscover(cfg, CLI.Discover.Section))
	case "normalize":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			errs.HandleError(err)
		}
		errs.HandleError(runNormalize(cfg, CLI.Normalize.DryRun))
	case "preview":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			errs.HandleError(err)
		}
		if CLI.Preview.Port > 0 {
			cfg.Preview.Port = CLI.Preview.Port
		}
		errs.HandleError(runPreview(cfg))
	}
}

func runBuild(cfg *config.Config, full bool) error {
	slog.Info("Starting site build",
		"content", cfg.Content.Dir,
		"output", cfg.Output.Directory,
		"full", full)

	builder := pipeline.NewBuilder(cfg)
	if cfg.Build.StateFile != "" {
		store, err := state.Open(cfg.Build.StateFile)
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				slog.Warn("Failed to close state store", "error", err)
			}
		}()
		builder = builder.WithStateStore(store)
	}

	report, err := builder.Build(context.Background(), pipeline.Options{Full: full})
	if err != nil {
		return err
	}

	for _, issue := range report.Issues {
		slog.Error("Document failed", "source", issue.Source, "error", issue.Err)
	}
	for _, issue := range report.LinkIssues {
		slog.Warn("Broken internal link", "page", issue.Page, "target", issue.Target)
	}

	slog.Info("Build finished",
		"build_id", report.BuildID,
		"built", report.Built,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"duration", report.Duration)

	if !report.Succeeded() {
		return pperrors.BuildFailed("render",
			fmt.Errorf("%d of %d documents failed", report.Failed, report.Built+report.Skipped+report.Failed))
	}
	return nil
}

func runInit(configPath string, force bool) error {
	slog.Info("Initializing configuration", "path", configPath, "force", force)
	if err := config.WriteSample(configPath, force); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", configPath)
	return nil
}

func runDiscover(cfg *config.Config, section string) error {
	files, err := source.Discover(cfg.Content.Dir)
	if err != nil {
		return err
	}

	shown := 0
	for _, f := range files {
		if section != "" && f.Section != section {
			continue
		}
		fmt.Printf("%s\t%s\n", f.Section, f.RelativePath)
		shown++
	}
	slog.Info("Discovery completed", "total", len(files), "shown", shown)
	return nil
}

func runNormalize(cfg *config.Config, dryRun bool) error {
	results, err := frontmatterops.NormalizeTree(cfg.Content.Dir, dryRun)
	if err != nil {
		return err
	}

	stamped := 0
	for _, r := range results {
		if !r.Changed {
			continue
		}
		stamped++
		if dryRun {
			fmt.Printf("would stamp %s\t%s\n", r.Source, r.UID)
		} else {
			fmt.Printf("stamped %s\t%s\n", r.Source, r.UID)
		}
	}
	slog.Info("Normalization completed",
		"documents", len(results),
		"stamped", stamped,
		"dry_run", dryRun)
	return nil
}

func runPreview(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv, err := preview.NewServer(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := srv.Close(); err != nil {
			slog.Warn("Failed to close preview server", "error", err)
		}
	}()

	slog.Info("Starting preview", "port", cfg.Preview.Port, "content", cfg.Content.Dir)
	return srv.Run(ctx)
}
