package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytsum/internal/repositories"
	"github.com/desertthunder/ytsum/internal/services"
	"github.com/desertthunder/ytsum/internal/shared"
	"github.com/desertthunder/ytsum/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	client     services.Executor
	repo       *repositories.SummaryRepository
	library    *tasks.Library
	logger     *log.Logger
	output     io.Writer
	opener     shared.Opener
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A nil Client is built from the configuration the first time a command needs the database.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Client     services.Executor
	Logger     *log.Logger
	Output     io.Writer
	Opener     shared.Opener
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Opener == nil {
		opts.Opener = shared.OpenBrowser
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		client:     opts.Client,
		logger:     opts.Logger,
		output:     opts.Output,
		opener:     opts.Opener,
	}
	r.wire()
	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		listCommand, showCommand, deleteCommand, exportCommand, queryCommand, setupCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Configure loads the configuration file and environment overrides before any command runs.
//
// A missing file is only an error when --config was given explicitly.
func (r *Runner) Configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")

	config := shared.DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		if config, err = shared.LoadConfig(path); err != nil {
			return ctx, err
		}
	} else if cmd.IsSet("config") {
		return ctx, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
	}

	if err := shared.ApplyEnv(config, cmd.String("env")); err != nil {
		return ctx, err
	}

	r.config = config
	r.configPath = path

	level := shared.ParseLogLevel(config.Log.Level)
	if cmd.Bool("verbose") {
		level = log.DebugLevel
	}
	shared.SetLogLevel(r.logger, level)

	return ctx, nil
}

// SetLogger replaces the logger and rebuilds everything that captured the old one.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	if c, ok := r.client.(*services.PipelineClient); ok {
		r.client = r.newClient(c.BaseURL())
	}
	r.wire()
}

// connect builds the pipeline client from the configuration unless one was injected.
func (r *Runner) connect() error {
	if r.client != nil {
		return nil
	}
	if err := r.config.Validate(); err != nil {
		return fmt.Errorf("%w (set database.url in %s or %s)", err, r.configPath, shared.EnvDatabaseURL)
	}

	r.client = r.newClient(r.config.Database.URL)
	r.logger.Debug("pipeline client ready", "url", r.client.(*services.PipelineClient).BaseURL())
	r.wire()
	return nil
}

func (r *Runner) newClient(url string) *services.PipelineClient {
	return services.NewPipelineClient(services.PipelineOpts{
		BaseURL:           url,
		AuthToken:         r.config.Database.AuthToken,
		Timeout:           r.config.Database.RequestTimeout(),
		RequestsPerSecond: r.config.Database.RequestsPerSecond,
		Logger:            r.logger,
	})
}

func (r *Runner) wire() {
	if r.client == nil {
		return
	}
	r.repo = repositories.NewSummaryRepository(r.client, r.logger)
	r.library = tasks.NewLibrary(r.repo, r.logger)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
