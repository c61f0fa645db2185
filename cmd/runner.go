package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/ormimu/ormimu/internal/shared"
	"github.com/ormimu/ormimu/internal/tasks"
	"github.com/ormimu/ormimu/internal/transfer"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config *shared.Config
	logger *log.Logger
	output io.Writer
	engine *tasks.DeviceEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Logger *log.Logger
	Output io.Writer
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

	transcoder := transfer.NewFFmpeg(opts.Config.FFmpeg)
	executor := transfer.NewExecutor(transcoder)
	engine := tasks.NewDeviceEngine(executor, opts.Config.Sync, opts.Logger)

	return &Runner{
		config: opts.Config,
		logger: opts.Logger,
		output: opts.Output,
		engine: engine,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, scanCommand, libraryCommand, deviceCommand, syncCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// openDB opens the catalog database configured via --config and applies any
// pending migrations. The caller owns the returned connection.
func (r *Runner) openDB(cmd *cli.Command) (*sql.DB, error) {
	config := r.config
	if path := cmd.String("config"); path != "" {
		if loaded, err := shared.LoadConfig(path); err == nil {
			config = loaded
		}
	}

	db, err := shared.NewDatabase(config.Database)
	if err != nil {
		return nil, err
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
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
