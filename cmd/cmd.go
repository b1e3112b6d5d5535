// submodule cmd contains command definitions
package main

import (
	"github.com/urfave/cli/v3"
)

// newApp builds the root command. Global flags are inherited by every subcommand.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "ytsum",
		Usage:   "Browse and manage AI-generated video summaries in a libSQL database",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "env",
				Usage: "Path to a .env file with TURSO_DATABASE_URL and TURSO_AUTH_TOKEN",
				Value: ".env",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Before:   r.Configure,
		Commands: r.register(),
	}
}

// listCommand prints every summary, newest first.
func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List video summaries, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of records to print (0 for all)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.List,
	}
}

func showCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Show one record and its summaries",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "summary",
				Aliases: []string{"s"},
				Usage:   "Summary to print (1-3)",
				Value:   1,
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Print all three summaries",
			},
			&cli.BoolFlag{
				Name:  "transcript",
				Usage: "Include the transcript",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the video link in the browser",
			},
		},
		Action: r.Show,
	}
}

func deleteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "delete",
		Aliases: []string{"rm"},
		Usage:   "Delete a record by ID",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Action: r.Delete,
	}
}

func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all records as Markdown, CSV, plain text or JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (md, csv, txt, json)",
				Value:   "md",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default summaries.{format}, - for stdout)",
			},
		},
		Action: r.Export,
	}
}

// queryCommand runs raw SQL for debugging, printing the decoded result
func queryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "query",
		Usage: "Run a raw SQL statement against the pipeline endpoint, prints JSON",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "sql"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Query,
	}
}

// setupCommand handles configuration and local database setup.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Create or update the configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "url",
						Usage: "Database URL (libsql:// or https://)",
					},
					&cli.StringFlag{
						Name:  "token",
						Usage: "Database auth token",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the local server database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve a local SQLite database over the libSQL pipeline protocol",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (overrides server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (overrides server.port)",
			},
			&cli.StringFlag{
				Name:  "path",
				Usage: "SQLite database file (overrides server.path)",
			},
			&cli.StringFlag{
				Name:  "token",
				Usage: "Bearer token required from clients (overrides server.auth_token)",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for browsing summaries",
		Action:  r.TUI,
	}
}
