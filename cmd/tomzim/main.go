package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/gerunddev/tomzim/internal/commands"
	"github.com/gerunddev/tomzim/internal/styles"
)

const version = "0.1.0"

func main() {
	cmd := &cli.Command{
		Name:    "tomzim",
		Usage:   "Convert Tomboy notes into a zim wiki notebook",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "~/.config/tomzim/config.yaml",
				Sources:     cli.EnvVars("TOMZIM_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "convert",
				Usage:     "Convert all notes once",
				ArgsUsage: "[tomboy_dir] [zim_dir]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "dry-run",
						Aliases: []string{"n"},
						Usage:   "Show what would change without writing",
					},
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Convert notes even if unchanged since the last run",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.Convert(ctx, commands.ConvertOptions{
						ConfigPath: cmd.String("config"),
						TomboyDir:  cmd.Args().Get(0),
						ZimDir:     cmd.Args().Get(1),
						DryRun:     cmd.Bool("dry-run"),
						Force:      cmd.Bool("force"),
					})
				},
			},
			{
				Name:      "watch",
				Usage:     "Convert notes whenever the Tomboy directory changes",
				ArgsUsage: "[tomboy_dir] [zim_dir]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "detach",
						Aliases: []string{"d"},
						Usage:   "Run the watcher in the background",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.Watch(ctx, commands.WatchOptions{
						ConfigPath: cmd.String("config"),
						TomboyDir:  cmd.Args().Get(0),
						ZimDir:     cmd.Args().Get(1),
						Detach:     cmd.Bool("detach"),
					})
				},
			},
			{
				Name:  "stop",
				Usage: "Stop the background watcher",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.Stop()
				},
			},
			{
				Name:  "status",
				Usage: "Show notebook status and pending notes",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.Status(cmd.String("config"))
				},
			},
			{
				Name:  "init",
				Usage: "Write a default config file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing config file",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.Init(cmd.String("config"), cmd.Bool("force"))
				},
			},
			{
				Name:  "install",
				Usage: "Run the watcher as a login service",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.Install()
				},
			},
			{
				Name:  "uninstall",
				Usage: "Remove the login service",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.Uninstall()
				},
			},
			{
				Name:  "version",
				Usage: "Show version information",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					fmt.Printf("tomzim v%s\n", version)
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ "+err.Error()))
		os.Exit(1)
	}
}
