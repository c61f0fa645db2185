// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand handles setup operations for configuration and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a default config.toml",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
		},
	}
}

// scanCommand imports audio files from a folder into the catalog.
func scanCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "Scan a folder and import audio files into the library",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "folder",
			},
		},
		Flags:  []cli.Flag{configFlag()},
		Action: r.Scan,
	}
}

// libraryCommand handles catalog queries and playlist management.
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Browse and manage the music library",
		Commands: []*cli.Command{
			{
				Name:  "songs",
				Usage: "List all songs in the library",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.LibrarySongs,
			},
			{
				Name:  "playlists",
				Usage: "List all playlists",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.LibraryPlaylists,
			},
			{
				Name:  "create",
				Usage: "Create a new playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "name",
					},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.LibraryCreate,
			},
			{
				Name:  "add",
				Usage: "Add a song to a playlist",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "playlist",
						Usage:    "Playlist name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "song",
						Usage:    "Song ID",
						Required: true,
					},
				},
				Action: r.LibraryAdd,
			},
			{
				Name:  "rename",
				Usage: "Rename a playlist; the next sync renames its device folder",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "playlist",
						Usage:    "Current playlist name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "to",
						Usage:    "New playlist name",
						Required: true,
					},
				},
				Action: r.LibraryRename,
			},
			{
				Name:  "show",
				Usage: "Show a playlist with its songs",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "name",
					},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.LibraryShow,
			},
		},
	}
}

// deviceCommand manages per-device sync policy documents.
func deviceCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "device",
		Usage: "Manage device configuration at a destination folder",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write a default device config to a destination folder",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "root",
					},
				},
				Action: r.DeviceInit,
			},
			{
				Name:  "show",
				Usage: "Show the device config and manifest summary",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "root",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.DeviceShow,
			},
			{
				Name:  "set",
				Usage: "Update device sync policy",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "root",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "alias",
						Usage: "Device display name",
					},
					&cli.StringSliceFlag{
						Name:  "format",
						Usage: "Supported audio format (repeatable; first is the transcode target)",
					},
					&cli.StringFlag{
						Name:  "layout",
						Usage: "Song arrangement: flat or hierarchical",
					},
					&cli.BoolFlag{
						Name:  "randomize",
						Usage: "Randomize flat-layout play order with filename prefixes",
					},
				},
				Action: r.DeviceSet,
			},
			{
				Name:  "inspect",
				Usage: "Report destination volume capacity",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "root",
					},
				},
				Action: r.DeviceInspect,
			},
		},
	}
}

// syncCommand runs device syncs from the terminal.
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Sync playlists to a device",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Sync the named playlists to a destination folder",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "root",
					},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringSliceFlag{
						Name:    "playlist",
						Aliases: []string{"p"},
						Usage:   "Playlist name to sync (repeatable; default: all)",
					},
				},
				Action: r.SyncRun,
			},
			{
				Name:  "ui",
				Usage: "Interactive sync with live progress",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "root",
					},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.SyncUI,
			},
		},
	}
}
