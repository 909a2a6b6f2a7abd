package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/corentinmace/clockwork-sub000/internal/config"
	"github.com/corentinmace/clockwork-sub000/internal/errors"
	"github.com/corentinmace/clockwork-sub000/internal/ops"
	"github.com/corentinmace/clockwork-sub000/internal/textarc"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "clockwork",
		Usage:   "Message archive codec and index",
		Version: Version,
		Commands: []*cli.Command{
			dumpCmd(cfg),
			buildCmd(cfg),
			inspectCmd(cfg),
			patchCmd(cfg),
			appendCmd(cfg),
			indexCmd(db, cfg),
			fetchCmd(db),
			listCmd(db),
			searchCmd(db),
			inventoryCmd(db),
			purgeCmd(db),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// dumpCmd creates the dump command.
func dumpCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "dump",
		Usage:     "Decode a binary message archive into an editable text file",
		ArgsUsage: "<archive>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output text file (defaults to <archive>.txt)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("archive path is required"))
			}

			output, err := ops.Dump(cfg, ops.DumpInput{
				In:  c.Args().First(),
				Out: c.String("out"),
			})
			if err != nil {
				return outputError(err)
			}

			reportDiagnostics(output.Diagnostics)
			return outputJSON(output)
		},
	}
}

// buildCmd creates the build command.
func buildCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "build",
		Usage:     "Encode a text file back into a binary message archive",
		ArgsUsage: "<textfile>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output archive (defaults to <textfile>.msg)"},
			&cli.StringFlag{Name: "key", Aliases: []string{"k"}, Usage: "Obfuscation key override, e.g. 0x1A2B"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("text file path is required"))
			}

			input := ops.BuildInput{
				In:  c.Args().First(),
				Out: c.String("out"),
			}
			if key := c.String("key"); key != "" {
				input.Key = &key
			}

			output, err := ops.Build(cfg, input)
			if err != nil {
				return outputError(err)
			}

			reportDiagnostics(output.Diagnostics)
			return outputJSON(output)
		},
	}
}

// inspectCmd creates the inspect command.
func inspectCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Report an archive's key, messages, and diagnostics without writing",
		ArgsUsage: "<archive>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "preview", Usage: "preview only the first N messages"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("archive path is required"))
			}

			output, err := ops.Inspect(cfg, ops.InspectInput{
				In:      c.Args().First(),
				Preview: c.Int("preview"),
			})
			if err != nil {
				return outputError(err)
			}

			reportDiagnostics(output.Diagnostics)
			return outputJSON(output)
		},
	}
}

// patchCmd creates the patch command.
func patchCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "patch",
		Usage:     "Replace one message in an archive by index",
		ArgsUsage: "<archive>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "index", Aliases: []string{"i"}, Required: true, Usage: "0-based message index"},
			&cli.StringFlag{Name: "text", Aliases: []string{"t"}, Required: true, Usage: "Replacement message text"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output archive (defaults to editing in place)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("archive path is required"))
			}

			output, err := ops.Patch(cfg, ops.PatchInput{
				In:    c.Args().First(),
				Out:   c.String("out"),
				Index: c.Int("index"),
				Text:  c.String("text"),
			})
			if err != nil {
				return outputError(err)
			}

			reportDiagnostics(output.Diagnostics)
			return outputJSON(output)
		},
	}
}

// appendCmd creates the append command.
func appendCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "append",
		Usage:     "Add a message to the end of an archive",
		ArgsUsage: "<archive>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "text", Aliases: []string{"t"}, Required: true, Usage: "Message text to append"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output archive (defaults to editing in place)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("archive path is required"))
			}

			output, err := ops.Append(cfg, ops.AppendInput{
				In:   c.Args().First(),
				Out:  c.String("out"),
				Text: c.String("text"),
			})
			if err != nil {
				return outputError(err)
			}

			reportDiagnostics(output.Diagnostics)
			return outputJSON(output)
		},
	}
}

// indexCmd creates the index command.
func indexCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "index",
		Usage:     "Decode an archive and store its messages in the search index",
		ArgsUsage: "<archive>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "game", Aliases: []string{"g"}, Value: "default", Usage: "Game the archive belongs to"},
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Archive name (defaults to the file stem)"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "error", Usage: "Collision mode: error|replace"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("archive path is required"))
			}

			output, err := ops.Index(db, cfg, ops.IndexInput{
				Path: c.Args().First(),
				Game: c.String("game"),
				Name: c.String("name"),
				Mode: c.String("mode"),
			})
			if err != nil {
				return outputError(err)
			}

			reportDiagnostics(output.Diagnostics)
			return outputJSON(output)
		},
	}
}

// fetchCmd creates the fetch command.
func fetchCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch an indexed archive by ID or name",
		ArgsUsage: "[id]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "game", Aliases: []string{"g"}, Value: "default", Usage: "Game name"},
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Archive name"},
			&cli.IntFlag{Name: "message", Aliases: []string{"m"}, Value: -1, Usage: "Fetch exactly this 0-based message"},
			&cli.IntFlag{Name: "limit", Usage: "Messages per page"},
			&cli.IntFlag{Name: "offset", Usage: "Page offset"},
		},
		Action: func(c *cli.Context) error {
			input := ops.FetchInput{
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			}

			// Check for positional ID argument
			if c.NArg() > 0 {
				input.ID = c.Args().First()
			} else {
				input.Game = c.String("game")
				input.Name = c.String("name")
			}

			if idx := c.Int("message"); idx >= 0 {
				input.Message = &idx
			}

			output, err := ops.Fetch(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List indexed archives for a game, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "game", Aliases: []string{"g"}, Value: "default", Usage: "Game name"},
			&cli.IntFlag{Name: "limit", Usage: "Archives per page"},
			&cli.IntFlag{Name: "offset", Usage: "Page offset"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(db, ops.ListInput{
				Game:   c.String("game"),
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// searchCmd creates the search command.
func searchCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search indexed message text for a substring",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "game", Aliases: []string{"g"}, Usage: "Restrict to one game"},
			&cli.IntFlag{Name: "limit", Usage: "Hits per page"},
			&cli.IntFlag{Name: "offset", Usage: "Page offset"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("query is required"))
			}

			input := ops.SearchInput{
				Query:  c.Args().First(),
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			}
			if game := c.String("game"); game != "" {
				input.Game = &game
			}

			output, err := ops.Search(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// inventoryCmd creates the inventory command.
func inventoryCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "inventory",
		Usage: "Roll the index up by game",
		Action: func(c *cli.Context) error {
			output, err := ops.Inventory(db)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// purgeCmd creates the purge command.
func purgeCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "purge",
		Usage:     "Remove archives from the index (files stay on disk)",
		ArgsUsage: "[id]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "game", Aliases: []string{"g"}, Usage: "Remove every archive of one game"},
			&cli.BoolFlag{Name: "all", Usage: "Remove the whole index"},
		},
		Action: func(c *cli.Context) error {
			input := ops.PurgeInput{
				Game: c.String("game"),
				All:  c.Bool("all"),
			}
			if c.NArg() > 0 {
				input.ID = c.Args().First()
			}

			output, err := ops.Purge(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if cwErr, ok := err.(*errors.ClockworkError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", cwErr.Code, cwErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// reportDiagnostics prints codec diagnostics to stderr, keeping stdout
// pure JSON for scripting.
func reportDiagnostics(diags []textarc.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "%s\n", d)
	}
}
