package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/hpungsan/twine/internal/config"
	"github.com/hpungsan/twine/internal/db"
	"github.com/hpungsan/twine/internal/errors"
	"github.com/hpungsan/twine/internal/ops"
	"github.com/hpungsan/twine/internal/web"
)

// stdinOverhead leaves room for a trailing newline and UTF-8 width on top of
// the configured character limit.
const stdinOverhead = 1024

// newCLIApp creates the CLI application with all commands.
func newCLIApp(store *db.Store, cfg *config.Config, log *zap.SugaredLogger) *cli.App {
	app := &cli.App{
		Name:    "twine",
		Usage:   "String analysis store",
		Version: Version,
		Commands: []*cli.Command{
			analyzeCmd(store, cfg),
			getCmd(store),
			listCmd(store),
			queryCmd(store),
			deleteCmd(store),
			exportCmd(store, cfg),
			importCmd(store, cfg),
			serveCmd(store, cfg, log),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// analyzeCmd creates the analyze command.
func analyzeCmd(store *db.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Analyze and store a string (argument or stdin)",
		ArgsUsage: "[value]",
		Action: func(c *cli.Context) error {
			value, err := valueArg(c, cfg)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Create(c.Context, store, cfg, ops.CreateInput{Value: value})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// getCmd creates the get command.
func getCmd(store *db.Store) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Fetch a stored string by exact value",
		ArgsUsage: "<value>",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("value argument is required"))
			}

			output, err := ops.Fetch(c.Context, store, c.Args().First())
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// listCmd creates the list command.
func listCmd(store *db.Store) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List stored strings matching every given filter",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "palindrome", Aliases: []string{"p"}, Usage: "Only palindromes (--palindrome=false for non-palindromes)"},
			&cli.IntFlag{Name: "min-length", Usage: "Minimum length in characters"},
			&cli.IntFlag{Name: "max-length", Usage: "Maximum length in characters"},
			&cli.IntFlag{Name: "word-count", Aliases: []string{"w"}, Usage: "Exact number of words"},
			&cli.StringFlag{Name: "contains", Aliases: []string{"c"}, Usage: "Single character the string must contain"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(c.Context, store, listParams(c))
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// listParams maps explicitly set flags onto the query parameters ops.List parses.
func listParams(c *cli.Context) url.Values {
	params := url.Values{}
	if c.IsSet("palindrome") {
		params.Set("is_palindrome", strconv.FormatBool(c.Bool("palindrome")))
	}
	for flag, param := range map[string]string{
		"min-length": "min_length",
		"max-length": "max_length",
		"word-count": "word_count",
	} {
		if c.IsSet(flag) {
			params.Set(param, strconv.Itoa(c.Int(flag)))
		}
	}
	if c.IsSet("contains") {
		params.Set("contains_character", c.String("contains"))
	}
	return params
}

// queryCmd creates the query command.
func queryCmd(store *db.Store) *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "List stored strings using a plain-English query",
		ArgsUsage: "<phrase...>",
		Action: func(c *cli.Context) error {
			phrase := strings.Join(c.Args().Slice(), " ")

			output, err := ops.Interpret(c.Context, store, phrase)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(store *db.Store) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a stored string by exact value",
		ArgsUsage: "<value>",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("value argument is required"))
			}

			output, err := ops.Delete(c.Context, store, c.Args().First())
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(store *db.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export stored strings to a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path, .jsonl or .jsonl.zst (default: ~/.twine/exports/strings-<timestamp>.jsonl)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Export(c.Context, store, cfg, ops.ExportInput{Path: c.String("path")})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// importCmd creates the import command.
func importCmd(store *db.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import strings from a JSONL export",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Import file path"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "error", Usage: "Collision mode: error|skip"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ImportInput{
				Path: c.String("path"),
				Mode: ops.ImportMode(c.String("mode")),
			}

			output, err := ops.Import(c.Context, store, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(store *db.Store, cfg *config.Config, log *zap.SugaredLogger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Usage: "Bind address (overrides config)"},
			&cli.IntFlag{Name: "port", Usage: "Listen port (overrides config and PORT)"},
		},
		Action: func(c *cli.Context) error {
			if c.IsSet("bind") {
				cfg.Bind = c.String("bind")
			}
			if c.IsSet("port") {
				port := c.Int("port")
				if port <= 0 || port > 65535 {
					return outputError(errors.NewInvalidRequest("port must be between 1 and 65535"))
				}
				cfg.Port = port
			}

			srv, err := web.NewServer(store, cfg, log, Version)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			if err := web.Run(c.Context, srv, log); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return nil
		},
	}
}

// Helper functions

// outputJSON marshals result to w as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	tErr := errors.As(err)
	return cli.Exit(fmt.Sprintf("[%s] %s", tErr.Code, tErr.Message), 1)
}

// valueArg returns the first positional argument, or the piped stdin content
// when there is none.
func valueArg(c *cli.Context, cfg *config.Config) (string, error) {
	if c.NArg() > 0 {
		return c.Args().First(), nil
	}

	r := c.App.Reader
	if f, ok := r.(*os.File); ok && !stdinHasData(f) {
		return "", errors.NewInvalidRequest("value must be given as an argument or piped via stdin")
	}

	limit := int64(stdinOverhead)
	if cfg != nil && cfg.MaxValueChars > 0 {
		limit += int64(cfg.MaxValueChars) * 4
	} else {
		limit = 0
	}
	return readStdin(r, limit)
}

// stdinHasData returns true if f has piped data (not a terminal).
func stdinHasData(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads r up to limit bytes (0 = unlimited) and strips one
// trailing line ending. Other whitespace is part of the value.
func readStdin(r io.Reader, limit int64) (string, error) {
	var data []byte
	var err error
	if limit > 0 {
		data, err = io.ReadAll(io.LimitReader(r, limit+1))
		if err == nil && int64(len(data)) > limit {
			return "", errors.NewInvalidRequest(fmt.Sprintf("stdin exceeds %d bytes", limit))
		}
	} else {
		data, err = io.ReadAll(r)
	}
	if err != nil {
		return "", errors.NewInternal(err)
	}

	s := string(data)
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	return s, nil
}
