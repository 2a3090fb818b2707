package main

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hesusruiz/tsv2smw/compiler"
	"github.com/hesusruiz/tsv2smw/formula"
	"github.com/hesusruiz/tsv2smw/lang"
	"github.com/hesusruiz/tsv2smw/pages"
	"github.com/hesusruiz/tsv2smw/preview"
	"github.com/hesusruiz/tsv2smw/shell"
	"github.com/hesusruiz/tsv2smw/wiki"
	"github.com/hesusruiz/vcutils/yaml"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// settings are the values of the flags merged with the config file.
type settings struct {
	inputs       []string
	output       string
	wikiName     string
	catName      string
	tfName       string
	language     string
	host         string
	beginID      int
	strict       bool
	dryrun       bool
	shells       string
	pages        string
	usersFile    string
	authorColumn int
	preview      string
	diagram      string
}

func newLogger(debug bool) *zap.SugaredLogger {
	var z *zap.Logger
	var err error

	if debug {
		z, err = zap.NewDevelopment()
	} else {
		z, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return z.Sugar()
}

// configString returns the flag when set on the command line or in the
// environment, else the config file entry, else the flag default.
func configString(c *cli.Context, cfg *yaml.YAML, flag, key string) string {
	if c.IsSet(flag) || cfg == nil {
		return c.String(flag)
	}
	return cfg.String(key, c.String(flag))
}

func configInt(c *cli.Context, cfg *yaml.YAML, flag, key string) int {
	if c.IsSet(flag) || cfg == nil {
		return c.Int(flag)
	}
	return cfg.Int(key, c.Int(flag))
}

func configBool(c *cli.Context, cfg *yaml.YAML, flag, key string) bool {
	if c.IsSet(flag) || cfg == nil {
		return c.Bool(flag)
	}
	return cfg.Bool(key, c.Bool(flag))
}

func readSettings(c *cli.Context) (*settings, error) {
	var cfg *yaml.YAML
	if name := c.String("config"); len(name) > 0 {
		var err error
		cfg, err = yaml.ParseYamlFile(name)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", name, err)
		}
	}

	s := &settings{
		inputs:       c.Args().Slice(),
		output:       c.String("output"),
		wikiName:     configString(c, cfg, "wiki", "wiki"),
		catName:      configString(c, cfg, "cat-name", "catName"),
		tfName:       configString(c, cfg, "ft-name", "ftName"),
		language:     configString(c, cfg, "language", "language"),
		host:         configString(c, cfg, "host", "host"),
		beginID:      configInt(c, cfg, "begin-id", "beginID"),
		strict:       configBool(c, cfg, "strict", "strict"),
		dryrun:       c.Bool("dryrun"),
		shells:       configString(c, cfg, "shells", "shells"),
		pages:        configString(c, cfg, "pages", "pages"),
		usersFile:    c.String("users-file"),
		authorColumn: c.Int("author-column"),
		preview:      c.String("preview"),
		diagram:      c.String("diagram"),
	}
	if input := c.String("input"); len(input) > 0 {
		s.inputs = append([]string{input}, s.inputs...)
	}
	if len(s.inputs) == 0 {
		return nil, fmt.Errorf("no input file provided")
	}

	// names not given default to the one of the input file
	base := strings.TrimSuffix(filepath.Base(s.inputs[0]), filepath.Ext(s.inputs[0]))
	if len(s.wikiName) == 0 {
		s.wikiName = base
	}
	if len(s.catName) == 0 {
		s.catName = base
	}
	if len(s.tfName) == 0 {
		s.tfName = s.catName
	}

	if len(s.output) == 0 {
		ext := path.Ext(s.inputs[0])
		if len(ext) == 0 {
			s.output = s.inputs[0] + ".xml"
		} else {
			s.output = strings.TrimSuffix(s.inputs[0], ext) + ".xml"
		}
	}
	return s, nil
}

func newEnv(s *settings, log *zap.SugaredLogger) (*wiki.Env, error) {
	loc, err := lang.New(s.language)
	if err != nil {
		return nil, err
	}

	var override fs.FS
	if len(s.shells) > 0 {
		override = os.DirFS(s.shells)
	}
	var source fs.FS = pages.FS
	if len(s.pages) > 0 {
		source = os.DirFS(s.pages)
	}

	return &wiki.Env{
		Shells: shell.NewLoader(override, log),
		Lang:   loc,
		Pages:  source,
		Host:   s.host,
		Now:    time.Now,
		Log:    log,
	}, nil
}

// writeOutput writes the dump unless in dry run mode.
func writeOutput(s *settings, dump []byte, log *zap.SugaredLogger) error {
	if s.dryrun {
		log.Infow("dry run, output not written", "output", s.output, "bytes", len(dump))
		return nil
	}
	if err := os.WriteFile(s.output, dump, 0664); err != nil {
		return err
	}

	if len(s.preview) > 0 {
		var b bytes.Buffer
		if err := preview.HTML(&b, string(dump), preview.DefaultStyle); err != nil {
			return fmt.Errorf("rendering preview: %w", err)
		}
		if err := os.WriteFile(s.preview, b.Bytes(), 0664); err != nil {
			return err
		}
		log.Infow("preview written", "file", s.preview)
	}
	return nil
}

// compileSchema compiles the schema file and writes the dump.
func compileSchema(ctx context.Context, s *settings, log *zap.SugaredLogger) error {
	env, err := newEnv(s, log)
	if err != nil {
		return err
	}

	policy := formula.Warn
	if s.strict {
		policy = formula.Fail
	}
	c := compiler.New(compiler.Options{
		WikiName: s.wikiName,
		CatName:  s.catName,
		TFName:   s.tfName,
		Host:     s.host,
		StartID:  s.beginID,
		Policy:   policy,
		Strict:   s.strict,
		Filename: s.inputs[0],
	}, env.Lang, log)

	f, err := os.Open(s.inputs[0])
	if err != nil {
		return err
	}
	defer f.Close()

	var dump bytes.Buffer
	res, err := c.Compile(f, &dump, env)
	if err != nil {
		return err
	}
	if err := writeOutput(s, dump.Bytes(), log); err != nil {
		return err
	}

	if len(s.diagram) > 0 && !s.dryrun {
		svg, err := preview.SVG(ctx, preview.NewOutline(s.tfName, res).Source())
		if err != nil {
			return err
		}
		if err := os.WriteFile(s.diagram, svg, 0664); err != nil {
			return err
		}
		log.Infow("diagram written", "file", s.diagram)
	}
	return nil
}

// mergeData merges the data files into the instance pages of a compiled schema.
func mergeData(ctx context.Context, s *settings, log *zap.SugaredLogger) error {
	env, err := newEnv(s, log)
	if err != nil {
		return err
	}

	opts := compiler.DataOptions{
		WikiName:     s.wikiName,
		TFName:       s.tfName,
		Host:         s.host,
		StartID:      s.beginID,
		AuthorColumn: s.authorColumn,
	}
	if len(s.usersFile) > 0 {
		f, err := os.Open(s.usersFile)
		if err != nil {
			return err
		}
		opts.Users, err = compiler.ReadUsers(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("reading users file %s: %w", s.usersFile, err)
		}
	}

	m := compiler.NewMerger(opts, log)
	for _, name := range s.inputs {
		if err := readData(m, name); err != nil {
			return err
		}
	}

	var dump bytes.Buffer
	if err := m.Write(&dump, env); err != nil {
		return err
	}
	return writeOutput(s, dump.Bytes(), log)
}

func readData(m *compiler.Merger, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := m.Read(f); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// watch runs the job once and then again each time an input file changes,
// until the context is cancelled.
func watch(ctx context.Context, s *settings, log *zap.SugaredLogger, job func(context.Context, *settings, *zap.SugaredLogger) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// directories are watched, editors save files by renaming them
	watched := map[string]bool{}
	for _, name := range s.inputs {
		abs, err := filepath.Abs(name)
		if err != nil {
			return err
		}
		watched[abs] = true
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watch directory: %w", err)
		}
	}

	run := func() {
		if err := job(ctx, s, log); err != nil {
			log.Errorw("processing failed", "error", err)
		}
	}
	run()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, _ := filepath.Abs(event.Name)
			if watched[abs] && event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				log.Infow("input changed", "file", event.Name, "event", event.Op.String())
				run()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Errorw("file watcher error", "error", err)
		}
	}
}

// action builds the command action running job with the settings of the command line.
func action(job func(context.Context, *settings, *zap.SugaredLogger) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		log := newLogger(c.Bool("debug"))
		defer log.Sync()

		s, err := readSettings(c)
		if err != nil {
			log.Fatalw("invalid arguments", "error", err)
		}
		log.Infow("processing", "inputs", s.inputs, "output", s.output, "wiki", s.wikiName,
			"category", s.catName, "template", s.tfName, "language", s.language)

		ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
		defer stop()

		if c.Bool("watch") {
			err = watch(ctx, s, log, job)
		} else {
			err = job(ctx, s, log)
		}
		if err != nil {
			log.Fatalw("processing failed", "error", err)
		}
		return nil
	}
}

var commonFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "input",
		Aliases: []string{"i"},
		Usage:   "read the input from `FILE`",
		EnvVars: []string{"TSV2SMW_INPUT"},
	},
	&cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "write the dump to `FILE` (default is the input file name with extension .xml)",
		EnvVars: []string{"TSV2SMW_OUTPUT"},
	},
	&cli.StringFlag{
		Name:    "wiki",
		Usage:   "name of the wiki (default is the input file name)",
		EnvVars: []string{"TSV2SMW_WIKI"},
	},
	&cli.StringFlag{
		Name:    "ft-name",
		Usage:   "name of the main template and form (default is the category name)",
		EnvVars: []string{"TSV2SMW_FT_NAME"},
	},
	&cli.StringFlag{
		Name:    "language",
		Aliases: []string{"l"},
		Value:   "en",
		Usage:   "language of the generated pages",
		EnvVars: []string{"TSV2SMW_LANGUAGE"},
	},
	&cli.IntFlag{
		Name:    "begin-id",
		Aliases: []string{"b"},
		Value:   1,
		Usage:   "first page ID",
		EnvVars: []string{"TSV2SMW_BEGIN_ID"},
	},
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "read default settings from the YAML `FILE`",
		EnvVars: []string{"TSV2SMW_CONFIG"},
	},
	&cli.StringFlag{
		Name:    "shells",
		Usage:   "read the shells from `DIR`, falling back to the embedded ones",
		EnvVars: []string{"TSV2SMW_SHELLS"},
	},
	&cli.StringFlag{
		Name:    "pages",
		Usage:   "read the simple pages from `DIR` instead of the embedded ones",
		EnvVars: []string{"TSV2SMW_PAGES"},
	},
	&cli.StringFlag{
		Name:    "host",
		Value:   "localhost",
		Usage:   "host of the wiki and of the chart server",
		EnvVars: []string{"TSV2SMW_HOST"},
	},
	&cli.StringFlag{
		Name:  "preview",
		Usage: "also write the dump as highlighted HTML to `FILE`",
	},
	&cli.BoolFlag{
		Name:    "dryrun",
		Aliases: []string{"n"},
		Usage:   "do not write the output file, just process the input",
	},
	&cli.BoolFlag{
		Name:    "debug",
		Aliases: []string{"d"},
		Usage:   "run in debug mode",
		EnvVars: []string{"TSV2SMW_DEBUG"},
	},
	&cli.BoolFlag{
		Name:    "watch",
		Aliases: []string{"w"},
		Usage:   "watch the input files for changes",
	},
}

// newApp builds the command line of the tool.
func newApp() *cli.App {
	schemaFlags := append([]cli.Flag{
		&cli.StringFlag{
			Name:    "cat-name",
			Usage:   "name of the main category (default is the input file name)",
			EnvVars: []string{"TSV2SMW_CAT_NAME"},
		},
		&cli.BoolFlag{
			Name:    "strict",
			Usage:   "fail on reused groups and unresolved formula references",
			EnvVars: []string{"TSV2SMW_STRICT"},
		},
		&cli.StringFlag{
			Name:  "diagram",
			Usage: "also write an SVG diagram of the schema to `FILE`",
		},
	}, commonFlags...)

	dataFlags := append([]cli.Flag{
		&cli.StringFlag{
			Name:    "users-file",
			Aliases: []string{"u"},
			Usage:   "attribute the pages to the users listed in `FILE`",
			EnvVars: []string{"TSV2SMW_USERS_FILE"},
		},
		&cli.IntFlag{
			Name:    "author-column",
			Value:   compiler.DefaultAuthorColumn,
			Usage:   "field of the pages holding the name of their author",
			EnvVars: []string{"TSV2SMW_AUTHOR_COLUMN"},
		},
	}, commonFlags...)

	return &cli.App{
		Name:     "tsv2smw",
		Version:  "v0.1.0",
		Compiled: time.Now(),
		Usage:    "compile a tabular schema into a Semantic MediaWiki XML dump",
		Commands: []*cli.Command{
			{
				Name:      "schema",
				Usage:     "compile a schema into the properties, templates, forms and categories of a wiki",
				ArgsUsage: "[SCHEMA_FILE]",
				Flags:     schemaFlags,
				Action:    action(compileSchema),
			},
			{
				Name:      "data",
				Usage:     "merge data files into the instance pages of a compiled schema",
				ArgsUsage: "[DATA_FILE...]",
				Flags:     dataFlags,
				Action:    action(mergeData),
			},
		},
	}
}

func main() {
	// a missing .env file is not an error
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
