package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"lstree/fileutil"
	"lstree/output"
	"lstree/tree"

	"github.com/BurntSushi/toml"
	"github.com/alexflint/go-arg"
	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	version           = "0.1.0"
	ignoreFile        = ".lstreeignore"
	defaultConfigFile = "lstree.toml"
)

var errConfigMissing = errors.New("config file is missing or not a regular file")

type Config struct {
	Options Options     `toml:"options"`
	Glyphs  GlyphConfig `toml:"glyphs"`
}

type Options struct {
	Depth          int      `toml:"depth"`
	Indent         int      `toml:"indent"`
	FolderOnly     bool     `toml:"folder_only"`
	ShowHidden     bool     `toml:"show_hidden"`
	Emoji          bool     `toml:"emoji"`
	HiddenPrefixes string   `toml:"hidden_prefixes"`
	Exclude        []string `toml:"exclude"`
	OutputFile     string   `toml:"output_file"`
	LogLevel       string   `toml:"log_level"`
}

// GlyphConfig holds the name prefixes used in emoji mode.
type GlyphConfig struct {
	Dir  string `toml:"dir"`
	File string `toml:"file"`
	Link string `toml:"link"`
}

// Default configuration to fall back on if no config file is found
var defaultConfig = Config{
	Options: Options{
		Depth:          1,
		Indent:         2,
		HiddenPrefixes: tree.DefaultHiddenPrefixes,
		OutputFile:     "FOLDER_LIST",
		LogLevel:       "warn",
	},
	Glyphs: GlyphConfig{
		Dir:  tree.EmojiGlyphs.Dir,
		File: tree.EmojiGlyphs.File,
		Link: tree.EmojiGlyphs.Link,
	},
}

type Args struct {
	Path        string   `arg:"positional" placeholder:"PATH" help:"folder path [default: .]"`
	Depth       *int     `arg:"-d,--depth" placeholder:"INT" help:"level(s) of sub-folders to be listed [default: 1]"`
	Indent      *int     `arg:"-i,--indent" placeholder:"INT" help:"indent character width of each sub-level [default: 2]"`
	FolderOnly  bool     `arg:"-f,--folderonly" help:"list folders only"`
	Period      bool     `arg:"-p,--period" help:"include folder/file names started with '.' or '@'"`
	Silent      bool     `arg:"-s,--silent" help:"don't show result on screen"`
	OutputFile  string   `arg:"-o,--outputfile" placeholder:"FILENAME" help:"output file name [default: FOLDER_LIST]"`
	Emoji       bool     `arg:"-e,--emoji" help:"add emoji as prefix to folder/file names"`
	TextFile    bool     `arg:"-t,--textfile" help:"write to text file"`
	CSV         bool     `arg:"-c,--csv" help:"write to csv file"`
	Tab         bool     `arg:"-b,--tab" help:"write to tsv file"`
	Exclude     []string `arg:"-x,--exclude,separate" placeholder:"GLOB" help:"exclude names matching the pattern (repeatable)"`
	Stats       bool     `arg:"--stats" help:"print a summary after the listing"`
	ConfigFile  string   `arg:"--config" placeholder:"FILE" help:"path to config file [default: lstree.toml]"`
	LogLevel    string   `arg:"--log-level" placeholder:"LEVEL" help:"debug, info, warn or error"`
	ShowVersion bool     `arg:"-v,--version" help:"show program's version number and exit"`
}

func (Args) Description() string {
	return "List folder content recursively in tree structure"
}

func (Args) Version() string {
	return "lstree " + version
}

// validate checks constraints go-arg cannot express.
func (a Args) validate() error {
	targets := 0
	for _, set := range []bool{a.TextFile, a.CSV, a.Tab} {
		if set {
			targets++
		}
	}
	if targets > 1 {
		return errors.New("only one of --textfile, --csv and --tab may be given")
	}
	return nil
}

// target returns the file format requested on the command line.
func (a Args) target() (output.Target, bool) {
	switch {
	case a.TextFile:
		return output.Text, true
	case a.CSV:
		return output.CSV, true
	case a.Tab:
		return output.TSV, true
	default:
		return output.Target{}, false
	}
}

// loadConfig overlays the config file at path on the defaults. A missing file
// is only an error when the user named it explicitly.
func loadConfig(path string, explicit bool) (Config, bool, error) {
	cfg := defaultConfig
	cfg.Options.Exclude = slices.Clone(defaultConfig.Options.Exclude)

	path = fileutil.ExpandPath(path)
	if !fileutil.IsRegularFile(path) {
		if explicit {
			return cfg, false, fmt.Errorf("%w: %s", errConfigMissing, path)
		}
		return cfg, false, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, false, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, true, nil
}

// applyArgs lets command line flags override the config file.
func (c *Config) applyArgs(a Args) {
	if a.Depth != nil {
		c.Options.Depth = *a.Depth
	}
	if a.Indent != nil {
		c.Options.Indent = *a.Indent
	}
	if a.FolderOnly {
		c.Options.FolderOnly = true
	}
	if a.Period {
		c.Options.ShowHidden = true
	}
	if a.Emoji {
		c.Options.Emoji = true
	}
	if a.OutputFile != "" {
		c.Options.OutputFile = a.OutputFile
	}
	if a.LogLevel != "" {
		c.Options.LogLevel = a.LogLevel
	}
	c.Options.Exclude = append(c.Options.Exclude, a.Exclude...)
}

// validate checks the merged settings, whichever source they came from.
func (c Config) validate() error {
	if c.Options.Depth < 0 {
		return fmt.Errorf("depth must not be negative, got %d", c.Options.Depth)
	}
	return nil
}

func (c Config) treeOptions() tree.Options {
	glyphs := tree.PlainGlyphs
	if c.Options.Emoji {
		glyphs = tree.Glyphs{Dir: c.Glyphs.Dir, File: c.Glyphs.File, Link: c.Glyphs.Link}
	}
	return tree.Options{
		Depth:          c.Options.Depth,
		Indent:         c.Options.Indent,
		DirsOnly:       c.Options.FolderOnly,
		ShowHidden:     c.Options.ShowHidden,
		HiddenPrefixes: c.Options.HiddenPrefixes,
		Exclude:        c.Options.Exclude,
		Glyphs:         glyphs,
	}
}

// newLogger builds a console logger writing to w.
func newLogger(logLevel string, w io.Writer) *zap.SugaredLogger {
	level := zap.WarnLevel
	invalid := level.UnmarshalText([]byte(logLevel)) != nil

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format("15:04:05"))
	}
	encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encCfg.EncodeCaller = zapcore.ShortCallerEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), zap.NewAtomicLevelAt(level))
	sugar := zap.New(core).Sugar()
	if invalid {
		sugar.Warnf("Invalid log level %q, defaulting to warn", logLevel)
	}
	return sugar
}

func run(args Args, stdout, stderr io.Writer, colorize bool) int {
	if args.ShowVersion {
		fmt.Fprintln(stdout, args.Version())
		return 0
	}

	configPath := args.ConfigFile
	if configPath == "" {
		configPath = defaultConfigFile
	}
	cfg, fromFile, err := loadConfig(configPath, args.ConfigFile != "")
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	cfg.applyArgs(args)
	if err := cfg.validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	sugar := newLogger(cfg.Options.LogLevel, stderr)
	defer sugar.Sync()
	if fromFile {
		sugar.Infof("Using config at %s", configPath)
	} else {
		sugar.Debugf("No config file found at %s. Using default config.", configPath)
	}

	inputPath := args.Path
	if inputPath == "" {
		inputPath = "."
	}
	listPath := fileutil.ExpandPath(inputPath)

	if err := fileutil.ValidateDir(listPath); err != nil {
		switch {
		case errors.Is(err, fileutil.ErrPathNotFound):
			fmt.Fprintf(stderr, "%s does not exist.\n", inputPath)
		case errors.Is(err, fileutil.ErrNotADirectory):
			fmt.Fprintf(stderr, "%s is not a directory\n", inputPath)
		default:
			fmt.Fprintf(stderr, "Cannot access %s: %v\n", inputPath, err)
		}
		return 1
	}

	root, err := filepath.Abs(listPath)
	if err != nil {
		fmt.Fprintf(stderr, "Cannot resolve %s: %v\n", inputPath, err)
		return 1
	}

	ignorePath := filepath.Join(root, ignoreFile)
	if fileutil.IsRegularFile(ignorePath) {
		extra, err := fileutil.ReadFileLines(ignorePath, true)
		if err != nil {
			fmt.Fprintf(stderr, "Error reading %s: %v\n", ignorePath, err)
			return 1
		}
		sugar.Debugf("Adding exclude patterns from %s: %v", ignorePath, extra)
		cfg.Options.Exclude = append(cfg.Options.Exclude, extra...)
	}

	opts := cfg.treeOptions()
	opts.OnSkip = func(path string, err error) {
		sugar.Warnf("Skipping unreadable directory %s: %v", path, err)
	}

	newRenderer := func(delimiter string) (*tree.Renderer, error) {
		o := opts
		o.Delimiter = delimiter
		return tree.New(nil, o)
	}

	var last *tree.Renderer

	if !args.Silent {
		r, err := newRenderer("")
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		if err := output.PrintTree(stdout, root, r.Lines(root), colorize); err != nil {
			fmt.Fprintf(stderr, "Error printing tree: %v\n", err)
			return 1
		}
		last = r
	}

	if target, ok := args.target(); ok {
		r, err := newRenderer(target.Delimiter)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}

		name, err := output.Filename(cfg.Options.OutputFile, target)
		if err != nil {
			fmt.Fprintf(stderr, "Error choosing output file: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "\nWriting folder tree to file %s\n", name)

		header := output.Header{
			Path:       inputPath,
			Root:       root,
			Depth:      cfg.Options.Depth,
			FolderOnly: cfg.Options.FolderOnly,
			Time:       time.Now(),
		}
		if err := output.WriteFile(name, header, r.Lines(root)); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "\nFolder tree has been written to file: %s\n\n", name)
		last = r
	}

	if args.Stats {
		if last == nil {
			r, err := newRenderer("")
			if err != nil {
				fmt.Fprintln(stderr, err)
				return 1
			}
			for range r.Lines(root) {
			}
			last = r
		}
		output.PrintStats(stdout, last.Stats(), colorize)
	}

	return 0
}

func main() {
	var args Args
	p := arg.MustParse(&args)
	if err := args.validate(); err != nil {
		p.Fail(err.Error())
	}
	os.Exit(run(args, os.Stdout, os.Stderr, !color.NoColor))
}
