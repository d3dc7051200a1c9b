package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/AnkushinDaniil/hologram/app"
	"github.com/AnkushinDaniil/hologram/config"
	"github.com/AnkushinDaniil/hologram/entity/mode"
	"github.com/AnkushinDaniil/hologram/tutor"
)

const usage = `Usage:
  hologram [flags]                                   render recording and reconstruction frames
  hologram analyze [-window n] [-output f.html] src  chart fringe visibility of .bin streams
  hologram ask [-history file] question...           ask the optics tutor
`

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	args := os.Args[1:]
	var err error
	switch {
	case len(args) > 0 && args[0] == "analyze":
		err = analyze(args[1:])
	case len(args) > 0 && args[0] == "ask":
		err = ask(ctx, args[1:])
	default:
		err = render(ctx, args)
	}
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		stop()
		log.WithError(err).Fatal("hologram failed")
	}
}

func render(ctx context.Context, args []string) error {
	conf, err := renderConfig(args)
	if err != nil {
		return err
	}
	level, err := log.ParseLevel(conf.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	return app.New(conf).Run(ctx)
}

// renderConfig loads the config file, applies the flags over it and
// validates the result.
func renderConfig(args []string) (*config.Config, error) {
	fs := flag.NewFlagSet("hologram", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "run settings file (.yaml, .yml or .toml)")
	output := fs.String("output", "", "output directory")
	frames := fs.Int("frames", 0, "number of frames to render")
	modeName := fs.String("mode", "", "recording geometry: inline or offaxis")
	formats := fs.String("format", "", "comma separated outputs: png,gif,html,csv,bin,plot")
	paused := fs.Bool("paused", false, "render a single paused frame")
	reset := fs.Bool("reset", false, "restore the default experiment, keeping mode, intensity and play state")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	conf := config.Default()
	if *configPath != "" {
		var err error
		if conf, err = config.Load(*configPath); err != nil {
			return nil, err
		}
	}
	if *reset {
		conf.Params = conf.Params.Reset()
	}

	var err error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "output":
			conf.Output = *output
		case "frames":
			conf.Frames = *frames
		case "mode":
			m, e := mode.UnmarshalText(*modeName)
			if e != nil {
				err = fmt.Errorf("failed to parse mode: %w", e)
				return
			}
			conf.Params = conf.Params.WithMode(m)
		case "format":
			conf.Formats = strings.Split(*formats, ",")
		case "paused":
			conf.Params = conf.Params.Playing(!*paused)
		case "v":
			if *verbose {
				conf.LogLevel = "debug"
			}
		}
	})
	if err != nil {
		return nil, err
	}

	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return conf, nil
}

func analyze(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	window := fs.Int("window", 0, "visibility window in samples, 0 uses the fringe period")
	output := fs.String("output", "Visibility.html", "chart file")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	if fs.NArg() != 1 {
		return errors.New("analyze needs exactly one .bin file or directory")
	}
	return app.AnalyzeFiles(fs.Arg(0), *output, *window)
}

func ask(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("ask", flag.ContinueOnError)
	historyPath := fs.String("history", "", "conversation file (.json, .yaml or .yml), created if missing")
	model := fs.String("model", tutor.DefaultModel, "model name")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("API_KEY")
	}
	backend, err := tutor.NewGemini(ctx, apiKey, *model)
	if err != nil {
		return fmt.Errorf("failed to create tutor: %w", err)
	}

	conv := tutor.NewConversation(tutor.New(backend))
	if *historyPath != "" {
		history, err := tutor.LoadHistory(*historyPath)
		switch {
		case err == nil:
			conv.Messages = history
		case errors.Is(err, os.ErrNotExist):
			log.WithField("path", *historyPath).Debug("Starting a new conversation")
		default:
			return err
		}
	}

	reply, err := conv.Send(ctx, strings.Join(fs.Args(), " "))
	if err != nil {
		return err
	}
	fmt.Println(reply.Content)

	if *historyPath != "" {
		if err := tutor.SaveHistory(*historyPath, conv.Messages); err != nil {
			return err
		}
	}
	return nil
}
