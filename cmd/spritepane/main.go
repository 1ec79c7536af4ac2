package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/bodgit/spritepane"
	"github.com/bodgit/spritepane/raster"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func pack(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	background, err := raster.ParseBackground(c.String("background"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	options := []spritepane.Option{
		spritepane.WithLogger(newLogger(c)),
		spritepane.WithBackground(background),
		spritepane.WithEncoding(raster.Options{
			Optimize: c.Bool("optimize"),
			Colors:   c.Int("colors"),
		}),
		spritepane.WithDerive(c.Bool("derive")),
	}
	if c.IsSet("jobs") {
		options = append(options, spritepane.WithJobs(c.Int("jobs")))
	}

	if db := c.String("db"); db != "" {
		cache, err := spritepane.NewCache(db)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		defer cache.Close()
		options = append(options, spritepane.WithCache(cache))
	}

	p, err := spritepane.New(options...)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := p.PackAll(ctx, c.Args().Slice(), c.String("output")); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func verify(c *cli.Context) error {
	if c.NArg() != 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	if err := spritepane.Verify(c.Args().Get(0), c.Args().Get(1)); err != nil {
		return cli.NewExitError(err, 1)
	}

	newLogger(c).Printf("%s and %s are consistent\n", c.Args().Get(0), c.Args().Get(1))

	return nil
}

func newApp(cwd string) *cli.App {
	app := cli.NewApp()

	app.Name = "spritepane"
	app.Usage = "Sprite pane and placement manifest generator"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"SPRITEPANE_DB"},
			Usage:   "path to build cache database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "pack",
			Usage:       "Pack images into sprite panes",
			Description: "Images named without \"@\" are packed into spritePane.png and spritePane.json, images named with \"@2x\" into spritePane@2x.png and spritePane@2x.json.",
			ArgsUsage:   "IMAGE...",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					EnvVars: []string{"SPRITEPANE_OUTPUT"},
					Value:   cwd,
					Usage:   "output directory",
				},
				&cli.StringFlag{
					Name:  "background",
					Value: "transparent",
					Usage: "color of uncovered pane areas, a color name or #rrggbb[aa]",
				},
				&cli.BoolFlag{
					Name:  "optimize",
					Value: true,
					Usage: "losslessly minimize the PNG size",
				},
				&cli.IntFlag{
					Name:  "colors",
					Usage: "quantize each pane to at most this many colors (lossy)",
				},
				&cli.BoolFlag{
					Name:  "derive",
					Usage: "derive missing standard density images from @2x images",
				},
				&cli.IntFlag{
					Name:    "jobs",
					Aliases: []string{"j"},
					Usage:   "number of images decoded concurrently",
				},
			},
			Action: pack,
		},
		{
			Name:        "verify",
			Usage:       "Check a pane against its manifest",
			Description: "",
			ArgsUsage:   "PNG JSON",
			Action:      verify,
		},
	}

	return app
}

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	if err := newApp(cwd).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
