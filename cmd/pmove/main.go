package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/oomph-ac/pmove/settings"
	"github.com/sirupsen/logrus"
)

var CLI struct {
	Debug     bool     `help:"Enable debug logging."`
	Trace     []string `help:"Movement debug output to enable (movement_sim, collision, ground, duck, water, ladder). Implies --debug." placeholder:"MODE"`
	Statsview string   `help:"Serve live runtime statistics on this address." placeholder:"ADDR"`

	Simulate struct {
		Map      string `help:"Map to simulate on." type:"existingfile" required:""`
		Script   string `help:"Input script to run." type:"existingfile" required:""`
		Settings string `help:"Movement settings file. Defaults are used if omitted." type:"existingfile"`
		Record   string `help:"Write a demo of the run to this file."`
	} `cmd:"" help:"Run an input script on a map and print where the player ends up."`

	Replay struct {
		Demo string `arg:"" help:"Demo to replay." type:"existingfile"`
		Map  string `help:"Map the demo was recorded on." type:"existingfile" required:""`
	} `cmd:"" help:"Re-simulate a demo and check that every tick reproduces."`

	Config struct {
	} `cmd:"" help:"Write the default movement settings to standard output."`
}

func writeError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("pmove"),
		kong.Description("a deterministic player movement simulator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	log.Level = logrus.InfoLevel
	if CLI.Debug || len(CLI.Trace) != 0 {
		log.Level = logrus.DebugLevel
	}

	if CLI.Statsview != "" {
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(CLI.Statsview))
		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
		log.Infof("runtime statistics on http://%s/debug/statsview", CLI.Statsview)
	}

	var err error
	switch ctx.Command() {
	case "simulate":
		err = simulateCommand(log)
	case "replay <demo>":
		err = replayCommand(log)
	case "config":
		var dat []byte
		if dat, err = settings.Encode(settings.DefaultSettings()); err == nil {
			_, err = os.Stdout.Write(dat)
		}
	}
	if err != nil {
		writeError(err)
	}
}
