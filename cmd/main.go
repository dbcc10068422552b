package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"kvvec/internal/config"
	"kvvec/internal/db"
	"kvvec/internal/server"
	"kvvec/pkg/logger"

	"github.com/alecthomas/kong"
)

// Version is set at build time via -ldflags "-X main.Version=...".
var Version = "dev"

type CLI struct {
	Config   string      `help:"yaml config file" type:"path"`
	Dir      string      `help:"WAL directory (overrides config)"`
	Memory   bool        `help:"keep vectors in memory only"`
	Addr     string      `help:"listen address (overrides config)"`
	LogLevel string      `name:"log-level" help:"log level (debug, info, warn, error)"`
	Version  VersionFlag `help:"print version and exit"`
}

type VersionFlag bool

func (v VersionFlag) BeforeApply(app *kong.Kong) error {
	fmt.Printf("kvvec %s (Go Version: %s)\n", Version, runtime.Version())
	os.Exit(0)
	return nil
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("kvvec"),
		kong.Description("Serve named growable key/value vectors over HTTP"),
		kong.UsageOnError(),
	)
	kctx.FatalIfErrorf(run(&cli))
}

func loadConfig(cli *CLI) (*config.Config, error) {
	var (
		conf *config.Config
		err  error
	)
	if cli.Config != "" {
		conf, err = config.FromFile(cli.Config)
	} else {
		conf, err = config.NewConfig(config.DefaultDir)
	}
	if err != nil {
		return nil, err
	}

	if cli.Dir != "" {
		conf.Dir = cli.Dir
	}
	if cli.Memory {
		conf.Dir = ""
	}
	if cli.Addr != "" {
		conf.Server.Addr = cli.Addr
	}
	if cli.LogLevel != "" {
		conf.LogLevel = cli.LogLevel
	}
	return conf, conf.Validate()
}

func run(cli *CLI) error {
	conf, err := loadConfig(cli)
	if err != nil {
		return err
	}
	if err := logger.InitLogger(conf.LogLevel, conf.LogFile); err != nil {
		return err
	}
	defer logger.Sync()

	database, err := db.New(conf)
	if err != nil {
		return err
	}
	if err := database.Open(); err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("close db", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("kvvec starting", "version", Version, "dir", conf.Dir, "vectors", len(database.ListVectors()))
	return server.New(database, conf).Run(ctx)
}
