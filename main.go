package main

import (
	"log/slog"
	"os"

	"bmpgen/convert"
	"bmpgen/generate"
	"bmpgen/parallel"

	"github.com/alecthomas/kong"
)

type cli struct {
	LogLevel string `help:"Log level" enum:"debug,info,warn,error" default:"info"`
	Workers  int    `help:"Number of worker goroutines, 0 for one per CPU" default:"0"`

	New     generate.CLICmd `cmd:"" help:"Create a bitmap, optionally rendering the Mandelbrot set and filling regions"`
	Convert convert.CLICmd  `cmd:"" help:"Convert pictures to uncompressed bitmaps"`
}

func main() {
	var c cli
	kctx := kong.Parse(&c,
		kong.Name("bmpgen"),
		kong.Description("Uncompressed 24/32-bit BMP writer"),
		kong.UsageOnError(),
		kong.Configuration(kong.JSON, "/etc/bmpgen.json", "~/.bmpgen.json"),
	)

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		kctx.Fatalf("invalid log level %q: %v", c.LogLevel, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	pool := parallel.Start(c.Workers)
	err := kctx.Run(pool.Do)
	pool.Wait(true)

	if err != nil {
		slog.Error("command failed", "command", kctx.Command(), "error", err)
		os.Exit(1)
	}
}
