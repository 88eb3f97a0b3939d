package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"go.fergus.london/razerled/device"
	"go.fergus.london/razerled/internal/config"
	"go.fergus.london/razerled/internal/logging"
)

const usageText = `Set the effect and sometimes colour of the mouse LEDs.

usage: razerled [flags] <logo|scrollwheel> <off|static|breath|spectrum|brightness> [#RRGGBB]

`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, device.OpenUSB))
}

// run returns the process exit status: 0 on success, 2 for bad arguments
// and 1 for everything else.
func run(args []string, stdout, stderr io.Writer, opener device.Opener) int {
	flags := pflag.NewFlagSet("razerled", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprint(stderr, usageText)
		flags.PrintDefaults()
	}

	configPath := flags.StringP("config", "c", "", "path to a config file")
	dryRun := flags.BoolP("dry-run", "n", false, "print the report as hex instead of writing it")
	flags.Uint16("vendor-id", device.DefaultVendorID, "USB vendor id")
	flags.Uint16("product-id", device.DefaultProductID, "USB product id")
	flags.Uint16("interface", device.DefaultInterface, "USB interface the reports are sent to")
	flags.Duration("timeout", device.DefaultTimeout, "control transfer timeout")
	flags.String("log-level", "info", "debug, info, warn or error")
	flags.String("log-format", "console", "console or json")
	flags.String("log-file", "", "also log to this file, rotated")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	cmd, err := buildCommand(flags.Args())
	if err != nil {
		fmt.Fprintln(stderr, err)
		flags.Usage()
		return 2
	}

	if *dryRun {
		pkt, err := device.Encode(cmd)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintln(stdout, hex.EncodeToString(pkt))
		return 0
	}

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	m := device.NewMouse(context.Background(), device.Options{
		VendorID:  cfg.Device.VendorID,
		ProductID: cfg.Device.ProductID,
		Interface: cfg.Device.Interface,
		Timeout:   cfg.Device.Timeout,
		Opener:    opener,
		Logger:    logger,
	})

	if err := m.Connect(); err != nil {
		logger.Error("unable to connect to device", zap.Error(err))
		return 1
	}
	defer func() {
		m.Stop()
		m.Done()
	}()

	if err := m.WriteCommand(cmd); err != nil {
		logger.Error("unable to write command", zap.Error(err))
		return 1
	}

	logger.Info("command written", zap.Strings("args", flags.Args()))
	return 0
}
