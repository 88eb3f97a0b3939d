package main

import (
	"errors"
	"fmt"

	"go.fergus.london/razerled/device"
)

const (
	effectOff        = "off"
	effectStatic     = "static"
	effectBreath     = "breath"
	effectSpectrum   = "spectrum"
	effectBrightness = "brightness"
)

var (
	errUsage         = errors.New("usage")
	errUnknownEffect = errors.New("unknown effect")
)

// buildCommand turns positional arguments - LED, effect and an optional
// colour - into a device command.
func buildCommand(args []string) (device.Command, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("%w: an LED and an effect are required", errUsage)
	}

	led, err := device.ParseLED(args[0])
	if err != nil {
		return nil, err
	}

	effect, rest := args[1], args[2:]
	switch effect {
	case effectOff, effectSpectrum, effectBrightness:
		if len(rest) > 0 {
			return nil, fmt.Errorf("%w: %s takes no colour", errUsage, effect)
		}
	case effectStatic:
		if len(rest) != 1 {
			return nil, fmt.Errorf("%w: static needs exactly one colour", errUsage)
		}
	case effectBreath:
		if len(rest) > 1 {
			return nil, fmt.Errorf("%w: breath takes at most one colour", errUsage)
		}
	default:
		return nil, fmt.Errorf("%q: %w", effect, errUnknownEffect)
	}

	switch effect {
	case effectOff:
		return device.NewOff(led), nil
	case effectSpectrum:
		return device.NewSpectrum(led), nil
	case effectBrightness:
		return device.NewBrightness(led), nil
	case effectStatic:
		c, err := device.ParseColour(rest[0])
		if err != nil {
			return nil, err
		}
		return device.NewStatic(led, c), nil
	default:
		if len(rest) == 0 {
			return device.NewBreath(led, nil), nil
		}
		c, err := device.ParseColour(rest[0])
		if err != nil {
			return nil, err
		}
		return device.NewBreath(led, &c), nil
	}
}
