package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.fergus.london/razerled/device"
)

var colours = []device.Colour{
	device.ColourFromValues(0x80, 0x00, 0x00),
	device.ColourFromValues(0x80, 0x80, 0x00),
	device.ColourFromValues(0x80, 0x00, 0x80),
	device.ColourFromValues(0x00, 0x80, 0x00),
	device.ColourFromValues(0x00, 0x80, 0x80),
	device.ColourFromValues(0x00, 0x00, 0x80),
}

func gracefulTermination(cancel context.CancelFunc, m *device.Mouse) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Println("SIGTERM received, performing graceful shutdown")
		cancel()
		m.Stop()
	}()
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	m := device.NewMouse(ctx, device.Options{})

	if err := m.Connect(); err != nil {
		panic(err)
	}

	gracefulTermination(cancel, m)

	// Don't terminate until device has been cleanly shutdown
	defer func() {
		fmt.Println("waiting for device disconnection")
		m.Done()
		fmt.Println("device disconnected: terminating app")
	}()

	fmt.Println("breathing scrollwheel")
	if err := m.WriteCommand(device.NewBreath(device.Scrollwheel, nil)); err != nil {
		fmt.Println("unable to set scrollwheel", err)
	}

	i := 0
	t := time.NewTimer(time.Second)
	for {
		select {
		case <-ctx.Done():
			fmt.Println("context cancelled: stopping commands")
			t.Stop()
			return
		case <-t.C:
			c := colours[i%len(colours)]
			fmt.Println("changing logo colour: ", c)
			if err := m.WriteCommand(device.NewStatic(device.Logo, c)); err != nil {
				fmt.Println("unable to change colour", err)
			}

			i = i + 1
			t.Reset(time.Second)
		}
	}
}
