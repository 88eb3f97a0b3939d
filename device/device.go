package device

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/gousb"
	"go.uber.org/zap"
)

const (
	// Razer USB vendor id.
	DefaultVendorID uint16 = 0x1532
	// Razer DeathAdder Elite.
	DefaultProductID uint16 = 0x005C
	// The interface the mouse listens for feature reports on.
	DefaultInterface uint16 = 0x01

	DefaultTimeout = time.Second

	// HID class request, host to device, addressed to an interface.
	requestTypeClassInterfaceOut uint8 = 0x21
	// HID SET_REPORT.
	requestSetReport uint8 = 0x09
	// Feature report, id 0.
	valueFeatureReport uint16 = 0x0300
)

var (
	// ErrDeviceNotFound occurs when no attached device matches the configured
	// vendor and product ids.
	ErrDeviceNotFound = errors.New("no matching USB device found")
	// ErrShortWrite occurs when the control transfer accepts fewer bytes than
	// a full report.
	ErrShortWrite = errors.New("device accepted a partial report")
	// ErrAlreadyConnected occurs when Connect is called on a mouse that is
	// already connected.
	ErrAlreadyConnected = errors.New("device is already connected")
	// ErrNotConnected occurs when a command is written before Connect.
	ErrNotConnected = errors.New("device is not connected")
	// ErrControllerStopped occurs when a command is written after Stop.
	ErrControllerStopped = errors.New("device controller stopped")
)

// ControlDevice is the control transfer primitive the mouse is driven
// through. *gousb.Device satisfies it.
type ControlDevice interface {
	Control(rType, request uint8, val, idx uint16, data []byte) (int, error)
	Close() error
}

// Opener locates and opens the mouse. It returns a nil device, and no error,
// when nothing matches.
type Opener func(vendorID, productID uint16, timeout time.Duration) (ControlDevice, error)

// Options contains general - and *optional* - configuration settings for the
// `Mouse`. Zero values fall back to the Default* constants.
type Options struct {
	VendorID  uint16
	ProductID uint16
	Interface uint16
	Timeout   time.Duration
	Opener    Opener
	Logger    *zap.Logger
}

func (o *Options) applyDefaults() {
	if o.VendorID == 0 {
		o.VendorID = DefaultVendorID
	}
	if o.ProductID == 0 {
		o.ProductID = DefaultProductID
	}
	if o.Interface == 0 {
		o.Interface = DefaultInterface
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Opener == nil {
		o.Opener = OpenUSB
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

type writeRequest struct {
	packet []byte
	result chan error
}

// Mouse represents a Razer mouse with addressable LEDs.
type Mouse struct {
	opts      *Options
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.Mutex
	dev       ControlDevice
	log       *zap.Logger
	commandCh chan writeRequest
	done      chan struct{}
}

// NewMouse creates a new `Mouse`, and - due to internal state - is the only
// way to actually create one.
func NewMouse(parentCtx context.Context, opts Options) *Mouse {
	opts.applyDefaults()
	ctx, cancel := context.WithCancel(parentCtx)
	log := opts.Logger.With(
		zap.String("vid", fmt.Sprintf("%04x", opts.VendorID)),
		zap.String("pid", fmt.Sprintf("%04x", opts.ProductID)),
	)
	return &Mouse{
		opts: &opts, ctx: ctx, cancel: cancel, log: log,
		commandCh: make(chan writeRequest),
		done:      make(chan struct{}),
	}
}

// Connect opens the USB device. After Connect has returned without error the
// mouse is ready to accept commands; calling it again returns
// ErrAlreadyConnected.
func (m *Mouse) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dev != nil {
		return ErrAlreadyConnected
	}

	dev, err := m.opts.Opener(m.opts.VendorID, m.opts.ProductID, m.opts.Timeout)
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	if dev == nil {
		return ErrDeviceNotFound
	}

	m.dev = dev
	m.log.Info("connected to device")
	go m.interact(dev)
	return nil
}

func (m *Mouse) device() ControlDevice {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dev
}

// WriteCommand encodes cmd and dispatches it to the device, waiting for the
// transfer to complete.
func (m *Mouse) WriteCommand(cmd Command) error {
	if m.device() == nil {
		return ErrNotConnected
	}

	pkt, err := Encode(cmd)
	if err != nil {
		return err
	}

	req := writeRequest{packet: pkt, result: make(chan error, 1)}
	select {
	case <-m.ctx.Done():
		return ErrControllerStopped
	case m.commandCh <- req:
	}

	return <-req.result
}

// Stop terminates the device connection and prevents any further operations.
func (m *Mouse) Stop() {
	m.cancel()
}

// Done blocks until the device handle has been released. It returns at once
// if Connect never succeeded.
func (m *Mouse) Done() {
	<-m.ctx.Done()
	if m.device() != nil {
		<-m.done
	}
}

func (m *Mouse) interact(dev ControlDevice) {
	defer close(m.done)
	for {
		select {
		case <-m.ctx.Done():
			if err := dev.Close(); err != nil {
				m.log.Warn("unable to close device", zap.Error(err))
			}
			m.log.Info("device disconnected")
			return
		case req := <-m.commandCh:
			req.result <- m.write(dev, req.packet)
		}
	}
}

func (m *Mouse) write(dev ControlDevice, pkt []byte) error {
	n, err := dev.Control(requestTypeClassInterfaceOut, requestSetReport, valueFeatureReport, m.opts.Interface, pkt)
	if err != nil {
		m.log.Error("control transfer failed", zap.Error(err))
		return fmt.Errorf("control transfer: %w", err)
	}
	if n != len(pkt) {
		m.log.Error("short control transfer", zap.Int("written", n), zap.Int("want", len(pkt)))
		return fmt.Errorf("%d of %d bytes: %w", n, len(pkt), ErrShortWrite)
	}

	m.log.Debug("report written", zap.Binary("packet", pkt))
	return nil
}

// usbDevice keeps the libusb context alive for as long as the device handle.
type usbDevice struct {
	*gousb.Device
	ctx *gousb.Context
}

func (d *usbDevice) Close() error {
	err := d.Device.Close()
	if cerr := d.ctx.Close(); err == nil {
		err = cerr
	}
	return err
}

// OpenUSB is the default Opener, backed by libusb.
func OpenUSB(vendorID, productID uint16, timeout time.Duration) (ControlDevice, error) {
	ctx := gousb.NewContext()

	dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(vendorID), gousb.ID(productID))
	if err != nil {
		ctx.Close()
		return nil, err
	}
	if dev == nil {
		ctx.Close()
		return nil, nil
	}

	if err := dev.SetAutoDetach(true); err != nil {
		dev.Close()
		ctx.Close()
		return nil, err
	}
	dev.ControlTimeout = timeout

	return &usbDevice{Device: dev, ctx: ctx}, nil
}
