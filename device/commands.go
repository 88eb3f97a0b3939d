package device

import (
	"errors"
	"fmt"
	"strings"
)

// LED identifies one of the two lighting zones on the mouse.
type LED uint8

const (
	// Scrollwheel is the LED under the scroll wheel.
	Scrollwheel LED = 0x01
	// Logo is the LED behind the palm logo.
	Logo LED = 0x04
)

// ErrUnknownLED occurs when a zone name is neither "logo" nor "scrollwheel".
var ErrUnknownLED = errors.New("unknown LED")

// ParseLED maps a zone name, as typed on the command line, to its selector.
func ParseLED(name string) (LED, error) {
	switch strings.ToLower(name) {
	case "scrollwheel":
		return Scrollwheel, nil
	case "logo":
		return Logo, nil
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownLED)
}

func (l LED) String() string {
	switch l {
	case Scrollwheel:
		return "scrollwheel"
	case Logo:
		return "logo"
	}
	return fmt.Sprintf("LED(0x%02x)", uint8(l))
}

const (
	// varStore asks the device to persist the setting across power cycles.
	varStore uint8 = 0x01

	classLighting    uint8 = 0x0F
	cmdSetEffect     uint8 = 0x02
	cmdSetBrightness uint8 = 0x04

	effectOff      uint8 = 0x00
	effectStatic   uint8 = 0x01
	effectBreath   uint8 = 0x02
	effectSpectrum uint8 = 0x03
)

// header is the fixed 8 byte prefix of every report. Only the last three
// fields vary between commands.
type header struct {
	status           uint8
	transactionID    uint8
	remainingPackets uint16
	protocolType     uint8
	argsLen          uint8
	commandClass     uint8
	commandID        uint8
}

func newHeader(argsLen, commandClass, commandID uint8) header {
	return header{
		status:        0x00,
		transactionID: 0x3F,
		argsLen:       argsLen,
		commandClass:  commandClass,
		commandID:     commandID,
	}
}

func (h header) encode(w *packetWriter) {
	w.u8(h.status, h.transactionID)
	w.u16(h.remainingPackets)
	w.u8(h.protocolType, h.argsLen, h.commandClass, h.commandID)
}

// effectArgs are the six body bytes shared by every effect command.
type effectArgs struct {
	store    uint8
	led      LED
	effectID uint8
	arg1     uint8
	arg2     uint8
	arg3     uint8
}

func newEffectArgs(led LED, effectID, arg1, arg2, arg3 uint8) effectArgs {
	return effectArgs{varStore, led, effectID, arg1, arg2, arg3}
}

func (a effectArgs) encode(w *packetWriter) {
	w.u8(a.store, uint8(a.led), a.effectID, a.arg1, a.arg2, a.arg3)
}

// Command is implemented by every lighting command this package can encode.
// The set is closed; use Encode to turn one into a report.
type Command interface {
	encode(w *packetWriter)
}

// Off switches an LED off.
type Off struct {
	header header
	args   effectArgs
}

// NewOff builds the command switching led off.
func NewOff(led LED) Off {
	return Off{
		header: newHeader(6, classLighting, cmdSetEffect),
		args:   newEffectArgs(led, effectOff, 0x00, 0x00, 0x01),
	}
}

func (c Off) encode(w *packetWriter) {
	c.header.encode(w)
	c.args.encode(w)
}

// Static holds an LED at a single colour.
type Static struct {
	header header
	args   effectArgs
	colour Colour
}

// NewStatic builds the command holding led at colour.
func NewStatic(led LED, colour Colour) Static {
	return Static{
		header: newHeader(9, classLighting, cmdSetEffect),
		args:   newEffectArgs(led, effectStatic, 0x00, 0x00, 0x01),
		colour: colour,
	}
}

func (c Static) encode(w *packetWriter) {
	c.header.encode(w)
	c.args.encode(w)
	w.u8(c.colour.raw()...)
}

// Breath fades an LED in and out. Without a colour the device picks random
// ones; with a colour it breathes in that single colour.
type Breath struct {
	header    header
	args      effectArgs
	colour    Colour
	hasColour bool
}

// NewBreath builds a breathing effect. Pass a nil colour for random colours.
func NewBreath(led LED, colour *Colour) Breath {
	if colour == nil {
		return Breath{
			header: newHeader(6, classLighting, cmdSetEffect),
			args:   newEffectArgs(led, effectBreath, 0x00, 0x00, 0x00),
		}
	}

	return Breath{
		header:    newHeader(9, classLighting, cmdSetEffect),
		args:      newEffectArgs(led, effectBreath, 0x01, 0x00, 0x01),
		colour:    *colour,
		hasColour: true,
	}
}

func (c Breath) encode(w *packetWriter) {
	c.header.encode(w)
	c.args.encode(w)
	if c.hasColour {
		w.u8(c.colour.raw()...)
	}
}

// Spectrum cycles an LED through the colour wheel.
type Spectrum struct {
	header header
	args   effectArgs
}

// NewSpectrum builds the colour cycling command for led.
func NewSpectrum(led LED) Spectrum {
	return Spectrum{
		header: newHeader(6, classLighting, cmdSetEffect),
		args:   newEffectArgs(led, effectSpectrum, 0x00, 0x00, 0x00),
	}
}

func (c Spectrum) encode(w *packetWriter) {
	c.header.encode(w)
	c.args.encode(w)
}

// Brightness addresses the brightness command of an LED. It carries no
// effect id or arguments; the level byte the header allows for is left zero.
type Brightness struct {
	header header
	store  uint8
	led    LED
}

// NewBrightness builds the brightness command for led.
func NewBrightness(led LED) Brightness {
	return Brightness{
		header: newHeader(3, classLighting, cmdSetBrightness),
		store:  varStore,
		led:    led,
	}
}

func (c Brightness) encode(w *packetWriter) {
	c.header.encode(w)
	w.u8(c.store, uint8(c.led))
}
