package main

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.fergus.london/razerled/device"
)

func TestBuildCommand(t *testing.T) {
	red, err := device.ParseColour("#FF0000")
	require.NoError(t, err)

	tests := []struct {
		name string
		args []string
		want device.Command
	}{
		{"off", []string{"logo", "off"}, device.NewOff(device.Logo)},
		{"spectrum", []string{"scrollwheel", "spectrum"}, device.NewSpectrum(device.Scrollwheel)},
		{"brightness", []string{"logo", "brightness"}, device.NewBrightness(device.Logo)},
		{"static", []string{"logo", "static", "#FF0000"}, device.NewStatic(device.Logo, red)},
		{"breath", []string{"logo", "breath"}, device.NewBreath(device.Logo, nil)},
		{"breath colour", []string{"logo", "breath", "#FF0000"}, device.NewBreath(device.Logo, &red)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildCommand(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"no args", nil, errUsage},
		{"no effect", []string{"logo"}, errUsage},
		{"unknown led", []string{"wheel", "off"}, device.ErrUnknownLED},
		{"unknown effect", []string{"logo", "disco"}, errUnknownEffect},
		{"static without colour", []string{"logo", "static"}, errUsage},
		{"off with colour", []string{"logo", "off", "#FFFFFF"}, errUsage},
		{"breath two colours", []string{"logo", "breath", "#FFFFFF", "#000000"}, errUsage},
		{"bad colour", []string{"logo", "static", "#GG0000"}, device.ErrInvalidHexDigit},
		{"short colour", []string{"logo", "breath", "#FFF"}, device.ErrTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildCommand(tt.args)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRun_DryRun(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--dry-run", "scrollwheel", "off"}, &stdout, &stderr, nil)
	require.Equal(t, 0, code, stderr.String())

	pkt, err := hex.DecodeString(strings.TrimSpace(stdout.String()))
	require.NoError(t, err)
	require.Len(t, pkt, device.PacketLen)
	assert.Equal(t, byte(0x0a), pkt[88])
}

func TestRun_DryRunIgnoresBrokenConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "razerled.yaml"), []byte("device: [unclosed\n"), 0o600))
	chdir(t, dir)
	t.Setenv("RAZERLED_CONFIG", "")

	var stdout, stderr bytes.Buffer
	code := run([]string{"--dry-run", "logo", "spectrum"}, &stdout, &stderr, nil)
	require.Equal(t, 0, code, stderr.String())
	assert.Len(t, strings.TrimSpace(stdout.String()), 2*device.PacketLen)

	stdout.Reset()
	stderr.Reset()
	assert.Equal(t, 1, run([]string{"logo", "spectrum"}, &stdout, &stderr, nil))
}

func TestRun_UsageError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run([]string{"logo", "static"}, &stdout, &stderr, nil))
	assert.Contains(t, stderr.String(), "usage: razerled")
	assert.Empty(t, stdout.String())

	assert.Equal(t, 2, run([]string{"--no-such-flag"}, &stdout, &stderr, nil))
}

type recordingDevice struct {
	idx  uint16
	data []byte
}

func (d *recordingDevice) Control(rType, request uint8, val, idx uint16, data []byte) (int, error) {
	d.idx, d.data = idx, append([]byte(nil), data...)
	return len(data), nil
}

func (d *recordingDevice) Close() error { return nil }

func TestRun_WritesToDevice(t *testing.T) {
	dev := &recordingDevice{}
	var gotPID uint16
	opener := func(vendorID, productID uint16, timeout time.Duration) (device.ControlDevice, error) {
		gotPID = productID
		return dev, nil
	}

	var stdout, stderr bytes.Buffer
	code := run([]string{"--product-id", "0x0067", "--interface", "2", "--log-level", "error", "logo", "static", "#00FF00"}, &stdout, &stderr, opener)
	require.Equal(t, 0, code)

	want, err := device.Encode(device.NewStatic(device.Logo, device.ColourFromValues(0, 0xFF, 0)))
	require.NoError(t, err)
	assert.Equal(t, want, dev.data)
	assert.Equal(t, uint16(2), dev.idx)
	assert.Equal(t, uint16(0x0067), gotPID)
}

func TestRun_DeviceMissing(t *testing.T) {
	opener := func(vendorID, productID uint16, timeout time.Duration) (device.ControlDevice, error) {
		return nil, nil
	}

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run([]string{"--log-level", "error", "logo", "off"}, &stdout, &stderr, opener))
}

// chdir changes the working directory for the duration of the test,
// equivalent to testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
