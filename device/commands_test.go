package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLED(t *testing.T) {
	led, err := ParseLED("logo")
	require.NoError(t, err)
	assert.Equal(t, Logo, led)

	led, err = ParseLED("Scrollwheel")
	require.NoError(t, err)
	assert.Equal(t, Scrollwheel, led)

	_, err = ParseLED("underglow")
	assert.ErrorIs(t, err, ErrUnknownLED)
}

func TestLEDString(t *testing.T) {
	assert.Equal(t, "logo", Logo.String())
	assert.Equal(t, "scrollwheel", Scrollwheel.String())
	assert.Equal(t, "LED(0x07)", LED(7).String())
}

func TestNewBreath(t *testing.T) {
	t.Run("without colour", func(t *testing.T) {
		b := NewBreath(Logo, nil)
		assert.Equal(t, uint8(6), b.header.argsLen)
		assert.Equal(t, uint8(0x00), b.args.arg1)
		assert.Equal(t, uint8(0x00), b.args.arg3)
		assert.False(t, b.hasColour)
	})

	t.Run("with colour", func(t *testing.T) {
		c := ColourFromValues(1, 2, 3)
		b := NewBreath(Logo, &c)
		assert.Equal(t, uint8(9), b.header.argsLen)
		assert.Equal(t, uint8(0x01), b.args.arg1)
		assert.Equal(t, uint8(0x01), b.args.arg3)

		pkt, err := Encode(b)
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3}, pkt[14:17])
	})

	t.Run("colour copied", func(t *testing.T) {
		c := ColourFromValues(1, 2, 3)
		b := NewBreath(Logo, &c)
		c.Red = 0xFF

		pkt, err := Encode(b)
		require.NoError(t, err)
		assert.Equal(t, byte(1), pkt[14])
	})
}

func TestHeaderArgsLenMatchesBody(t *testing.T) {
	c := ColourFromValues(9, 9, 9)
	for _, cmd := range []Command{NewOff(Logo), NewStatic(Logo, c), NewBreath(Logo, nil), NewBreath(Logo, &c), NewSpectrum(Logo)} {
		w := &packetWriter{}
		cmd.encode(w)
		assert.Equal(t, int(w.buf[5]), len(w.buf)-8, "%T", cmd)
	}
}
