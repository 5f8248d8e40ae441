package platform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00:00"},
		{-time.Second, "0:00:00"},
		{59 * time.Second, "0:00:59"},
		{3*time.Hour + 4*time.Minute + 5*time.Second, "3:04:05"},
		{24*time.Hour + 61*time.Second, "1 day, 0:01:01"},
		{50*time.Hour + 1500*time.Millisecond, "2 days, 2:00:01"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatUptime(tt.in), tt.in.String())
	}
}

func TestIPv4Addr(t *testing.T) {
	addr, ok := ipv4Addr("192.168.1.20/24")
	require.True(t, ok)
	assert.Equal(t, InterfaceAddr{Address: "192.168.1.20", Netmask: "255.255.255.0", Broadcast: "192.168.1.255"}, addr)

	addr, ok = ipv4Addr("10.1.2.3/8")
	require.True(t, ok)
	assert.Equal(t, "255.0.0.0", addr.Netmask)
	assert.Equal(t, "10.255.255.255", addr.Broadcast)

	addr, ok = ipv4Addr("127.0.0.1")
	require.True(t, ok)
	assert.Equal(t, "255.255.255.255", addr.Netmask)

	_, ok = ipv4Addr("fe80::1/64")
	assert.False(t, ok)

	_, ok = ipv4Addr("garbage")
	assert.False(t, ok)
}

func TestParsePowercfgScheme(t *testing.T) {
	out := "Power Scheme GUID: 381b4222-f694-41f0-9685-ff5bb260df2e  (Balanced)\r\n"
	assert.Equal(t, "Balanced", parsePowercfgScheme(out))
	assert.Equal(t, "High performance", parsePowercfgScheme("GUID: x (High performance)"))
	assert.Equal(t, "", parsePowercfgScheme("no scheme here"))
}

func TestParseBrightnessctl(t *testing.T) {
	level, err := parseBrightnessctl("intel_backlight,backlight,400,40%,1000\n")
	require.NoError(t, err)
	assert.Equal(t, 40, level)

	_, err = parseBrightnessctl("nonsense")
	assert.Error(t, err)
}

func TestClampLevel(t *testing.T) {
	assert.Equal(t, 0, ClampLevel(-20))
	assert.Equal(t, 0, ClampLevel(0))
	assert.Equal(t, 55, ClampLevel(55))
	assert.Equal(t, 100, ClampLevel(100))
	assert.Equal(t, 100, ClampLevel(250))
}

func TestSendKeysEscape(t *testing.T) {
	assert.Equal(t, "hello", sendKeysEscape("hello"))
	assert.Equal(t, "{+}1 {(}a{)} 50{%}", sendKeysEscape("+1 (a) 50%"))
	assert.Equal(t, "'it''s'", psQuote("it's"))
}

func TestParsePowerPlan(t *testing.T) {
	for _, name := range []string{"balanced", "BALANCED", " High ", "power_saver"} {
		_, ok := ParsePowerPlan(name)
		assert.True(t, ok, name)
	}

	plan, ok := ParsePowerPlan("High")
	require.True(t, ok)
	assert.Equal(t, PlanHigh, plan)

	for _, name := range []string{"", "turbo", "power-saver", "highperformance"} {
		_, ok := ParsePowerPlan(name)
		assert.False(t, ok, name)
	}
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "systemctl", Command{Name: "systemctl"}.String())
	assert.Equal(t, "powercfg /setactive abc", Command{Name: "powercfg", Args: []string{"/setactive", "abc"}}.String())
}

func TestCapabilitiesAvailable(t *testing.T) {
	avail := Capabilities{Display: &fakeDisplay{}}.Available()
	assert.True(t, avail["display"])
	assert.False(t, avail["brightness"])
	assert.Len(t, avail, 5)
}
