package platform

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// FormatUptime renders a duration as "H:MM:SS", prefixed with "N day(s), "
// once it exceeds a day.
func FormatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	total := int64(d / time.Second)
	days := total / 86400
	rest := total % 86400
	clock := fmt.Sprintf("%d:%02d:%02d", rest/3600, (rest%3600)/60, rest%60)

	switch {
	case days == 1:
		return "1 day, " + clock
	case days > 1:
		return fmt.Sprintf("%d days, %s", days, clock)
	default:
		return clock
	}
}

// ipv4Addr converts a CIDR such as "192.168.1.20/24" into address, netmask
// and broadcast. It reports false for IPv6 and unparsable input.
func ipv4Addr(cidr string) (InterfaceAddr, bool) {
	ip, ipnet, err := net.ParseCIDR(cidr)
	if err != nil {
		ip = net.ParseIP(cidr)
		if ip == nil {
			return InterfaceAddr{}, false
		}
		ipnet = &net.IPNet{IP: ip, Mask: net.CIDRMask(32, 32)}
	}

	ip4 := ip.To4()
	if ip4 == nil {
		return InterfaceAddr{}, false
	}

	mask := ipnet.Mask
	if len(mask) == net.IPv6len {
		mask = mask[12:]
	}

	bcast := make(net.IP, net.IPv4len)
	for i := range ip4 {
		bcast[i] = ip4[i] | ^mask[i]
	}

	return InterfaceAddr{
		Address:   ip4.String(),
		Netmask:   net.IP(mask).String(),
		Broadcast: bcast.String(),
	}, true
}

// parsePowercfgScheme extracts the scheme name from `powercfg /getactivescheme`
// output: "Power Scheme GUID: 381b4222-...  (Balanced)".
func parsePowercfgScheme(out string) string {
	open := strings.LastIndexByte(out, '(')
	end := strings.LastIndexByte(out, ')')
	if open < 0 || end <= open {
		return ""
	}

	return strings.TrimSpace(out[open+1 : end])
}

// parseBrightnessctl reads the percentage from `brightnessctl -m` output:
// "intel_backlight,backlight,400,40%,1000".
func parseBrightnessctl(out string) (int, error) {
	fields := strings.Split(firstLine(strings.TrimSpace(out)), ",")
	if len(fields) < 4 {
		return 0, fmt.Errorf("unexpected brightnessctl output %q", out)
	}

	return strconv.Atoi(strings.TrimSuffix(fields[3], "%"))
}

// ClampLevel forces a brightness level into [0,100].
func ClampLevel(level int) int {
	switch {
	case level < 0:
		return 0
	case level > 100:
		return 100
	default:
		return level
	}
}

func roundTo(v float64, places int) float64 {
	p, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	return p
}

// sendKeysEscape wraps characters that SendKeys treats as modifiers or
// grouping in braces so text is typed literally.
func sendKeysEscape(text string) string {
	var b strings.Builder
	for _, r := range text {
		switch r {
		case '+', '^', '%', '~', '(', ')', '{', '}', '[', ']':
			b.WriteByte('{')
			b.WriteRune(r)
			b.WriteByte('}')
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}

// psQuote renders s as a single-quoted PowerShell string literal.
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
