package httpserver

import (
	"net"
	"net/http"
	"strings"

	"codeberg.org/mutker/hostctl/internal/action"
	"codeberg.org/mutker/hostctl/internal/errors"
)

type cidrAllowlist struct {
	nets []*net.IPNet
}

func newCIDRAllowlist(cidrs []string) (*cidrAllowlist, error) {
	a := &cidrAllowlist{}
	for _, c := range cidrs {
		_, n, err := net.ParseCIDR(strings.TrimSpace(c))
		if err != nil {
			return nil, errors.New().WithMessage(ErrInvalidSubnet, "invalid subnet "+c+": "+err.Error())
		}
		a.nets = append(a.nets, n)
	}

	return a, nil
}

func (a *cidrAllowlist) allows(ip net.IP) bool {
	for _, n := range a.nets {
		if n.Contains(ip) {
			return true
		}
	}

	return false
}

func (a *cidrAllowlist) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r.RemoteAddr)
		if ip == nil || !a.allows(ip) {
			writeResult(w, r, action.Fail(action.KindForbidden, "Client not allowed"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the peer address from "host:port" or a bare IP.
func clientIP(remote string) net.IP {
	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		host = remote
	}

	return net.ParseIP(strings.Trim(host, "[]"))
}
