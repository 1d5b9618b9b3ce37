package ssdp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"hue-bridge-client/internal/domain/model"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const MulticastAddr = "239.255.255.250:1900"

type Searcher struct {
	addr    string
	timeout time.Duration
}

// NewSearcher sends M-SEARCH requests to addr (MulticastAddr when empty) and
// collects replies for the given time.
func NewSearcher(addr string, timeout time.Duration) *Searcher {
	if addr == "" {
		addr = MulticastAddr
	}
	if timeout == 0 {
		timeout = 3 * time.Second
	}
	return &Searcher{addr: addr, timeout: timeout}
}

func (s *Searcher) Search(ctx context.Context) ([]model.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dest, err := net.ResolveUDPAddr("udp4", s.addr)
	if err != nil {
		return nil, err
	}

	conn, err := net.ListenUDP("udp4", nil)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	req := fmt.Sprintf("M-SEARCH * HTTP/1.1\r\n"+
		"HOST: %s\r\n"+
		"MAN: \"ssdp:discover\"\r\n"+
		"MX: %d\r\n"+
		"ST: urn:schemas-upnp-org:device:basic:1\r\n\r\n", MulticastAddr, max(1, int(s.timeout/time.Second)))
	if _, err := conn.WriteToUDP([]byte(req), dest); err != nil {
		return nil, err
	}

	conn.SetReadDeadline(time.Now().Add(s.timeout))
	stop := context.AfterFunc(ctx, func() { conn.SetReadDeadline(time.Now()) })
	defer stop()

	var candidates []model.Candidate
	seen := make(map[string]bool)
	buf := make([]byte, 2048)
	for {
		n, src, err := conn.ReadFromUDP(buf)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				break
			}
			return candidates, err
		}

		c, ok := parseResponse(buf[:n], src)
		if !ok || seen[c.InternalAddress] {
			continue
		}
		seen[c.InternalAddress] = true
		candidates = append(candidates, c)
	}

	if err := ctx.Err(); err != nil {
		return candidates, err
	}
	return candidates, nil
}

// parseResponse accepts replies from Hue bridges only: they carry a
// hue-bridgeid header or an IpBridge server token.
func parseResponse(msg []byte, src *net.UDPAddr) (model.Candidate, bool) {
	resp, err := http.ReadResponse(bufio.NewReader(strings.NewReader(string(msg))), nil)
	if err != nil {
		return model.Candidate{}, false
	}
	resp.Body.Close()

	id := resp.Header.Get("hue-bridgeid")
	if id == "" && !strings.Contains(resp.Header.Get("Server"), "IpBridge") {
		return model.Candidate{}, false
	}

	address := ""
	if src != nil {
		address = src.IP.String()
	}
	if loc, err := url.Parse(resp.Header.Get("Location")); err == nil && loc.Hostname() != "" {
		address = loc.Hostname()
		if port := loc.Port(); port != "" && port != "80" {
			address = net.JoinHostPort(address, port)
		}
	}
	if address == "" {
		return model.Candidate{}, false
	}
	return model.Candidate{ID: id, InternalAddress: address}, true
}
