package ssdp

import (
	"context"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"hue-bridge-client/internal/domain/model"
)

// respondOnce plays a bridge answering one M-SEARCH on a loopback socket.
func respondOnce(t *testing.T, reply string) string {
	t.Helper()
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	go func() {
		buf := make([]byte, 1024)
		n, src, err := conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		if strings.Contains(string(buf[:n]), "M-SEARCH") {
			conn.WriteToUDP([]byte(reply), src)
		}
	}()
	return conn.LocalAddr().String()
}

func TestSearcher_Search(t *testing.T) {
	reply := "HTTP/1.1 200 OK\r\n" +
		"CACHE-CONTROL: max-age=100\r\n" +
		"EXT:\r\n" +
		"LOCATION: http://192.168.1.20:80/description.xml\r\n" +
		"SERVER: Linux/3.14.0 UPnP/1.0 IpBridge/1.67.0\r\n" +
		"hue-bridgeid: 001788FFFE102201\r\n" +
		"ST: urn:schemas-upnp-org:device:basic:1\r\n" +
		"USN: uuid:2f402f80-da50-11e1-9b23-001788102201::urn:schemas-upnp-org:device:basic:1\r\n\r\n"
	addr := respondOnce(t, reply)

	candidates, err := NewSearcher(addr, 300*time.Millisecond).Search(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Candidate{{ID: "001788FFFE102201", InternalAddress: "192.168.1.20"}}, candidates)
}

func TestSearcher_Canceled(t *testing.T) {
	addr := respondOnce(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := NewSearcher(addr, 5*time.Second).Search(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestParseResponse(t *testing.T) {
	src := &net.UDPAddr{IP: net.IPv4(10, 0, 0, 7), Port: 1900}

	_, ok := parseResponse([]byte("HTTP/1.1 200 OK\r\nSERVER: Linux UPnP/1.0 Sonos/70.3\r\nLOCATION: http://10.0.0.9:1400/xml\r\n\r\n"), src)
	assert.False(t, ok)

	_, ok = parseResponse([]byte("garbage"), src)
	assert.False(t, ok)

	c, ok := parseResponse([]byte("HTTP/1.1 200 OK\r\nSERVER: FreeRTOS/6.0.5, UPnP/1.1, IpBridge/1.17.0\r\n\r\n"), src)
	require.True(t, ok)
	assert.Equal(t, model.Candidate{InternalAddress: "10.0.0.7"}, c)

	c, ok = parseResponse([]byte(fmt.Sprintf("HTTP/1.1 200 OK\r\nhue-bridgeid: X\r\nLOCATION: http://%s/description.xml\r\n\r\n", "10.0.0.8:8080")), src)
	require.True(t, ok)
	assert.Equal(t, model.Candidate{ID: "X", InternalAddress: "10.0.0.8:8080"}, c)
}
