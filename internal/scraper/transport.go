package scraper

import (
	"context"
	"net"
	"net/http"
	"time"

	utls "github.com/refraction-networking/utls"
)

// NewImpersonatingClient builds the alternate HTTP client used to retry 403
// rejections. Its TLS handshake presents a Chrome ClientHello instead of the
// Go crypto/tls fingerprint, which several anti-bot vendors key on. HTTP/1.1
// is forced because the handshake negotiates ALPN itself.
func NewImpersonatingClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{Timeout: 15 * time.Second}

	transport := &http.Transport{
		DialContext: dialer.DialContext,
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, _, err := net.SplitHostPort(addr)
			if err != nil {
				host = addr
			}

			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}

			cfg := &utls.Config{
				ServerName: host,
				NextProtos: []string{"http/1.1"},
			}
			uconn := utls.UClient(conn, cfg, utls.HelloChrome_120)
			if err := uconn.HandshakeContext(ctx); err != nil {
				conn.Close()
				return nil, err
			}
			return uconn, nil
		},
		ForceAttemptHTTP2:   false,
		MaxIdleConnsPerHost: 2,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}
