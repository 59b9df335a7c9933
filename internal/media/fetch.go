package media

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"syscall"
	"time"
)

const (
	defaultFetchTimeout = 15 * time.Second
	maxFetchRedirects   = 3
)

var errBlockedAddress = errors.New("address not allowed")

// carrier-grade NAT, also used for some cloud metadata services
var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

// NewFetchClient returns the client used to download cover images by URL.
// It only connects to public unicast addresses, whatever the URL or a
// redirect resolves to, and follows at most maxFetchRedirects redirects.
func NewFetchClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}

	dialer := &net.Dialer{Timeout: timeout, Control: dialControl}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	// a proxy would dial on our behalf and skip the address check
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext

	return &http.Client{
		Timeout:       timeout,
		Transport:     transport,
		CheckRedirect: checkRedirect,
	}
}

// dialControl runs after name resolution, so address is always ip:port.
func dialControl(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return err
	}
	if blockedAddr(addr) {
		return fmt.Errorf("%w: %s", errBlockedAddress, addr)
	}
	return nil
}

func blockedAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	return !addr.IsGlobalUnicast() ||
		addr.IsPrivate() ||
		sharedAddressSpace.Contains(addr)
}

func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxFetchRedirects {
		return fmt.Errorf("stopped after %d redirects", maxFetchRedirects)
	}
	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return fmt.Errorf("redirect to unsupported scheme %q", req.URL.Scheme)
	}
	return nil
}
