package port

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

// ErrPortUnavailable is returned when no usable port could be found.
var ErrPortUnavailable = errors.New("port unavailable")

// Scanner checks whether TCP ports are free on one host address.
//
// It uses the operating system's network stack (net.Listen) to determine
// if a port is free, rather than parsing /proc/net/* or relying on
// external commands like `lsof` or `ss`.
type Scanner struct {
	host string
}

// NewScanner creates a Scanner for host. An empty host checks all
// interfaces.
func NewScanner(host string) *Scanner {
	return &Scanner{host: host}
}

// IsPortAvailable reports whether port can be bound on the scanner's host.
// The probe listener is closed immediately.
//
// There is an inherent race between this check and the server binding the
// port. The window is small and the server reports its own bind error.
func (s *Scanner) IsPortAvailable(port int) bool {
	listener, err := net.Listen("tcp", net.JoinHostPort(s.host, strconv.Itoa(port)))
	if err != nil {
		return false
	}
	_ = listener.Close()
	return true
}

// FindAvailablePort scans [startPort, endPort] and returns the first free
// port.
func (s *Scanner) FindAvailablePort(startPort, endPort int) (int, error) {
	for port := startPort; port <= endPort && port <= 65535; port++ {
		if s.IsPortAvailable(port) {
			return port, nil
		}
	}
	return 0, fmt.Errorf("%w: no free port in range %d-%d", ErrPortUnavailable, startPort, endPort)
}

// Resolve returns the port the server should bind.
//
// Port 0 is passed through for the OS to choose. A free port is returned
// as is. A taken port fails unless autoPort is set, in which case the next
// rangeSize ports are tried.
func (s *Scanner) Resolve(port int, autoPort bool, rangeSize int) (int, error) {
	if port == 0 || s.IsPortAvailable(port) {
		return port, nil
	}
	if !autoPort {
		return 0, fmt.Errorf("%w: %s is in use", ErrPortUnavailable, net.JoinHostPort(s.host, strconv.Itoa(port)))
	}
	return s.FindAvailablePort(port+1, port+rangeSize)
}
