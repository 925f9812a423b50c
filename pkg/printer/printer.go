package printer

import (
	"fmt"
	"net"
	"time"
)

// Printer sends an already-rendered receipt to a physical device. Byte
// encoding (ESC/POS and friends) lives behind this interface and is not
// part of the core.
type Printer interface {
	Print(data []byte) error
	IsConnected() bool
}

// NetworkPrinter dials a raw TCP printer port per job, typically :9100.
type NetworkPrinter struct {
	address string
	timeout time.Duration
}

// NewNetworkPrinter creates a printer that connects via TCP. Address must
// include the port, e.g. "192.168.1.100:9100".
func NewNetworkPrinter(address string) *NetworkPrinter {
	return &NetworkPrinter{
		address: address,
		timeout: 5 * time.Second,
	}
}

// Print dials the printer and writes the job
func (p *NetworkPrinter) Print(data []byte) error {
	conn, err := net.DialTimeout("tcp", p.address, p.timeout)
	if err != nil {
		return fmt.Errorf("printer: failed to connect to %s: %w", p.address, err)
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))

	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer: failed to write to %s: %w", p.address, err)
	}
	return nil
}

// IsConnected probes the printer port
func (p *NetworkPrinter) IsConnected() bool {
	conn, err := net.DialTimeout("tcp", p.address, 2*time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// NullPrinter is a Printer that discards output. Used when no device is
// configured and in tests.
type NullPrinter struct{}

// NewNullPrinter creates a printer that does nothing
func NewNullPrinter() *NullPrinter {
	return &NullPrinter{}
}

// Print discards the data
func (p *NullPrinter) Print(data []byte) error { return nil }

// IsConnected always reports false
func (p *NullPrinter) IsConnected() bool { return false }

// FromConfig creates the Printer for the configured address. An empty
// address selects the null printer.
func FromConfig(address string) Printer {
	if address == "" {
		return NewNullPrinter()
	}
	return NewNetworkPrinter(address)
}
