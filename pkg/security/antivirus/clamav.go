package antivirus

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

// chunkSize stays well below clamd's default StreamMaxLength
const chunkSize = 64 * 1024

// ClamAVScanner streams files to a clamd daemon with the INSTREAM command
type ClamAVScanner struct {
	address string        // TCP address (host:port) or Unix socket path
	timeout time.Duration // Connection and scan timeout
}

var _ Scanner = (*ClamAVScanner)(nil)

// NewClamAVScanner creates a ClamAV scanner
// address: TCP "localhost:3310" or Unix socket "/var/run/clamav/clamd.sock"
func NewClamAVScanner(address string, timeout time.Duration) *ClamAVScanner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ClamAVScanner{
		address: address,
		timeout: timeout,
	}
}

func (c *ClamAVScanner) Name() string {
	return "clamav"
}

func (c *ClamAVScanner) dial(ctx context.Context) (net.Conn, error) {
	network := "tcp"
	if strings.HasPrefix(c.address, "/") {
		network = "unix"
	}
	d := net.Dialer{Timeout: c.timeout}
	conn, err := d.DialContext(ctx, network, c.address)
	if err != nil {
		return nil, err
	}
	deadline := time.Now().Add(c.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	_ = conn.SetDeadline(deadline)
	return conn, nil
}

// Ping checks that the daemon answers PONG
func (c *ClamAVScanner) Ping(ctx context.Context) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("zPING\x00")); err != nil {
		return err
	}
	reply, err := readReply(conn)
	if err != nil {
		return err
	}
	if reply != "PONG" {
		return fmt.Errorf("unexpected clamd reply: %q", reply)
	}
	return nil
}

// Scan checks file for malware using ClamAV INSTREAM command
func (c *ClamAVScanner) Scan(ctx context.Context, filename string, data io.Reader) ScanResult {
	result := ScanResult{ScannerName: c.Name()}

	fail := func(err error) ScanResult {
		result.Infected = true
		result.Error = err
		return result
	}

	conn, err := c.dial(ctx)
	if err != nil {
		return fail(fmt.Errorf("failed to connect to clamd: %w", err))
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("zINSTREAM\x00")); err != nil {
		return fail(fmt.Errorf("failed to send command: %w", err))
	}

	// Each chunk is prefixed with its length as a big-endian uint32
	buf := make([]byte, chunkSize)
	size := make([]byte, 4)
	for {
		n, readErr := data.Read(buf)
		if n > 0 {
			binary.BigEndian.PutUint32(size, uint32(n))
			if _, err := conn.Write(size); err != nil {
				return fail(fmt.Errorf("failed to send chunk size: %w", err))
			}
			if _, err := conn.Write(buf[:n]); err != nil {
				return fail(fmt.Errorf("failed to send chunk: %w", err))
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return fail(fmt.Errorf("failed to read %s: %w", filename, readErr))
		}
	}

	// Zero-length chunk ends the stream
	if _, err := conn.Write([]byte{0, 0, 0, 0}); err != nil {
		return fail(fmt.Errorf("failed to send end marker: %w", err))
	}

	reply, err := readReply(conn)
	if err != nil {
		return fail(fmt.Errorf("failed to read response: %w", err))
	}

	infected, threat, err := parseReply(reply)
	result.Infected = infected
	result.ThreatName = threat
	result.Error = err
	return result
}

// readReply reads one null-terminated clamd reply
func readReply(r io.Reader) (string, error) {
	var sb strings.Builder
	b := make([]byte, 1)
	for {
		n, err := r.Read(b)
		if n == 1 {
			if b[0] == 0 {
				break
			}
			sb.WriteByte(b[0])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

// parseReply interprets "stream: OK", "stream: <name> FOUND" and "... ERROR".
// Anything unrecognised counts as infected.
func parseReply(reply string) (infected bool, threat string, err error) {
	body := reply
	if i := strings.Index(reply, ":"); i >= 0 {
		body = strings.TrimSpace(reply[i+1:])
	}

	switch {
	case body == "OK":
		return false, "", nil
	case strings.HasSuffix(body, " FOUND"):
		return true, strings.TrimSuffix(body, " FOUND"), nil
	case strings.HasSuffix(body, " ERROR"):
		return true, "", fmt.Errorf("scan error: %s", reply)
	default:
		return true, "", fmt.Errorf("unexpected clamd reply: %q", reply)
	}
}
