package antivirus

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClamd accepts one INSTREAM session and answers with reply.
// It returns the bytes received so tests can check the framing.
func fakeClamd(t *testing.T, reply string) (string, <-chan []byte) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	got := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		if _, err := r.ReadString(0); err != nil {
			return
		}
		var payload bytes.Buffer
		size := make([]byte, 4)
		for {
			if _, err := io.ReadFull(r, size); err != nil {
				return
			}
			n := binary.BigEndian.Uint32(size)
			if n == 0 {
				break
			}
			if _, err := io.CopyN(&payload, r, int64(n)); err != nil {
				return
			}
		}
		got <- payload.Bytes()
		_, _ = conn.Write([]byte(reply + "\x00"))
	}()
	return ln.Addr().String(), got
}

func TestClamAVScanClean(t *testing.T) {
	addr, got := fakeClamd(t, "stream: OK")
	s := NewClamAVScanner(addr, 2*time.Second)

	data := strings.Repeat("a", chunkSize+10)
	res := s.Scan(context.Background(), "resume.pdf", strings.NewReader(data))

	assert.False(t, res.Infected)
	assert.NoError(t, res.Error)
	assert.Equal(t, "clamav", res.ScannerName)
	assert.Equal(t, data, string(<-got))
}

func TestClamAVScanInfected(t *testing.T) {
	addr, _ := fakeClamd(t, "stream: Eicar-Test-Signature FOUND")
	s := NewClamAVScanner(addr, 2*time.Second)

	res := s.Scan(context.Background(), "eicar.pdf", strings.NewReader("X5O!P%@AP"))

	assert.True(t, res.Infected)
	assert.Equal(t, "Eicar-Test-Signature", res.ThreatName)
	assert.NoError(t, res.Error)
}

func TestClamAVScanFailsClosed(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	res := NewClamAVScanner(addr, time.Second).Scan(context.Background(), "a.pdf", strings.NewReader("x"))
	assert.True(t, res.Infected)
	assert.Error(t, res.Error)
}

func TestParseReply(t *testing.T) {
	infected, _, err := parseReply("stream: OK")
	assert.False(t, infected)
	assert.NoError(t, err)

	infected, _, err = parseReply("stream: INSTREAM size limit exceeded. ERROR")
	assert.True(t, infected)
	assert.Error(t, err)

	infected, _, err = parseReply("garbage")
	assert.True(t, infected)
	assert.Error(t, err)
}

func TestNewSelectsScanner(t *testing.T) {
	assert.Equal(t, "noop", New("", 0).Name())
	assert.Equal(t, "clamav", New("localhost:3310", 0).Name())

	res := New("", 0).Scan(context.Background(), "x", strings.NewReader(""))
	assert.False(t, res.Infected)
}
