//go:build windows

package transport

import (
	"net"
	"time"

	winio "github.com/Microsoft/go-winio"
)

// Listen opens the Windows IPC transport: a named pipe, default name
// `\\.\pipe\granville`.
func Listen(path string) (net.Listener, error) {
	return winio.ListenPipe(path, &winio.PipeConfig{
		MessageMode:      false,
		InputBufferSize:  int32(RequestWindow),
		OutputBufferSize: int32(ResultWindow),
	})
}

// Dial opens an outbound connection to the given named-pipe endpoint for
// callback delivery.
func Dial(endpoint string) (net.Conn, error) {
	return winio.DialPipe(endpoint, durationPtr(5*time.Second))
}

func durationPtr(d time.Duration) *time.Duration { return &d }
