package hyprland

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
)

var ErrNotRunning = errors.New("hyprland might not be running")

type socketType int

const (
	hyprctlSocket socketType = iota
	eventSocket
)

func getSocketPath(sock socketType) (string, error) {
	signature := os.Getenv("HYPRLAND_INSTANCE_SIGNATURE")
	if signature == "" {
		return "", fmt.Errorf("HYPRLAND_INSTANCE_SIGNATURE is not set, %w", ErrNotRunning)
	}

	switch sock {
	case hyprctlSocket:
		return fmt.Sprintf("/tmp/hypr/%s/.socket.sock", signature), nil
	case eventSocket:
		return fmt.Sprintf("/tmp/hypr/%s/.socket2.sock", signature), nil
	}

	return "", fmt.Errorf("unknown socket type: %d", sock)
}

func connect(sock socketType) (net.Conn, error) {
	socketPath, err := getSocketPath(sock)
	if err != nil {
		return nil, fmt.Errorf("get socket path: %w", err)
	}

	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}

	return conn, nil
}

// EventClient follows the compositor's event socket line by line.
type EventClient struct {
	conn   net.Conn
	reader *bufio.Reader
}

func ConnectEvents() (*EventClient, error) {
	conn, err := connect(eventSocket)
	if err != nil {
		return nil, fmt.Errorf("connect event socket: %w", err)
	}

	return &EventClient{conn: conn, reader: bufio.NewReader(conn)}, nil
}

func (c *EventClient) Close() error {
	return c.conn.Close()
}

func (c *EventClient) ReadLine() (string, error) {
	str, err := c.reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read from hypr socket: %w", err)
	}
	return strings.TrimSuffix(str, "\n"), nil
}
