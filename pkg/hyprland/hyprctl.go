package hyprland

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
)

var (
	ErrIndexOutOfRange = errors.New("layout index out of range")
	ErrDeviceNotFound  = errors.New("device not found")
)

// Hyprctl issues requests on the compositor's command socket.
type Hyprctl struct{}

func NewHyprctl() *Hyprctl {
	return &Hyprctl{}
}

type keyboard struct {
	Name         string `json:"name"`
	Layout       string `json:"layout"`
	Variant      string `json:"variant"`
	Options      string `json:"options"`
	ActiveKeymap string `json:"active_keymap"`
	Main         bool   `json:"main"`
}

type devices struct {
	Keyboards []keyboard `json:"keyboards"`
}

// Keyboard is one keyboard device with its configured xkb layouts. Layouts
// and Variants are parallel slices.
type Keyboard struct {
	Name         string
	Layouts      []string
	Variants     []string
	ActiveKeymap string
	Main         bool
}

func (k keyboard) toKeyboard() Keyboard {
	layouts := strings.Split(k.Layout, ",")

	// hyprland reports variants as a comma list too, but it may be shorter
	// than the layout list when trailing variants are empty
	variants := strings.Split(k.Variant, ",")
	for len(variants) < len(layouts) {
		variants = append(variants, "")
	}

	return Keyboard{
		Name:         k.Name,
		Layouts:      layouts,
		Variants:     variants,
		ActiveKeymap: k.ActiveKeymap,
		Main:         k.Main,
	}
}

func (c *Hyprctl) Keyboards() ([]Keyboard, error) {
	conn, err := c.makeRequest("devices", "j")
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var devs devices
	if err := json.NewDecoder(conn).Decode(&devs); err != nil {
		return nil, fmt.Errorf("unmarshal devices: %w", err)
	}

	out := make([]Keyboard, 0, len(devs.Keyboards))
	for _, k := range devs.Keyboards {
		out = append(out, k.toKeyboard())
	}

	return out, nil
}

func (c *Hyprctl) SwitchLayout(keyboard string, idx int) error {
	conn, err := c.makeRequest(fmt.Sprintf("switchxkblayout %s %d", keyboard, idx), "")
	if err != nil {
		return err
	}
	defer conn.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, conn); err != nil {
		return fmt.Errorf("read response from hyprctl socket: %w", err)
	}

	return mapSwitchError(buf.String())
}

func mapSwitchError(response string) error {
	response = strings.TrimSpace(response)

	switch {
	case response == "ok":
		return nil
	case strings.Contains(response, "layout idx out of range"):
		return ErrIndexOutOfRange
	case strings.Contains(response, "device not found"):
		return ErrDeviceNotFound
	}

	return fmt.Errorf("hyprctl: %s", response)
}

func (c *Hyprctl) makeRequest(request string, args string) (net.Conn, error) {
	conn, err := connect(hyprctlSocket)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Write([]byte(fmt.Sprintf("%s/%s", args, request))); err != nil {
		conn.Close()
		return nil, fmt.Errorf("write to hyprctl socket: %w", err)
	}

	return conn, nil
}
