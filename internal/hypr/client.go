// SPDX-License-Identifier: Apache-2.0

// Package hypr is a minimal client for the Hyprland request socket.
// Requests are written as "<args>/<command>" to .socket.sock and the
// response is read until EOF; JSON responses use the "j" argument.
package hypr

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
)

// ErrNotRunning indicates the compositor socket could not be located.
var ErrNotRunning = errors.New("hyprland might not be running")

// SocketPath locates the Hyprland request socket for the current instance.
// Newer Hyprland places sockets under $XDG_RUNTIME_DIR/hypr, older under
// /tmp/hypr.
func SocketPath() (string, error) {
	signature := os.Getenv("HYPRLAND_INSTANCE_SIGNATURE")
	if signature == "" {
		return "", fmt.Errorf("HYPRLAND_INSTANCE_SIGNATURE is not set, %w", ErrNotRunning)
	}

	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		path := filepath.Join(runtimeDir, "hypr", signature, ".socket.sock")
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return filepath.Join("/tmp", "hypr", signature, ".socket.sock"), nil
}

// Request sends a raw request and returns the full response.
func Request(request string, args string) ([]byte, error) {
	socketPath, err := SocketPath()
	if err != nil {
		return nil, err
	}

	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("dial hyprland socket: %w", err)
	}
	defer conn.Close()

	_, err = conn.Write([]byte(fmt.Sprintf("%s/%s", args, request)))
	if err != nil {
		return nil, fmt.Errorf("write to hyprland socket: %w", err)
	}

	var buf bytes.Buffer
	_, err = io.Copy(&buf, conn)
	if err != nil {
		return nil, fmt.Errorf("read response from hyprland socket: %w", err)
	}

	return buf.Bytes(), nil
}

// Dispatch runs a Hyprland dispatcher (e.g. "focuswindow class:zenity").
func Dispatch(dispatcher string) error {
	resp, err := Request("dispatch "+dispatcher, "")
	if err != nil {
		return err
	}
	if string(resp) != "ok" {
		return fmt.Errorf("hyprland dispatch: %s", resp)
	}
	return nil
}

// RequestJSON sends a request with the JSON flag and decodes the response
// into v.
func RequestJSON(request string, v any) error {
	resp, err := Request(request, "j")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp, v); err != nil {
		return fmt.Errorf("unmarshal %s response: %w", request, err)
	}
	return nil
}

// ActiveWindow describes the currently focused window.
type ActiveWindow struct {
	Class string `json:"class"`
	Title string `json:"title"`
}

// GetActiveWindow returns the focused window, if any.
func GetActiveWindow() (ActiveWindow, error) {
	var w ActiveWindow
	if err := RequestJSON("activewindow", &w); err != nil {
		return ActiveWindow{}, err
	}
	return w, nil
}
