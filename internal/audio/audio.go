// SPDX-License-Identifier: Apache-2.0

// Package audio switches the default PipeWire output between configured
// device profiles, connecting Bluetooth devices first when needed.
package audio

import (
	"fmt"
	"strings"
	"time"

	"github.com/devxalted/dotkit/internal/config"
	"github.com/devxalted/dotkit/internal/logger"
	"github.com/devxalted/dotkit/internal/runner"
)

const (
	// sinkWaitAttempts bounds how long we wait for a Bluetooth sink to
	// appear after bluetoothctl reports a successful connection.
	sinkWaitAttempts = 10
	sinkWaitInterval = 500 * time.Millisecond
)

// Switch connects (if Bluetooth) and activates the sink for the profile.
// It returns the sink that became the default.
func Switch(profile config.AudioProfile) (Sink, error) {
	if profile.Bluetooth {
		if profile.MAC == "" {
			return Sink{}, fmt.Errorf("profile '%s' is marked bluetooth but has no MAC configured", profile.Name)
		}
		if err := connectBluetooth(profile.MAC); err != nil {
			return Sink{}, err
		}
	}

	sink, err := waitForSink(profile.SinkMatch)
	if err != nil {
		return Sink{}, err
	}

	if err := SetDefaultSink(sink.ID); err != nil {
		return Sink{}, err
	}

	logger.Info("switched audio output", "profile", profile.Name, "sink", sink.Name, "id", sink.ID)
	return sink, nil
}

// connectBluetooth asks bluetoothctl to connect the device. An already
// connected device is not an error.
func connectBluetooth(mac string) error {
	if err := runner.LookPath("bluetoothctl"); err != nil {
		return err
	}

	res, err := runner.Capture("bluetoothctl", "connect", mac)
	if err != nil {
		// bluetoothctl reports "already connected" devices on stderr with a
		// non-zero exit on some versions; treat that as success.
		combined := res.Stdout + res.Stderr
		if strings.Contains(combined, "already connected") {
			return nil
		}
		return fmt.Errorf("failed to connect bluetooth device %s: %w", mac, err)
	}
	return nil
}

// waitForSink polls wpctl until a sink matching the pattern shows up.
// Bluetooth sinks take a moment to register after the connection succeeds.
func waitForSink(match string) (Sink, error) {
	for attempt := 0; attempt < sinkWaitAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(sinkWaitInterval)
		}

		sinks, err := ListSinks()
		if err != nil {
			return Sink{}, err
		}
		if sink, ok := FindSink(sinks, match); ok {
			return sink, nil
		}
	}

	return Sink{}, fmt.Errorf("no sink matching %q appeared", match)
}
