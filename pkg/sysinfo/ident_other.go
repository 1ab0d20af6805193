//go:build !linux && !darwin

package sysinfo

import (
	"os"

	"github.com/shirou/gopsutil/v4/host"
)

// siHostname falls back to gopsutil where uname(2) is unavailable.
func siHostname() (string, error) {
	info, err := host.Info()
	if err != nil {
		return "", err
	}
	return info.Hostname, nil
}

// siEffectiveUID returns -1 on platforms without uids.
func siEffectiveUID() int {
	return os.Geteuid()
}
