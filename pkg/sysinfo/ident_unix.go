//go:build linux || darwin

package sysinfo

import "golang.org/x/sys/unix"

// siHostname returns the node name reported by uname(2).
func siHostname() (string, error) {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return "", err
	}
	return unix.ByteSliceToString(u.Nodename[:]), nil
}

func siEffectiveUID() int {
	return unix.Geteuid()
}
