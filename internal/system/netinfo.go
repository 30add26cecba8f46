package system

import (
	"context"
	"net"
	"strconv"
)

// NetInfo reports the address other devices can reach this one at.
type NetInfo interface {
	IP(ctx context.Context) (string, error)
}

type NoopNetInfo struct{}

func (NoopNetInfo) IP(ctx context.Context) (string, error) { return "", nil }

// LANNetInfo picks the first IPv4 address of an interface that is up and not
// a loopback.
type LANNetInfo struct{}

func (LANNetInfo) IP(ctx context.Context) (string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", err
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4().String(), nil
			}
		}
	}
	return "", nil
}

// ShareURL builds the URL of the web UI from an IP and a listen address such
// as ":80". It returns "" when ip is empty.
func ShareURL(ip, listenAddr string) string {
	if ip == "" {
		return ""
	}
	_, port, err := net.SplitHostPort(listenAddr)
	if err != nil || port == "" || port == "80" {
		return "http://" + ip + "/"
	}
	if _, err := strconv.Atoi(port); err != nil {
		return "http://" + ip + "/"
	}
	return "http://" + net.JoinHostPort(ip, port) + "/"
}
