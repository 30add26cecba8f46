package web

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/hashicorp/mdns"
)

// ServiceType is the DNS-SD service the device advertises on the LAN.
const ServiceType = "_fractaldraw._tcp"

// Advertise announces the web UI on port via multicast DNS until ctx is done.
func Advertise(ctx context.Context, port int, logger sysLogger) error {
	host, err := os.Hostname()
	if err != nil {
		return fmt.Errorf("could not get hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(host, ServiceType, "", "", port, nil, []string{"fractaldraw", "path=/"})
	if err != nil {
		return fmt.Errorf("failed to create mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return fmt.Errorf("failed to start mDNS server: %w", err)
	}
	if logger != nil {
		logger.Infof("mdns", "advertising %s as %q on port %d", ServiceType, host, port)
	}

	go func() {
		<-ctx.Done()
		if err := server.Shutdown(); err != nil && logger != nil {
			logger.Errorf("mdns", "shutdown: %v", err)
		}
	}()
	return nil
}

// Browse reports every advertised drawing host as host:port until the
// lookup times out.
func Browse(found func(addr string)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			found(net.JoinHostPort(e.AddrV4.String(), strconv.Itoa(e.Port)))
		}
	}()
	err := mdns.Lookup(ServiceType, entries)
	close(entries)
	<-done
	return err
}

// PortOf returns the numeric port of a listen address such as ":8080" or
// "0.0.0.0:80".
func PortOf(addr string) (int, error) {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, fmt.Errorf("listen address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return 0, fmt.Errorf("listen address %q has no usable port", addr)
	}
	return port, nil
}
