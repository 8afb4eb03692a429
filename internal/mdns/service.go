// Package mdns provides mDNS/Zeroconf advertisement and discovery so browser
// clients can find a catalog server on the local network without
// configuration.
package mdns

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/mdns"
)

const (
	// ServiceType is the mDNS service type for catalog servers.
	ServiceType = "_up4down._tcp"

	// APIVersion is the API version advertised in TXT records.
	APIVersion = "v1"
)

// Service manages mDNS advertisement for the catalog server.
type Service struct {
	server *mdns.Server
	logger *slog.Logger
	mu     sync.Mutex
}

// NewService creates a new mDNS service.
func NewService(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

// Start begins advertising the server. It should be called after the HTTP
// server is running. Errors are typically non-fatal, multicast may simply
// be unavailable in the deployment environment.
func (s *Service) Start(name string, port int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		_ = s.server.Shutdown()
		s.server = nil
	}

	host, err := os.Hostname()
	if err != nil {
		host = "up4down-server"
	}

	txtRecords := []string{
		fmt.Sprintf("name=%s", name),
		fmt.Sprintf("api=%s", APIVersion),
	}

	service, err := mdns.NewMDNSService(
		host,
		ServiceType,
		"", // default .local domain
		"", // system hostname
		port,
		nil, // all interfaces
		txtRecords,
	)
	if err != nil {
		return fmt.Errorf("create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return fmt.Errorf("start mDNS server: %w", err)
	}

	s.server = server
	s.logger.Info("mDNS advertisement started",
		"service", ServiceType,
		"port", port,
		"name", name,
	)
	return nil
}

// Stop stops advertising. Safe to call multiple times or if not started.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		_ = s.server.Shutdown()
		s.server = nil
		s.logger.Info("mDNS advertisement stopped")
	}
}

// Server is a catalog server found on the local network.
type Server struct {
	Name string
	Addr string // base URL, e.g. "http://192.168.1.10:8080"
}

// Discover browses the local network for catalog servers until the timeout
// elapses.
func Discover(timeout time.Duration) ([]Server, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan []Server, 1)

	go func() {
		var found []Server
		for entry := range entries {
			if !strings.Contains(entry.Name, ServiceType) {
				continue
			}
			srv := Server{Name: entry.Name}
			for _, field := range entry.InfoFields {
				if value, ok := strings.CutPrefix(field, "name="); ok {
					srv.Name = value
				}
			}
			if entry.AddrV4 != nil {
				srv.Addr = fmt.Sprintf("http://%s:%d", entry.AddrV4, entry.Port)
			} else if entry.Addr != nil {
				srv.Addr = fmt.Sprintf("http://%s:%d", entry.Addr, entry.Port)
			}
			if srv.Addr != "" {
				found = append(found, srv)
			}
		}
		done <- found
	}()

	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true

	err := mdns.Query(params)
	close(entries)
	found := <-done
	if err != nil {
		return nil, fmt.Errorf("mDNS query: %w", err)
	}
	return found, nil
}
