package providers

import (
	"strconv"

	"github.com/samber/do/v2"

	"github.com/up4down/up4down-server/internal/config"
	"github.com/up4down/up4down-server/internal/logger"
	"github.com/up4down/up4down-server/internal/mdns"
)

// MDNSHandle wraps the mDNS advertiser with shutdown capability.
type MDNSHandle struct {
	Service *mdns.Service
}

// Shutdown implements do.Shutdownable.
func (h *MDNSHandle) Shutdown() error {
	if h.Service != nil {
		h.Service.Stop()
	}
	return nil
}

// ProvideMDNS starts local network advertisement when enabled. Advertisement
// failures are logged and swallowed; multicast is often unavailable in
// containers.
func ProvideMDNS(i do.Injector) (*MDNSHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Server.MDNSEnabled {
		return &MDNSHandle{}, nil
	}

	port, err := strconv.Atoi(cfg.Server.Port)
	if err != nil {
		log.Warn("Invalid port for mDNS advertisement", "port", cfg.Server.Port)
		return &MDNSHandle{}, nil
	}

	service := mdns.NewService(log.Logger)
	if err := service.Start(cfg.Server.Name, port); err != nil {
		log.Warn("mDNS advertisement unavailable", "error", err)
		return &MDNSHandle{}, nil
	}

	return &MDNSHandle{Service: service}, nil
}
