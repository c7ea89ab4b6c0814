package handlers

import (
	"log/slog"
	"net/http"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/ethanhanderson/church-presenter-sub001/internal/live"
	"github.com/ethanhanderson/church-presenter-sub001/internal/livesync"
	"github.com/ethanhanderson/church-presenter-sub001/internal/models"
)

// StatusHandler reports session health for the operator surface.
type StatusHandler struct {
	controller *live.Controller
	hub        *livesync.Hub
	publicURL  string
	logger     *slog.Logger
}

// NewStatusHandler creates a status handler. publicURL is the websocket
// address output processes attach to.
func NewStatusHandler(controller *live.Controller, hub *livesync.Hub, publicURL string, logger *slog.Logger) *StatusHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusHandler{controller: controller, hub: hub, publicURL: publicURL, logger: logger}
}

// StatusResponse is the operator health snapshot: live state, attached
// outputs and host headroom during a performance.
type StatusResponse struct {
	State           models.LiveState `json:"state"`
	AttachedOutputs int              `json:"attachedOutputs"`
	ConnectURL      string           `json:"connectUrl"`
	CPUPercent      float64          `json:"cpuPercent"`
	MemoryUsed      uint64           `json:"memoryUsedBytes"`
	MemoryTotal     uint64           `json:"memoryTotalBytes"`
}

// GetStatus reports live state plus host diagnostics.
// GET /api/status
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		State:           h.controller.State(),
		AttachedOutputs: h.hub.Attached(),
		ConnectURL:      h.publicURL,
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		resp.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		resp.MemoryUsed = vm.Used
		resp.MemoryTotal = vm.Total
	}

	writeJSON(w, resp)
}

// GetConnectQR renders the attach URL as a QR code PNG so a stage display or
// remote can be pointed at this control process without typing.
// GET /api/connect/qr
func (h *StatusHandler) GetConnectQR(w http.ResponseWriter, r *http.Request) {
	png, err := qrcode.Encode(h.publicURL, qrcode.Medium, 256)
	if err != nil {
		h.logger.Error("qr encode failed", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
