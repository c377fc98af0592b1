package handlers

import (
	"net/http"

	"github.com/ravetok/nexus/internal/httpserver/deps"
	"github.com/ravetok/nexus/internal/logger"
)

// Reload triggers a manual reload of the catalog and directory files
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Trigger immediate reload for the catalog
		catalogTriggered := false
		select {
		case d.CatalogReloadTrigger <- struct{}{}:
			catalogTriggered = true
			d.Logger.Info("manual catalog reload triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
		default:
			d.Logger.Warn("catalog reload already in progress",
				logger.String("remote_ip", r.RemoteAddr))
		}

		// Trigger immediate reload for the directory (if enabled)
		directoryTriggered := false
		if d.DirectoryReloadTrigger != nil {
			select {
			case d.DirectoryReloadTrigger <- struct{}{}:
				directoryTriggered = true
				d.Logger.Info("manual directory reload triggered via endpoint",
					logger.String("remote_ip", r.RemoteAddr))
			default:
				d.Logger.Warn("directory reload already in progress",
					logger.String("remote_ip", r.RemoteAddr))
			}
		}

		// Determine response based on what was triggered
		if catalogTriggered || directoryTriggered {
			w.WriteHeader(http.StatusAccepted)
			if _, err := w.Write([]byte("✅ Reload triggered successfully\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
		} else {
			w.WriteHeader(http.StatusTooManyRequests)
			if _, err := w.Write([]byte("⏳ Reload already in progress, please wait\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
		}
	}
}
