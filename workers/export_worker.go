// workers/export_worker.go
package workers

import (
	"context"
	"log"
	"time"

	"safeblues-backend/services"
)

// Exporter produces one telemetry export.
type Exporter interface {
	Export(ctx context.Context) (*services.ExportResult, error)
}

// RunExports uploads a telemetry snapshot every interval until ctx is done.
// A failed export is logged and retried on the next tick.
func RunExports(ctx context.Context, exporter Exporter, interval time.Duration) {
	log.Printf("Starting export worker (every %s)...", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Export worker stopped.")
			return
		case <-ticker.C:
			res, err := exporter.Export(ctx)
			if err != nil {
				log.Printf("❌ Export failed: %v", err)
				continue
			}
			log.Printf("✅ Exported %d row(s) to %s", res.Rows, res.URL)
		}
	}
}
