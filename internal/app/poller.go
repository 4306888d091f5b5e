package app

import (
	"context"
	"slices"
	"time"

	"github.com/five82/courier/internal/jsonstore"
)

const defaultPollInterval = 2 * time.Second

type fileStamp struct {
	exists   bool
	size     int64
	modified time.Time
}

// StartPoller launches a background goroutine that compares file metadata at
// a fixed cadence and signals out when anything changed. It returns
// immediately.
func StartPoller(ctx context.Context, files []*jsonstore.File, interval time.Duration, out chan<- struct{}) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		last := stamps(files)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			current := stamps(files)
			if slices.Equal(current, last) {
				continue
			}
			last = current
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}()
}

func stamps(files []*jsonstore.File) []fileStamp {
	out := make([]fileStamp, len(files))
	for i, f := range files {
		info := f.Info()
		out[i] = fileStamp{exists: info.Exists, size: info.Size, modified: info.Modified}
	}
	return out
}
