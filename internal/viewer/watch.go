package viewer

import (
	"os"
	"time"
)

// watchInterval is how often the snapshot's mtime is polled.
const watchInterval = 2 * time.Second

// watch polls the CSV snapshot and notifies connected browsers when a
// new run replaces it. Runs until Shutdown closes the done channel.
func (s *Server) watch() {
	ticker := time.NewTicker(s.watchEvery)
	defer ticker.Stop()

	last := s.modTime()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			current := s.modTime()
			if current.Equal(last) {
				continue
			}
			last = current
			s.logger.Info("results updated, notifying viewers", "csv", s.csvPath)
			s.hub.broadcast(reloadMessage)
		}
	}
}

// modTime returns the snapshot's modification time, or the zero time
// when the file does not exist yet.
func (s *Server) modTime() time.Time {
	info, err := os.Stat(s.csvPath)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
