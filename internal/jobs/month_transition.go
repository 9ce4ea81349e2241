package jobs

import (
	"log"
	"time"

	"wellyonfilm/internal/services"
)

// MonthTransition moves the open month into judging once its
// submission window has passed.
type MonthTransition struct {
	monthService *services.MonthService
	interval     time.Duration
	stopChan     chan struct{}
}

// NewMonthTransition creates a new month transition job
func NewMonthTransition(monthService *services.MonthService, interval time.Duration) *MonthTransition {
	return &MonthTransition{
		monthService: monthService,
		interval:     interval,
		stopChan:     make(chan struct{}),
	}
}

// Start begins the transition loop
func (mt *MonthTransition) Start() {
	log.Printf("[MonthTransition] Starting month transition job (interval: %v)", mt.interval)

	ticker := time.NewTicker(mt.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := mt.monthService.SweepExpired(time.Now()); err != nil {
				log.Printf("[MonthTransition] Error sweeping expired months: %v", err)
			}
		case <-mt.stopChan:
			log.Println("[MonthTransition] Stopping month transition job")
			return
		}
	}
}

// Stop stops the transition loop
func (mt *MonthTransition) Stop() {
	close(mt.stopChan)
}
