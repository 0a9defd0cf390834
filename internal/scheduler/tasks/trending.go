package tasks

import (
	"github.com/bingelist/bingelist/internal/config"
	"github.com/bingelist/bingelist/internal/scheduler"
	"github.com/bingelist/bingelist/internal/trending"
)

// TrendingTaskID identifies the trending ingestion task.
const TrendingTaskID = "trending-ingest"

// RegisterTrendingTask registers the trending ingestion task with the
// scheduler.
func RegisterTrendingTask(sched *scheduler.Scheduler, service *trending.Service, cfg *config.TrendingConfig) error {
	if !cfg.Enabled {
		return nil
	}

	return sched.RegisterTask(scheduler.TaskConfig{
		ID:          TrendingTaskID,
		Name:        "Trending Ingestion",
		Description: "Fetch the weekly trending TV listing and upsert it into the local catalog",
		Cron:        cfg.Cron,
		RunOnStart:  cfg.RunOnStart,
		Func:        service.Run,
	})
}
