package worker

import (
	"github.com/robfig/cron/v3"
)

// Worker a cron driven job
type Worker interface {
	Start() error
	Run()
	Stop() error
}

type OnWork func() error

// BaseJob schedules OnWork on a cron spec and keeps overlapping ticks
// from running concurrently. Each tick does a bounded amount of work
// and returns; there is no long lived loop.
type BaseJob struct {
	Cron      *cron.Cron
	IsRunning bool
	OnWork    OnWork
}

func (job *BaseJob) Start() error {
	job.Cron.Start()
	return nil
}

func (job *BaseJob) Stop() error {
	job.Cron.Stop()
	return nil
}

func (job *BaseJob) Run() {
	if job.IsRunning {
		return
	}

	job.IsRunning = true

	job.OnWork()

	job.IsRunning = false
}
