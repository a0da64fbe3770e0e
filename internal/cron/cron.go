package cron

import (
	"context"
	"os"
	"sync"

	"github.com/caarlos0/env/v6"
	cronv3 "github.com/robfig/cron/v3"

	"github.com/billingstack/namesilo/config"
	cron_config "github.com/billingstack/namesilo/internal/cron/config"
	"github.com/billingstack/namesilo/internal/logger"
	"github.com/billingstack/namesilo/internal/tracing"
	"github.com/billingstack/namesilo/interfaces"
)

// GroupDomains serializes jobs touching domain records
const GroupDomains = "domains"

var jobLocks = struct {
	sync.Mutex
	locks map[string]*sync.Mutex
}{
	locks: map[string]*sync.Mutex{
		GroupDomains: new(sync.Mutex),
	},
}

type CronManager struct {
	cfg    *config.Config
	log    logger.Logger
	cron   *cronv3.Cron
	stopCh chan struct{}
	jobIDs map[string]cronv3.EntryID
	domain interfaces.DomainService
}

func NewCronManager(cfg *config.Config, log logger.Logger, domain interfaces.DomainService) *CronManager {
	return &CronManager{
		cfg:    cfg,
		log:    log,
		stopCh: make(chan struct{}),
		jobIDs: make(map[string]cronv3.EntryID),
		domain: domain,
	}
}

// Start initializes and starts the cron scheduler
func (cm *CronManager) Start() error {
	cm.StartCron()
	return nil
}

// Stop gracefully stops the cron manager
func (cm *CronManager) Stop() {
	if cm.cron != nil {
		cm.log.Info("Stopping cron manager")
		ctx := cm.cron.Stop()
		// Wait for jobs to finish
		<-ctx.Done()
	}
	close(cm.stopCh)
}

// registerJobs adds all cron jobs to the scheduler
func (cm *CronManager) registerJobs(c *cronv3.Cron) {
	var cronConfig cron_config.Config
	if err := env.Parse(&cronConfig); err != nil {
		cm.log.Fatalf("Failed to parse cron config from environment: %v", err)
	}

	if cronConfig.CronScheduleHeartbeat != "" {
		hostname, _ := os.Hostname()
		if hostname == "" {
			hostname = "local"
		}
		id, err := c.AddFunc(cronConfig.CronScheduleHeartbeat, func() {
			defer tracing.RecoverAndLogToJaeger(cm.log)
			cm.log.Infof("Cron heartbeat from host: %s", hostname)
		})
		if err != nil {
			cm.log.Fatalf("Could not add heartbeat cron job: %v", err)
		}
		cm.jobIDs["heartbeat"] = id
		cm.log.Infof("Registered heartbeat job with schedule: %s", cronConfig.CronScheduleHeartbeat)
	}

	if cronConfig.CronScheduleExpirySync != "" {
		id, err := c.AddFunc(cronConfig.CronScheduleExpirySync, func() {
			defer tracing.RecoverAndLogToJaeger(cm.log)
			jobLocks.locks[GroupDomains].Lock()
			defer jobLocks.locks[GroupDomains].Unlock()
			cm.syncDomainExpiry()
		})
		if err != nil {
			cm.log.Fatalf("Could not add expiry sync cron job: %v", err)
		}
		cm.jobIDs["expiry_sync"] = id
		cm.log.Infof("Registered expiry sync job with schedule: %s", cronConfig.CronScheduleExpirySync)
	}
}

// StartCron initializes and starts the cron scheduler
func (cm *CronManager) StartCron() {
	cm.log.Info("Starting cron manager")
	cronOptions := []cronv3.Option{
		cronv3.WithSeconds(),
		cronv3.WithChain(
			cronv3.SkipIfStillRunning(cronv3.DefaultLogger),
			cronv3.Recover(cronv3.DefaultLogger),
		),
	}
	c := cronv3.New(cronOptions...)
	cm.registerJobs(c)
	c.Start()
	cm.cron = c
}

func (cm *CronManager) syncDomainExpiry() {
	cm.log.Info("Running domain expiry sync")

	ctx := context.Background()

	span, ctx := tracing.StartTracerSpan(ctx, "CronManager.syncDomainExpiry")
	defer span.Finish()
	tracing.TagComponentCronJob(span)

	if err := cm.domain.SyncDomainExpiry(ctx); err != nil {
		tracing.TraceErr(span, err)
		cm.log.Errorf("Failed to sync domain expiry: %v", err)
		return
	}

	cm.log.Info("Successfully completed domain expiry sync")
}
