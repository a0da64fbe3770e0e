package cron_config

type Config struct {
	// Heartbeat check, every minute
	CronScheduleHeartbeat string `env:"CRON_SCHEDULE_HEARTBEAT" envDefault:"0 * * * * *"`
	// Domain expiry sync against the registrar, daily at 02:00
	CronScheduleExpirySync string `env:"CRON_SCHEDULE_EXPIRY_SYNC" envDefault:"0 0 2 * * *"`
}
