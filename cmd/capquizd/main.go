package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"capquiz-backend/lib/configutil"
	"capquiz-backend/lib/scrapers/marketcap"
	"capquiz-backend/lib/serviceutil"
	"capquiz-backend/lib/telemetry"
	"capquiz-backend/lib/validators/yahoo"
	"capquiz-backend/services/quiz"
	"capquiz-backend/services/update"

	"github.com/robfig/cron/v3"
)

type Config struct {
	Port     int    `json:"port"`
	DataPath string `json:"data_path"`
	LogPath  string `json:"log_path"`
	// cron expression for the daily refresh, evaluated in Timezone
	Schedule string `json:"schedule"`
	// IANA zone name the schedule runs in
	Timezone string `json:"timezone"`
	Validate bool   `json:"validate"`
	Verbose  bool   `json:"verbose"`
}

func loadConfig() Config {
	config, err := configutil.ReadConfig[Config]("capquizd.json5")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("read config", err)
	}

	if config.Port == 0 {
		config.Port = 3000
	}
	if config.DataPath == "" {
		config.DataPath = "data/quiz-data.json"
	}
	if config.LogPath == "" {
		config.LogPath = "logs/update.log"
	}
	if config.Schedule == "" {
		// 22:00 eastern, after US markets close
		config.Schedule = "0 22 * * *"
	}
	if config.Timezone == "" {
		config.Timezone = "America/New_York"
	}
	return config
}

func main() {
	ctx := serviceutil.SignalContext()
	config := loadConfig()

	telemetry.InitSlog(config.Verbose)
	tel, err := telemetry.SetupFromEnv(ctx, "capquizd")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("setup telemetry", err)
	}
	defer tel.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	updater := update.NewService(
		marketcap.NewClient(marketcap.ClientOptions{}),
		yahoo.NewClient(yahoo.ClientOptions{}),
		update.Config{
			DataPath: config.DataPath,
			LogPath:  config.LogPath,
			Validate: config.Validate,
		},
	)
	service := quiz.NewService(config.DataPath, config.LogPath, updater)

	location, err := time.LoadLocation(config.Timezone)
	if err != nil {
		serviceutil.Fatal("load schedule timezone", err)
	}

	scheduler := cron.New(cron.WithLocation(location))
	_, err = scheduler.AddFunc(config.Schedule, func() {
		slog.Info("scheduled update triggered", "schedule", config.Schedule, "timezone", config.Timezone)
		_, err := updater.RunUpdate(ctx)
		if err != nil {
			slog.Error("scheduled update failed", "err", err)
		}
	})
	if err != nil {
		serviceutil.Fatal("schedule update job", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// serve stale data rather than none: only run a boot-time update
	// when there is no snapshot at all
	if _, err := os.Stat(config.DataPath); os.IsNotExist(err) {
		go func() {
			slog.Info("no snapshot found, running initial update")
			_, err := updater.RunUpdate(ctx)
			if err != nil {
				slog.Error("initial update failed", "err", err)
			}
		}()
	}

	serviceutil.StartHttpServer(config.Port, service.Router())
}
