package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/cepro/copplanner/config"
	dataplatform "github.com/cepro/copplanner/data_platform"
	"github.com/cepro/copplanner/forecastclient"
	"github.com/cepro/copplanner/planner"
	"github.com/cepro/copplanner/resource"
	"github.com/cepro/copplanner/submitter"
	timeutils "github.com/cepro/copplanner/time_utils"
)

func main() {

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	configPath := flag.String("config", "copplanner.json", "path to the configuration file")
	flag.Parse()

	slog.Info("Starting COP planner...")

	cfg, err := config.Read(*configPath)
	if err != nil {
		slog.Error("Failed to read config", "error", err)
		return
	}

	location, err := time.LoadLocation(cfg.Planner.Timezone)
	if err != nil {
		slog.Error("Failed to load time location", "error", err)
		return
	}

	profile := resource.Profile{
		ID:                  cfg.Resource.ID,
		Name:                cfg.Resource.Name,
		CapacityMW:          cfg.Resource.CapacityMW,
		CapacityMWh:         cfg.Resource.CapacityMWh,
		RoundTripEfficiency: cfg.Resource.RoundTripEfficiency,
		RampUpMWPerMin:      cfg.Resource.RampUpMWPerMin,
		RampDownMWPerMin:    cfg.Resource.RampDownMWPerMin,
		MinSOC:              cfg.Resource.MinSoc,
		MaxSOC:              cfg.Resource.MaxSoc,
		AuxLoadMW:           cfg.Resource.AuxLoadMW,
	}
	if err := profile.Validate(); err != nil {
		slog.Error("Invalid resource profile", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	forecast := forecastclient.New(
		http.Client{Timeout: 30 * time.Second},
		cfg.Forecast.Url,
		cfg.Forecast.Username,
		os.Getenv("COP_FORECAST_PASSWORD"),
	)

	submission := submitter.New(
		http.Client{Timeout: 30 * time.Second},
		cfg.Submitter.Url,
		os.Getenv("COP_SUBMITTER_API_KEY"),
		cfg.Submitter.QseName,
		cfg.Submitter.TestMode,
	)

	dataPlatform, err := dataplatform.New(
		cfg.DataPlatform.Supabase.Url,
		os.Getenv("COP_SUPABASE_KEY"),
		cfg.DataPlatform.Supabase.Schema,
		cfg.DataPlatform.BufferFile,
	)
	if err != nil {
		slog.Error("Failed to create data platform", "error", err)
		return
	}
	go dataPlatform.Run(ctx, time.Duration(cfg.DataPlatform.UploadIntervalSecs)*time.Second)

	plnr := planner.New(planner.Config{
		Profile:      profile,
		HorizonHours: cfg.Planner.HorizonHours,
		Cutoff: timeutils.ClockTime{
			Hour:     cfg.Submitter.CutoffHour,
			Minute:   cfg.Submitter.CutoffMinute,
			Location: location,
		},
		Forecast:  forecast,
		Submitter: submission,
		Runs:      dataPlatform.Runs,
	})
	go plnr.Run(ctx, time.Duration(cfg.Planner.CycleIntervalMins)*time.Minute)

	// wait for a ctrl-c interrupt before exiting
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt)
	<-signalChan

	// cancel any open go-routines and give them up to 100ms to gracefully shutdown
	cancel()
	time.Sleep(time.Millisecond * 100)

	slog.Info("Exiting")
	os.Exit(0)
}
