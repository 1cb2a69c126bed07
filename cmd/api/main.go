package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/StudyAPI/internal/app"
	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/data/store"
	jobmodel "github.com/akolanti/StudyAPI/internal/domain/jobModel"
	"github.com/akolanti/StudyAPI/internal/handlers"
	"github.com/akolanti/StudyAPI/internal/job"
	"github.com/akolanti/StudyAPI/internal/middleware"
	"github.com/akolanti/StudyAPI/internal/server"
	"github.com/akolanti/StudyAPI/internal/worker"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
)

var (
	configPath        string
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {
	flag.StringVar(&configPath, "config", "", "path to a TOML settings file")
	flag.StringVar(&listenAddr, "listen-addr", "", "server listen address (overrides settings)")
	flag.Parse()

	settings, err := config.LoadSettings(configPath)
	logger_i.Init(settings.Log)
	var logger = logger_i.NewLogger("main")
	if err != nil {
		logger.Error("Invalid settings", "err", err)
		os.Exit(1)
	}
	if listenAddr != "" {
		settings.Server.ListenAddr = listenAddr
	}
	if settings.Server.AuthToken == "" && !settings.Server.NoAuth {
		logger.Warn("No auth token configured; every request will be rejected. Set AUTH_TOKEN or NO_AUTH=true")
	}

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	studyApp, err := app.New(serviceContext, settings)
	if err != nil {
		logger.Error("Could not start the study service", "err", err)
		os.Exit(1)
	}

	//init job service and job store
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
	}
	logger.Info("Starting job service")

	if jobStore := store.GetRedisJobStore(serviceContext, settings.Cache); jobStore != nil {
		serviceConfig.JobStore = jobStore
	} else {
		logger.Warn("Redis job store is offline, keeping jobs in memory")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
	}
	service := job.InitJobService(serviceConfig)

	handlers.InitJobHandler(service)
	handlers.InitStudyHandler(studyApp.Service, settings.Ingest.DocumentsDir)
	middleware.Init(settings.Server)

	//init worker pool
	worker.InitServices(service, studyApp.Service)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(settings.Server.ListenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
