package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dev-harshpatel/stoq/config"
	"github.com/dev-harshpatel/stoq/internal/adminapi"
	"github.com/dev-harshpatel/stoq/internal/app"
	"github.com/dev-harshpatel/stoq/internal/storeapi"
	"github.com/dev-harshpatel/stoq/internal/webserver"
	"go.uber.org/zap"
)

var (
	confFile = flag.String("c", "stoq.yml", "config file path")
	initDb   = flag.Bool("initdb", false, "drop and recreate all tables, then exit")
	showVer  = flag.Bool("v", false, "print version and exit")
)

var version = "dev"

func main() {
	flag.Parse()

	if *showVer {
		fmt.Println("stoq", version)
		return
	}

	cfg := config.LoadConfig(*confFile)
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initDb {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	ws := webserver.Init(application)
	adminapi.Init()
	storeapi.Init()

	go func() {
		if err := ws.Listen(); err != nil {
			zap.S().Fatalf("web server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	zap.S().Info("shutting down")
}
