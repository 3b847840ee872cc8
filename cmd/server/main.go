package main

import (
	"context"
	"flag"
	"math/rand/v2"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/schema"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/mahjong-solver/internal/config"
	"github.com/vancomm/mahjong-solver/internal/experiment"
	"github.com/vancomm/mahjong-solver/internal/mahjong"
	"github.com/vancomm/mahjong-solver/internal/solver"
)

var (
	log     = logrus.New()
	decoder = schema.NewDecoder()

	addr string

	sessions = newSessionStore()
	seeder   = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 1))
)

func init() {
	flag.StringVar(&addr, "addr", config.Addr(), "listen address")
	decoder.IgnoreUnknownKeys(true)
}

func setupLogging() {
	logLevel := logrus.InfoLevel
	if config.Development() {
		logLevel = logrus.DebugLevel
	}
	log.SetLevel(logLevel)
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	mahjong.Log = log
	solver.Log = log
	experiment.Log = log
}

func main() {
	mainCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	flag.Parse()
	setupLogging()

	server := &http.Server{
		Addr:    addr,
		Handler: buildHandler(),
		BaseContext: func(l net.Listener) context.Context {
			return mainCtx
		},
	}

	log.Infof("ready to serve @ %s", addr)

	g, gCtx := errgroup.WithContext(mainCtx)
	g.Go(func() error {
		return server.ListenAndServe()
	})
	g.Go(func() error {
		<-gCtx.Done()
		return server.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil {
		log.Printf("exit reason: %s\n", err)
	}
}
