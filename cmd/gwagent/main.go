// gwagent runs the simulation of one shard and serves its clients over websocket
package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/xiaonanln/gwagent/engine/async"
	"github.com/xiaonanln/gwagent/engine/binutil"
	"github.com/xiaonanln/gwagent/engine/config"
	"github.com/xiaonanln/gwagent/engine/gwlog"
	"github.com/xiaonanln/gwagent/engine/post"
	"github.com/xiaonanln/gwagent/engine/storage"
	"github.com/xiaonanln/gwagent/engine/world"
)

var (
	args struct {
		configFile      string
		logLevel        string
		runInDaemonMode bool
		pidFile         string
	}
	gameWorld  *world.World
	signalChan = make(chan os.Signal, 1)
)

func parseArgs() {
	flag.StringVar(&args.configFile, "configfile", "", "set config file path")
	flag.StringVar(&args.logLevel, "log", "", "set log level, will override log level in config")
	flag.BoolVar(&args.runInDaemonMode, "d", false, "run in daemon mode")
	flag.StringVar(&args.pidFile, "pidfile", "", "write pid to this file in daemon mode")
	flag.Parse()
}

func main() {
	rand.Seed(time.Now().UnixNano())
	parseArgs()

	if args.runInDaemonMode {
		daemoncontext := binutil.Daemonize(args.pidFile)
		defer daemoncontext.Release()
	}

	if args.configFile != "" {
		config.SetConfigFile(args.configFile)
	}
	cfg := config.Get()
	agentConfig := &cfg.Agent
	if agentConfig.GoMaxProcs > 0 {
		gwlog.Infof("SET GOMAXPROCS = %d", agentConfig.GoMaxProcs)
		runtime.GOMAXPROCS(agentConfig.GoMaxProcs)
	}
	logLevel := args.logLevel
	if logLevel == "" {
		logLevel = agentConfig.LogLevel
	}
	binutil.SetupGWLog("gwagent", logLevel, agentConfig.LogFile, agentConfig.LogStderr)
	gwlog.Debugf("config: %s", config.DumpPretty(cfg))

	if err := storage.Initialize(&cfg.Storage); err != nil {
		gwlog.Fatalf("storage initialize failed: %v", err)
	}

	var err error
	if gameWorld, err = world.NewFromConfig(cfg); err != nil {
		gwlog.Fatalf("create world failed: %v", err)
	}

	binutil.SetupHTTPServer(agentConfig.HTTPIp, agentConfig.HTTPPort, handleWebSocketConn)

	ctx, cancel := context.WithCancel(context.Background())
	setupSignals(cancel)
	gameWorld.Run(ctx)

	gwlog.Infof("Terminating gwagent ...")
	gameWorld.Shutdown()
	storage.Shutdown()
	async.Shutdown()
	gwlog.Infof("gwagent terminated gracefully.")
}

func setupSignals(stop context.CancelFunc) {
	gwlog.Infof("Setup signals ...")
	signal.Ignore(syscall.SIGPIPE, syscall.SIGHUP)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		for {
			sig := <-signalChan
			if sig == syscall.SIGINT || sig == syscall.SIGTERM {
				gwlog.Infof("%s received, stopping after the current tick", sig)
				post.Post(func() {
					stop()
				})
				return
			}
			gwlog.Errorf("unexpected signal: %s", sig)
		}
	}()
}
