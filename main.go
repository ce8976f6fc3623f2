/*
This is an example of application that will use the
engine package to test things out
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/Tinaynox/maze-sub011/engine"
	"github.com/Tinaynox/maze-sub011/engine/core"
	"github.com/Tinaynox/maze-sub011/testbed"
)

func main() {
	configPath := flag.String("config", "engine.toml", "path to the engine config file")
	flag.Parse()

	config, err := engine.LoadEngineConfig(*configPath)
	if err != nil {
		core.LogFatal("failed to load config: %s", err)
	}

	tb, err := testbed.NewTestGame()
	if err != nil {
		core.LogFatal(err.Error())
	}

	e, err := engine.New(tb.Game, config)
	if err != nil {
		core.LogFatal(err.Error())
	}

	if err := e.Initialize(); err != nil {
		_ = e.Shutdown()
		core.LogFatal("failed to initialize: %s", err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// the frame loop owns the GL context, so a signal only asks it to quit
	go func() {
		<-sigCh
		e.Events().Fire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
	}()

	// run engine
	if err := e.Run(); err != nil {
		core.LogError(err.Error())
	}
	if err := e.Shutdown(); err != nil {
		core.LogError(err.Error())
	}
}
