//go:build !windows
// +build !windows

package binutil

import (
	"os"

	"github.com/sevlyar/go-daemon"
	"github.com/xiaonanln/gwagent/engine/gwlog"
)

// Daemonize restarts the process in background. The parent exits, the child gets the context to release on exit.
// pidFile is optional.
func Daemonize(pidFile string) *daemon.Context {
	context := &daemon.Context{
		PidFileName: pidFile,
		PidFilePerm: 0644,
		Umask:       027,
	}
	child, err := context.Reborn()
	if err != nil {
		gwlog.Panicf("daemonize failed: %v", err)
	}

	if child != nil {
		gwlog.Infof("gwagent runs in daemon mode, pid %d", child.Pid)
		os.Exit(0)
	}
	return context
}
