package binutil

import (
	"fmt"
	"net/http"
	_ "net/http/pprof"

	"github.com/xiaonanln/gwagent/engine/gwlog"
	"golang.org/x/net/websocket"
)

// SetupHTTPServer starts the HTTP server for go tool pprof and the websocket transport
func SetupHTTPServer(ip string, port int, wsHandler func(ws *websocket.Conn)) {
	setupHTTPServer(ip, port, wsHandler, "", "")
}

// SetupHTTPServerTLS starts the HTTPs server for go tool pprof and the websocket transport
func SetupHTTPServerTLS(ip string, port int, wsHandler func(ws *websocket.Conn), certFile string, keyFile string) {
	setupHTTPServer(ip, port, wsHandler, certFile, keyFile)
}

func setupHTTPServer(ip string, port int, wsHandler func(ws *websocket.Conn), certFile string, keyFile string) {
	if port == 0 {
		gwlog.Infof("http server not enabled, clients can not connect")
		return
	}

	httpHost := fmt.Sprintf("%s:%d", ip, port)
	gwlog.Infof("http server listening on %s", httpHost)
	gwlog.Infof("pprof http://%s/debug/pprof/ ... available commands: ", httpHost)
	gwlog.Infof("    go tool pprof http://%s/debug/pprof/heap", httpHost)
	gwlog.Infof("    go tool pprof http://%s/debug/pprof/profile", httpHost)
	if keyFile != "" || certFile != "" {
		gwlog.Infof("TLS is enabled on http: key=%s, cert=%s", keyFile, certFile)
	}

	if wsHandler != nil {
		gwlog.Infof("clients connect to ws://%s/ws", httpHost)
		http.Handle("/ws", websocket.Handler(wsHandler))
	}

	go func() {
		var err error
		if keyFile == "" && certFile == "" {
			err = http.ListenAndServe(httpHost, nil)
		} else {
			err = http.ListenAndServeTLS(httpHost, certFile, keyFile, nil)
		}
		gwlog.Errorf("http server stopped: %v", err)
	}()
}

// LogOutputs returns the zap output paths of the log file and stderr settings
func LogOutputs(logFile string, logStderr bool) []string {
	outputs := make([]string, 0, 2)
	if logFile != "" {
		outputs = append(outputs, gwlog.LumberjackScheme+":"+logFile)
	}
	if logStderr {
		outputs = append(outputs, "stderr")
	}
	return outputs
}

// SetupGWLog setup the gwagent log system
func SetupGWLog(component string, logLevel string, logFile string, logStderr bool) {
	gwlog.SetSource(component)
	gwlog.Infof("Set log level to %s", logLevel)
	gwlog.SetLevel(gwlog.ParseLevel(logLevel))

	if outputs := LogOutputs(logFile, logStderr); len(outputs) > 0 {
		gwlog.SetOutput(outputs)
	}
}
