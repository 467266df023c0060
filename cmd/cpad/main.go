package main

import (
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sudo-Ivan/jacked-api/jacked"
	kitlog "github.com/go-kit/log"
)

var listenAddr string

func init() {
	flag.StringVar(&listenAddr, "addr", ":8080", "listen address")
}

// serve runs a body handler and logs its outcome.
func serve(logger kitlog.Logger, remote string, body io.Reader, handle func(io.Reader) (int, interface{})) (int, interface{}) {
	start := time.Now()
	status, payload := handle(body)
	level := "info"
	if status >= http.StatusBadRequest {
		level = "warning"
	}
	keyvals := []interface{}{"level", level, "remote", remote, "status", status, "duration", time.Since(start)}
	if errBody, ok := payload.(map[string]string); ok && errBody["error"] != "" {
		keyvals = append(keyvals, "error", errBody["error"])
	}
	logger.Log(keyvals...)
	return status, payload
}

// route wraps a body handler into a logged jacked handler.
func route(logger kitlog.Logger, path string, handle func(io.Reader) (int, interface{})) func(c *jacked.Context) error {
	logger = kitlog.With(logger, "subsys", "http", "path", path)
	return func(c *jacked.Context) error {
		defer c.Request.Body.Close()
		status, payload := serve(logger, c.Request.RemoteAddr, c.Request.Body, handle)
		return c.JSON(status, payload)
	}
}

func main() {
	flag.Parse()

	conf := jacked.DefaultConfig()
	conf.WriteTimeout = 10 * time.Second
	conf.IdleTimeout = time.Minute
	app := jacked.NewWithConfig(conf)

	app.GET("/healthz", func(c *jacked.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)
	app.POST("/api/cpa", route(logger, "/api/cpa", handleCPA))
	app.POST("/api/collision-courses", route(logger, "/api/collision-courses", handleCollisionCourses))

	logger.Log("level", "notice", "subsys", "http", "status", "starting", "addr", listenAddr)
	go func() {
		if err := app.ListenAndServe(listenAddr); err != nil {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log("level", "notice", "subsys", "http", "status", "exiting")
}
