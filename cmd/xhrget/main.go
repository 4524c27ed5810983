// Command xhrget performs one request through the xhr request object and
// prints the status, headers and body.
//
//	xhrget [flags] URL
//	xhrget -X POST -H "Content-Type: application/json" -d '{"a":1}' https://example.com/items
//
// Settings may also come from a config.yml, a .env file, or XHRGET_*
// environment variables; flags win.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/kbukum/xhrkit/component"
	"github.com/kbukum/xhrkit/config"
	"github.com/kbukum/xhrkit/httpclient"
	"github.com/kbukum/xhrkit/logger"
	"github.com/kbukum/xhrkit/observability"
	"github.com/kbukum/xhrkit/version"
	"github.com/kbukum/xhrkit/xhr"
	"github.com/kbukum/xhrkit/xhr/global"
)

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// flagKeys maps flags onto config keys.
var flagKeys = map[string]string{
	"method": "request.method",
	"data":   "request.body",
	"events": "request.events",
	"wait":   "request.wait",
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet(serviceName, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.String("config", "", "path to config.yml")
	envFile := fs.String("env-file", "", "path to a .env file")
	fs.StringP("method", "X", "GET", "request method")
	headers := fs.StringArrayP("header", "H", nil, `request header "Name: value" (repeatable)`)
	fs.StringP("data", "d", "", "request body text")
	fs.Bool("events", false, "write every request event to stderr as a CloudEvent")
	fs.Duration("wait", defaultWait, "how long to wait for the response")
	showVersion := fs.Bool("version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", serviceName, version.Get())
		return exitOK
	}

	var cfg Config
	err := config.LoadConfig(serviceName, &cfg,
		config.WithConfigFile(*configFile),
		config.WithEnvFile(*envFile),
		config.WithEnvPrefix("XHRGET"),
		config.WithFlags(fs, flagKeys),
	)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	if fs.NArg() > 0 {
		cfg.Request.URL = fs.Arg(0)
	}
	cfg.ApplyDefaults()
	for _, raw := range *headers {
		name, value, err := parseHeader(raw)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitUsage
		}
		cfg.Request.Headers[name] = value
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: invalid configuration: %v\n", err)
		return exitUsage
	}

	logger.SetGlobalLogger(logger.NewWithWriter(&cfg.Logging, cfg.Name, stderr))
	log := logger.Get("xhrget")

	transport := httpclient.NewComponent(cfg.HTTP)
	registry := component.NewRegistry()
	for _, c := range []component.Component{
		observability.NewTelemetryComponent(cfg.Telemetry, cfg.Name, version.Get().Short(), cfg.Environment),
		transport,
	} {
		if err := registry.Register(c); err != nil {
			log.Error("component registration failed", logger.Fields(logger.FieldComponent, c.Name(), logger.FieldError, err.Error()))
			return exitFailed
		}
	}

	if err := registry.StartAll(ctx); err != nil {
		log.Error("startup failed", logger.Fields(logger.FieldError, err.Error()))
		return exitFailed
	}
	defer func() {
		if err := registry.StopAll(context.WithoutCancel(ctx)); err != nil {
			log.Warn("shutdown failed", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	restore := global.InstallDefault(
		xhr.WithTransport(transport.Adapter()),
		xhr.WithContext(ctx),
	)
	defer restore()

	return perform(ctx, cfg.Request, stdout, stderr, log)
}

// perform runs the configured request through the installed constructor.
func perform(ctx context.Context, rc RequestConfig, stdout, stderr io.Writer, log *logger.Logger) int {
	req, err := global.New()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailed
	}

	var (
		mu      sync.Mutex
		failure error
	)
	req.OnError(func(ev xhr.Event) {
		mu.Lock()
		failure = ev.Err
		mu.Unlock()
	})
	if rc.Events {
		emitter := newEventEmitter(stderr, log)
		for _, t := range xhr.EventTypes() {
			req.AddEventListener(t, emitter.write)
		}
	}

	if err := req.Open(rc.Method, rc.URL); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailed
	}
	for _, name := range sortedKeys(rc.Headers) {
		if err := req.SetRequestHeader(name, rc.Headers[name]); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitFailed
		}
	}
	if err := req.Send(rc.Body); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailed
	}

	waitCtx, cancel := context.WithTimeout(ctx, rc.Wait)
	defer cancel()
	if err := req.Wait(waitCtx); err != nil {
		fmt.Fprintf(stderr, "Error: no response within %s: %v\n", rc.Wait, err)
		return exitFailed
	}

	mu.Lock()
	defer mu.Unlock()
	if failure != nil {
		fmt.Fprintf(stderr, "Error: request failed: %v\n", failure)
		return exitFailed
	}

	body, _ := req.ResponseText()
	fmt.Fprintf(stdout, "HTTP %s\n", req.StatusText())
	if h := req.GetAllResponseHeaders(); h != "" {
		fmt.Fprintln(stdout, h)
	}
	fmt.Fprintln(stdout)
	fmt.Fprint(stdout, body)
	return exitOK
}

// eventEmitter writes request events as CloudEvents JSON lines.
type eventEmitter struct {
	mu  sync.Mutex
	enc *json.Encoder
	log *logger.Logger
}

func newEventEmitter(w io.Writer, log *logger.Logger) *eventEmitter {
	return &eventEmitter{enc: json.NewEncoder(w), log: log}
}

func (e *eventEmitter) write(ev xhr.Event) {
	ce, err := ev.CloudEvent(serviceName)
	if err != nil {
		e.log.Warn("event export failed", logger.Fields(logger.FieldEvent, string(ev.Type), logger.FieldError, err.Error()))
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enc.Encode(ce); err != nil {
		e.log.Warn("event write failed", logger.Fields(logger.FieldEvent, string(ev.Type), logger.FieldError, err.Error()))
	}
}
