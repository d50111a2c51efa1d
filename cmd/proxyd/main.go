// Command proxyd is a small request forwarder. Clients in regions that
// cannot reach the exchange directly POST the target method, URL and
// API key as a form; proxyd replays the call from its own network
// location and relays the body back wrapped in a status envelope.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"resty.dev/v3"
)

type proxyConfig struct {
	// Port is the listen port.
	Port int `json:"port" validate:"min=0,max=65535"`
	// Timeout bounds one forwarded request.
	Timeout time.Duration `json:"timeout"`
}

func loadConfig(path string) (*proxyConfig, error) {
	cfg := &proxyConfig{Port: 8080, Timeout: 30 * time.Second}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := sonic.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

type envelope struct {
	Msg       string `json:"msg"`
	Data      string `json:"data,omitempty"`
	Traceback string `json:"traceback,omitempty"`
}

type forwarder struct {
	http   *resty.Client
	logger zerolog.Logger
}

func (f *forwarder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			f.logger.Error().Interface("panic", rec).Msg("handler panicked")
			writeJSON(w, envelope{Msg: "error", Traceback: fmt.Sprint(rec)})
		}
	}()

	if r.Method != http.MethodPost {
		writeJSON(w, envelope{Msg: "error", Data: "only POST is accepted"})
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, envelope{Msg: "error", Data: "malformed form body"})
		return
	}

	method := strings.ToUpper(r.PostFormValue("method"))
	url := r.PostFormValue("url")
	apiKey := r.PostFormValue("api_key")
	if url == "" {
		writeJSON(w, envelope{Msg: "error", Data: "url is required"})
		return
	}

	req := f.http.R().SetHeader("X-MBX-APIKEY", apiKey)

	var resp *resty.Response
	var err error
	switch method {
	case "GET":
		resp, err = req.Get(url)
	case "POST":
		resp, err = req.Post(url)
	default:
		writeJSON(w, envelope{Msg: "error", Data: fmt.Sprintf("unsupported method %q", method)})
		return
	}
	if err != nil {
		f.logger.Error().Err(err).Str("url", url).Msg("forward failed")
		writeJSON(w, envelope{Msg: "error", Data: err.Error()})
		return
	}

	f.logger.Info().Str("method", method).Str("url", url).Int("status", resp.StatusCode()).Msg("forwarded")

	// The upstream body is relayed either way; the envelope tells the
	// client whether the exchange accepted the call.
	if resp.StatusCode() != http.StatusOK {
		writeJSON(w, envelope{Msg: "error", Data: resp.String()})
		return
	}
	writeJSON(w, envelope{Msg: "success", Data: resp.String()})
}

func writeJSON(w http.ResponseWriter, v envelope) {
	w.Header().Set("Content-Type", "application/json")
	body, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, `{"msg":"error"}`, http.StatusInternalServerError)
		return
	}
	w.Write(body)
}

func main() {
	configPath := flag.String("config", "", "path to JSON config file")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("configuration error")
	}

	httpClient := resty.New()
	httpClient.SetTimeout(cfg.Timeout)
	defer httpClient.Close()

	mux := http.NewServeMux()
	mux.Handle("/", &forwarder{http: httpClient, logger: logger})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info().Str("addr", addr).Msg("proxyd listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
