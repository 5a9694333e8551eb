// Command gofile-sandbox serves an in-memory GoFile API on localhost, for
// developing against the SDK without touching gofile.io. It supports
// artificial latency and probabilistic failure injection.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gofile/gofile_sdk_go/pkg/gofile/mock"
)

type failConfig struct {
	rate float64
	code int
}

func main() {
	addr := flag.String("addr", ":8787", "listen address")
	accounts := flag.Int("accounts", 1, "number of accounts to pre-create")
	latency := flag.Duration("latency", 0, "artificial latency to inject per request")
	fail := flag.String("fail", "", "failure injection (rate=<float>,code=<httpStatus>)")
	verbose := flag.Bool("verbose", false, "log every request")
	flag.Parse()

	log := logrus.New()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	failCfg, err := parseFailConfig(*fail)
	if err != nil {
		log.Fatalf("parse fail flag: %v", err)
	}

	service := mock.New()
	for i := 0; i < *accounts; i++ {
		token := service.AddAccount(fmt.Sprintf("sandbox-%03d@example.com", i+1))
		log.Infof("account %d token: %s", i+1, token)
	}

	handler := withMiddleware(log, *latency, failCfg, service.Handler())
	log.Infof("gofile sandbox listening on %s", *addr)
	if err := http.ListenAndServe(*addr, handler); err != nil {
		log.Fatalf("serve: %v", err)
	}
}

func withMiddleware(log *logrus.Logger, latency time.Duration, fail failConfig, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if latency > 0 {
			time.Sleep(latency)
		}
		if fail.rate > 0 && rand.Float64() < fail.rate {
			log.WithFields(logrus.Fields{"path": r.URL.Path, "code": fail.code}).Debug("injected failure")
			http.Error(w, "injected failure", fail.code)
			return
		}
		log.WithFields(logrus.Fields{"method": r.Method, "path": r.URL.Path}).Debug("request")
		next.ServeHTTP(w, r)
	})
}

func parseFailConfig(raw string) (failConfig, error) {
	cfg := failConfig{code: http.StatusInternalServerError}
	if strings.TrimSpace(raw) == "" {
		return cfg, nil
	}
	for _, part := range strings.Split(raw, ",") {
		key, value, found := strings.Cut(part, "=")
		if !found {
			return cfg, fmt.Errorf("malformed segment %q", part)
		}
		switch key {
		case "rate":
			rate, err := strconv.ParseFloat(value, 64)
			if err != nil || rate < 0 || rate > 1 {
				return cfg, fmt.Errorf("rate must be a float in [0,1], got %q", value)
			}
			cfg.rate = rate
		case "code":
			code, err := strconv.Atoi(value)
			if err != nil || code < 400 || code > 599 {
				return cfg, fmt.Errorf("code must be an HTTP error status, got %q", value)
			}
			cfg.code = code
		default:
			return cfg, fmt.Errorf("unknown key %q", key)
		}
	}
	return cfg, nil
}
