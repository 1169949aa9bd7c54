package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Each env* reader returns def when the variable is unset, empty or
// unparsable.

func envString(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envLower(k, def string) string {
	return strings.ToLower(strings.TrimSpace(envString(k, def)))
}

func envParse[T any](k string, def T, parse func(string) (T, error)) T {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if out, err := parse(v); err == nil {
		return out
	}
	return def
}

func envInt(k string, def int) int {
	return envParse(k, def, strconv.Atoi)
}

func envFloat(k string, def float64) float64 {
	return envParse(k, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

func envDuration(k string, def time.Duration) time.Duration {
	return envParse(k, def, time.ParseDuration)
}

func envBool(k string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(k))) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	}
	return def
}

// envList splits a comma-separated variable, dropping blank items. It
// returns nil when nothing remains.
func envList(k string) []string {
	var out []string
	for _, p := range strings.Split(os.Getenv(k), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
