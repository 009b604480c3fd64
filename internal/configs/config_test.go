package configs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"price-estimator-service/internal/core/domain"
)

// t.Setenv несовместим с t.Parallel, поэтому тесты пакета последовательные

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("MODEL_PATH", "model/model.json")
	t.Setenv("SCALER_PATH", "model/scaler.json")
}

func noEnvFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfig(noEnvFile(t))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.AppName != "price-estimator-service" || cfg.Rest.PORT != "8090" {
		t.Fatalf("defaults = %q / %q", cfg.AppName, cfg.Rest.PORT)
	}
	if !cfg.Pricing.Band.IsPoint() || cfg.Pricing.Currency != "€" {
		t.Fatalf("pricing = %+v", cfg.Pricing)
	}
	if cfg.BinaryPolicy != domain.BinaryStrict {
		t.Fatalf("BinaryPolicy = %v, want strict", cfg.BinaryPolicy)
	}
	if cfg.HistoryEnabled() || cfg.EventsEnabled() {
		t.Fatalf("history/events enabled without URLs")
	}
	if diff := cmp.Diff([]string{"*"}, cfg.CORS.AllowedOrigins); diff != "" {
		t.Fatalf("CORS origins mismatch (-want +got):\n%s", diff)
	}
	if cfg.StdoutLogger.Format != "text" || cfg.FluentBit.Enabled {
		t.Fatalf("logging = %+v / %+v", cfg.StdoutLogger, cfg.FluentBit)
	}
}

func TestLoadConfig_FromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "MODEL_PATH=s3://models/price/model.yaml\n" +
		"SCALER_PATH=s3://models/price/scaler.yaml\n" +
		"PRICE_BAND=band-90-110\n" +
		"BINARY_ENCODING=lenient\n" +
		"CORS_ALLOWED_ORIGINS=http://localhost:3000, https://estimator.example\n" +
		"RATE_LIMIT_RPS=2.5\n" +
		"DATABASE_URL=postgres://u:p@localhost:5432/estimates\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	// godotenv не перезаписывает уже заданные переменные; t.Setenv вернет их после теста
	for _, key := range []string{"MODEL_PATH", "SCALER_PATH", "PRICE_BAND", "BINARY_ENCODING", "CORS_ALLOWED_ORIGINS", "RATE_LIMIT_RPS", "DATABASE_URL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Artifacts.ModelPath != "s3://models/price/model.yaml" {
		t.Fatalf("ModelPath = %q", cfg.Artifacts.ModelPath)
	}
	if cfg.Pricing.Band != (domain.PriceBand{Low: 0.90, High: 1.10}) {
		t.Fatalf("Band = %+v", cfg.Pricing.Band)
	}
	if cfg.BinaryPolicy != domain.BinaryLenient {
		t.Fatalf("BinaryPolicy = %v", cfg.BinaryPolicy)
	}
	if diff := cmp.Diff([]string{"http://localhost:3000", "https://estimator.example"}, cfg.CORS.AllowedOrigins); diff != "" {
		t.Fatalf("CORS origins mismatch (-want +got):\n%s", diff)
	}
	if cfg.RateLimit.RPS != 2.5 || !cfg.HistoryEnabled() {
		t.Fatalf("rate=%v history=%v", cfg.RateLimit.RPS, cfg.HistoryEnabled())
	}
}

func TestLoadConfig_CustomBand(t *testing.T) {
	setRequired(t)
	t.Setenv("PRICE_BAND", "custom")
	t.Setenv("PRICE_BAND_LOW", "0.8")
	t.Setenv("PRICE_BAND_HIGH", "1.05")

	cfg, err := LoadConfig(noEnvFile(t))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Pricing.Band != (domain.PriceBand{Low: 0.8, High: 1.05}) {
		t.Fatalf("Band = %+v", cfg.Pricing.Band)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	cases := map[string]map[string]string{
		"missing model":         {"MODEL_PATH": ""},
		"unknown band":          {"PRICE_BAND": "band-10-20"},
		"custom without bounds": {"PRICE_BAND": "custom"},
		"inverted custom band":  {"PRICE_BAND": "custom", "PRICE_BAND_LOW": "1.2", "PRICE_BAND_HIGH": "0.9"},
		"NaN custom band":       {"PRICE_BAND": "custom", "PRICE_BAND_LOW": "NaN", "PRICE_BAND_HIGH": "NaN"},
		"infinite custom band":  {"PRICE_BAND": "custom", "PRICE_BAND_LOW": "0.9", "PRICE_BAND_HIGH": "+Inf"},
		"bad binary policy":     {"BINARY_ENCODING": "fuzzy"},
		"bad log format":        {"LOG_FORMAT": "xml"},
		"negative rate":         {"RATE_LIMIT_RPS": "-1"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			setRequired(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := LoadConfig(noEnvFile(t)); err == nil {
				t.Fatalf("LoadConfig: expected error")
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" a, ,b ,")
	if diff := cmp.Diff([]string{"a", "b"}, got); diff != "" {
		t.Fatalf("splitList mismatch (-want +got):\n%s", diff)
	}
}
