package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	if cfg.HTTPAddr == "" || cfg.PostgresDSN == "" || cfg.RedisAddr == "" {
		t.Fatalf("expected non-empty defaults, got %+v", cfg)
	}
	if len(cfg.KafkaBrokers) == 0 {
		t.Fatal("expected at least one default kafka broker")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092, ")

	cfg := Load()
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("expected :9090, got %s", cfg.HTTPAddr)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[0] != "a:9092" || cfg.KafkaBrokers[1] != "b:9092" {
		t.Fatalf("expected trimmed broker list, got %v", cfg.KafkaBrokers)
	}
}
