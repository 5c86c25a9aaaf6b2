package config

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.Mongo.Database != "jobboard" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Auth.TokenDenylist {
		t.Fatalf("denylist must be off by default")
	}
	if len(cfg.CORSAllow) != 1 || cfg.CORSAllow[0] != "*" {
		t.Fatalf("unexpected CORS origins: %v", cfg.CORSAllow)
	}
}

func TestLoad_RequiresSecret(t *testing.T) {
	if _, err := load(context.Background(), envconfig.MapLookuper(map[string]string{})); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":     "s3cret",
		"ENV":            "Production",
		"TOKEN_DENYLIST": "true",
		"CORS_ORIGINS":   "https://a.example,https://b.example",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.IsProduction() || !cfg.Auth.TokenDenylist {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if len(cfg.CORSAllow) != 2 {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
}

// The token window and bcrypt cost are fixed; no variable may override them.
func TestConfig_TokenWindowAndCostAreNotConfigurable(t *testing.T) {
	var walk func(reflect.Type)
	walk = func(typ reflect.Type) {
		for i := 0; i < typ.NumField(); i++ {
			f := typ.Field(i)
			if f.Type.Kind() == reflect.Struct {
				walk(f.Type)
				continue
			}
			name := strings.TrimSpace(strings.SplitN(f.Tag.Get("env"), ",", 2)[0])
			if name == "JWT_TTL" || name == "BCRYPT_COST" {
				t.Fatalf("%s.%s must not be read from %s", typ.Name(), f.Name, name)
			}
		}
	}
	walk(reflect.TypeOf(Config{}))

	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":  "s3cret",
		"JWT_TTL":     "1h",
		"BCRYPT_COST": "4",
	}))
	if err != nil {
		t.Fatalf("unknown variables must be ignored: %v", err)
	}
	if cfg.Auth.JWTSecret != "s3cret" {
		t.Fatalf("unexpected auth config: %+v", cfg.Auth)
	}
}
