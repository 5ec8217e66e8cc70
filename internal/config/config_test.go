package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if c.Server.Addr != ":8080" || c.App.Env != "dev" || c.Log.Level != "info" {
		t.Fatalf("defaults de app: %+v", c)
	}
	if c.Stores.Primary.Driver != "memory" || c.Stores.Secondary.Driver != "memory" {
		t.Fatalf("defaults de stores: %+v", c.Stores)
	}
	if c.Migration.FlagSource.Kind != "static" {
		t.Fatalf("flag source default: %q", c.Migration.FlagSource.Kind)
	}
	if c.Migration.CacheTTL != 30*time.Second || c.Migration.SecondaryTimeout != 2*time.Second {
		t.Fatalf("timeouts default: %+v", c.Migration)
	}
	if c.Migration.SampleRate != 1.0 {
		t.Fatalf("sample rate default: %v", c.Migration.SampleRate)
	}
}

func TestLoad_FromYAML(t *testing.T) {
	path := writeConfig(t, `
app:
  env: prod
server:
  addr: ":9090"
migration:
  flag_source:
    kind: file
    path: /etc/nido/flags.yaml
  secondary_timeout: 500ms
  sample_rate: 0.25
  ignore_fields: [Revision]
`)
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.App.Env != "prod" || c.Server.Addr != ":9090" {
		t.Fatalf("%+v", c)
	}
	if c.Migration.FlagSource.Kind != "file" || c.Migration.FlagSource.Path != "/etc/nido/flags.yaml" {
		t.Fatalf("flag source: %+v", c.Migration.FlagSource)
	}
	if c.Migration.SecondaryTimeout != 500*time.Millisecond {
		t.Fatalf("secondary timeout: %v", c.Migration.SecondaryTimeout)
	}
	if c.Migration.SampleRate != 0.25 {
		t.Fatalf("sample rate: %v", c.Migration.SampleRate)
	}
	if len(c.Migration.IgnoreFields) != 1 || c.Migration.IgnoreFields[0] != "Revision" {
		t.Fatalf("ignore fields: %v", c.Migration.IgnoreFields)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("NIDO_ADDR", ":7070")
	t.Setenv("NIDO_PRIMARY_DSN", "postgres://legacy/nido")
	t.Setenv("NIDO_MIGRATION_SECONDARY_TIMEOUT", "750ms")
	t.Setenv("NIDO_MIGRATION_SHADOW_WORKERS", "8")

	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if c.Server.Addr != ":7070" {
		t.Fatalf("addr: %q", c.Server.Addr)
	}
	if c.Stores.Primary.Driver != "postgres" || c.Stores.Primary.DSN != "postgres://legacy/nido" {
		t.Fatalf("primary: %+v", c.Stores.Primary)
	}
	if c.Migration.SecondaryTimeout != 750*time.Millisecond {
		t.Fatalf("timeout: %v", c.Migration.SecondaryTimeout)
	}
	if c.Migration.ShadowWorkers != 8 {
		t.Fatalf("workers: %d", c.Migration.ShadowWorkers)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	cases := map[string]string{
		"kind desconocido": `
migration:
  flag_source:
    kind: zookeeper
`,
		"file sin path": `
migration:
  flag_source:
    kind: file
`,
		"redis sin addr": `
migration:
  flag_source:
    kind: redis
`,
		"http sin url": `
migration:
  flag_source:
    kind: http
`,
		"sample_rate fuera de rango": `
migration:
  sample_rate: 1.5
`,
		"postgres sin dsn": `
stores:
  primary:
    driver: postgres
`,
		"driver desconocido": `
stores:
  secondary:
    driver: cassandra
`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Fatal("config inválida aceptada")
			}
		})
	}
}
