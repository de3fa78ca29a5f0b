package cfgloader_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rise-and-shine/datamask/cfgloader"
	"github.com/rise-and-shine/datamask/logger"
	"github.com/rise-and-shine/datamask/val"
)

type dbConfig struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" default:"5432"`
	Password string `yaml:"password" mask:"true"`
}

type appConfig struct {
	Name string   `yaml:"name" validate:"required"`
	DB   dbConfig `yaml:"db"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("CFGLOADER_TEST_PASSWORD", "s3cret")

	path := writeFile(t, t.TempDir(), "app.yaml", `
name: billing
db:
  host: localhost
  password: ${CFGLOADER_TEST_PASSWORD}
`)

	cfg, err := cfgloader.Load[appConfig](path, cfgloader.WithSilent())
	require.NoError(t, err)
	assert.Equal(t, appConfig{
		Name: "billing",
		DB:   dbConfig{Host: "localhost", Port: 5432, Password: "s3cret"},
	}, cfg)
}

func TestLoad_KeepsUnresolvedDollarText(t *testing.T) {
	t.Setenv("CFGLOADER_TEST_HOST", "db.internal")

	path := writeFile(t, t.TempDir(), "app.yaml", `
name: '${1}-$2-$NAME-${CFGLOADER_TEST_UNSET}'
db:
  host: ${CFGLOADER_TEST_HOST}
`)

	cfg, err := cfgloader.Load[appConfig](path, cfgloader.WithSilent())
	require.NoError(t, err)
	assert.Equal(t, "${1}-$2-$NAME-${CFGLOADER_TEST_UNSET}", cfg.Name)
	assert.Equal(t, "db.internal", cfg.DB.Host)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(func() { _ = os.Unsetenv("CFGLOADER_TEST_NAME") })

	envFile := writeFile(t, dir, ".env", "CFGLOADER_TEST_NAME=from-dotenv\n")
	path := writeFile(t, dir, "app.yaml", "name: ${CFGLOADER_TEST_NAME}\ndb:\n  host: h\n")

	cfg, err := cfgloader.Load[appConfig](path, cfgloader.WithSilent(), cfgloader.WithEnvFiles(envFile))
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Name)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		code    string
	}{
		{name: "validation", content: "db:\n  host: h\n", code: val.CodeValidationFailed},
		{name: "bad yaml", content: "name: [unterminated\n", code: cfgloader.CodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.name+".yaml", tt.content)
			_, err := cfgloader.Load[appConfig](path, cfgloader.WithSilent())
			require.Error(t, err)
			assert.True(t, errx.IsCodeIn(err, tt.code), err.Error())
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := cfgloader.Load[appConfig](filepath.Join(t.TempDir(), "nope.yaml"), cfgloader.WithSilent())
	require.Error(t, err)
	assert.True(t, errx.IsCodeIn(err, cfgloader.CodeConfigNotFound))
	assert.Equal(t, errx.T_NotFound, errx.GetType(err))
}

func TestLoad_PointerType(t *testing.T) {
	_, err := cfgloader.Load[*appConfig]("unused.yaml", cfgloader.WithSilent())
	require.Error(t, err)
	assert.True(t, errx.IsCodeIn(err, cfgloader.CodeInvalidConfig))
}

func TestMustLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config/test.yaml", "name: svc\ndb:\n  host: db\n  port: 6543\n")
	t.Chdir(dir)
	t.Setenv("ENVIRONMENT", cfgloader.EnvTest)

	cfg := cfgloader.MustLoad[appConfig](cfgloader.WithSilent())
	assert.Equal(t, "svc", cfg.Name)
	assert.Equal(t, 6543, cfg.DB.Port)
}

func TestRender_MasksTaggedFields(t *testing.T) {
	out, err := cfgloader.Render(appConfig{
		Name: "svc",
		DB:   dbConfig{Host: "db", Port: 1, Password: "secret"},
	})
	require.NoError(t, err)

	assert.NotContains(t, out, "secret")
	assert.Contains(t, out, "******")
	assert.Contains(t, out, "host: db")
	assert.Contains(t, out, "port: 1")
	assert.Less(t, strings.Index(out, "name:"), strings.Index(out, "db:"))
	assert.Less(t, strings.Index(out, "host:"), strings.Index(out, "password:"))
}

func TestRender_NoTaggedFields(t *testing.T) {
	type plain struct {
		Level string `yaml:"level"`
	}

	out, err := cfgloader.Render(plain{Level: "info"})
	require.NoError(t, err)
	assert.Equal(t, "level: info\n", out)
}

func TestLoad_PrintsMaskedConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "app.yaml", "name: svc\ndb:\n  host: h\n  password: hunter2\n")

	core, logs := observer.New(zapcore.InfoLevel)
	_, err := cfgloader.Load[appConfig](path, cfgloader.WithLogger(logger.FromZap(zap.New(core))))
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Message, "Loaded config:\n"))
	assert.NotContains(t, entries[0].Message, "hunter2")
	assert.Contains(t, entries[0].Message, "*******")
}
