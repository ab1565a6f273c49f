package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Test Biz")
	cfg.Currency.Code = "USD"
	cfg.Import.Dir = "statements"

	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default("My Company")

	assert.Equal(t, "My Company", cfg.Ledger.Name)
	assert.Equal(t, "bankledger.db", cfg.Database.Path)
	assert.Equal(t, "EGP", cfg.Currency.Code)
	assert.Equal(t, "en", cfg.Currency.Locale)
	assert.Equal(t, "import", cfg.Import.Dir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("ledger:\n  name: Shop\ncurrency:\n  code: USD\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Shop", cfg.Ledger.Name)
	assert.Equal(t, "USD", cfg.Currency.Code)
	assert.Equal(t, "bankledger.db", cfg.Database.Path)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default("Test Biz")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Test Biz")
	assert.Contains(t, contents, "path: bankledger.db")
	assert.Contains(t, contents, "code: EGP")
	assert.Contains(t, contents, "format: text")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvDB:       "/tmp/other.db",
		EnvCurrency: "usd",
		EnvLogLevel: "",
	}
	cfg := Default("x")
	cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	assert.Equal(t, "/tmp/other.db", cfg.Database.Path)
	assert.Equal(t, "USD", cfg.Currency.Code)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, LoadEnvFile(filepath.Join(dir, ".env")))

	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("BANKLEDGER_TEST_ONLY=from-file\n"), 0o644))
	t.Setenv("BANKLEDGER_TEST_ONLY", "")
	os.Unsetenv("BANKLEDGER_TEST_ONLY")

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv("BANKLEDGER_TEST_ONLY"))
}

func TestResolve(t *testing.T) {
	cfg := Default("x")
	cfg.Resolve("/data/ledger")
	assert.Equal(t, filepath.Join("/data/ledger", "bankledger.db"), cfg.Database.Path)
	assert.Equal(t, filepath.Join("/data/ledger", "import"), cfg.Import.Dir)

	cfg.Database.Path = "/abs/x.db"
	cfg.Resolve("/elsewhere")
	assert.Equal(t, "/abs/x.db", cfg.Database.Path)
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := Default("x")
	cfg.Database.Path = " "
	cfg.Currency.Code = "ZZZ"
	cfg.Currency.Locale = "fr"
	cfg.Log.Level = "loud"
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"database.path", "currency.code", "currency.locale", "log.level", "log.format"} {
		assert.Contains(t, err.Error(), want)
	}
}
