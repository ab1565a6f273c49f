package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankledger-dev/bankledger/internal/commands"
	"github.com/bankledger-dev/bankledger/internal/config"
	"github.com/bankledger-dev/bankledger/internal/reconcile"
	"github.com/bankledger-dev/bankledger/internal/reports"
	"github.com/bankledger-dev/bankledger/internal/store"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

// ledgerAt initializes a ledger in a temp dir and returns a function that
// runs commands against it.
func ledgerAt(t *testing.T, seed bool) (dir string, exec func(args ...string) (string, error)) {
	t.Helper()
	dir = t.TempDir()
	args := []string{"init", dir, "--name", "Test Biz"}
	if seed {
		args = append(args, "--seed")
	}
	_, err := run(t, args...)
	require.NoError(t, err)

	cfg := filepath.Join(dir, config.FileName)
	return dir, func(args ...string) (string, error) {
		return run(t, append([]string{"--config", cfg}, args...)...)
	}
}

func TestInit_CreatesLayout(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "init", dir, "--name", "Test Biz", "--currency", "USD")
	require.NoError(t, err)
	assert.Contains(t, out, `Initialized ledger "Test Biz"`)

	for _, d := range []string{"import", filepath.Join("import", "processed")} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir())
	}
	for _, f := range []string{config.FileName, ".gitignore", "bankledger.db"} {
		assert.FileExists(t, filepath.Join(dir, f))
	}

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "Test Biz", cfg.Ledger.Name)
	assert.Equal(t, "USD", cfg.Currency.Code)
	assert.Equal(t, "bankledger.db", cfg.Database.Path)
}

func TestInit_RefusesExisting(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "init", dir, "--name", "One")
	require.NoError(t, err)

	_, err = run(t, "init", dir, "--name", "Two")
	assert.ErrorContains(t, err, "already exists")
}

func TestInit_RejectsUnknownCurrency(t *testing.T) {
	_, err := run(t, "init", t.TempDir(), "--name", "X", "--currency", "ZZZ")
	assert.Error(t, err)
}

func TestInit_Seed(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "init", dir, "--name", "Demo", "--seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Added 2 sample banks")

	out, err = run(t, "--config", filepath.Join(dir, config.FileName), "bank", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "National Bank of Egypt")
	assert.Contains(t, out, "Banque Misr")
}

func TestCommands_RequireInit(t *testing.T) {
	_, err := run(t, "--config", filepath.Join(t.TempDir(), config.FileName), "bank", "list")
	assert.ErrorContains(t, err, "bankledger init")
}

func TestBank_Lifecycle(t *testing.T) {
	_, ledger := ledgerAt(t, false)

	out, err := ledger("bank", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No banks yet")

	out, err = ledger("bank", "add", "--name", "CIB", "--iban", "EG380019000500000000263180002", "--opening", "1000.50")
	require.NoError(t, err)
	assert.Contains(t, out, "Added bank 1: CIB")

	_, err = ledger("bank", "add", "--name", "CIB")
	assert.ErrorContains(t, err, "name")

	_, err = ledger("bank", "add", "--name", "Bad", "--opening", "12abc")
	assert.ErrorContains(t, err, "--opening")

	out, err = ledger("bank", "edit", "1", "--name", "CIB Main")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated bank 1: CIB Main")

	_, err = ledger("entry", "add", "--bank", "1", "--type", "debit", "--amount", "200", "--desc", "Deposit", "--date", "2024-07-01")
	require.NoError(t, err)

	_, err = ledger("bank", "delete", "1")
	require.ErrorIs(t, err, store.ErrBankHasEntries)

	out, err = ledger("bank", "summary", "1", "--json")
	require.NoError(t, err)
	var sum reports.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &sum))
	assert.True(t, decimal.RequireFromString("1200.5").Equal(sum.CurrentBalance))
	assert.Equal(t, 1, sum.EntryCount)

	out, err = ledger("bank", "delete", "1", "--cascade")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted bank 1 and its 1 entries")

	_, err = ledger("bank", "summary", "1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestBank_DeleteEmpty(t *testing.T) {
	_, ledger := ledgerAt(t, false)
	_, err := ledger("bank", "add", "--name", "QNB")
	require.NoError(t, err)

	out, err := ledger("bank", "delete", "1")
	require.NoError(t, err)
	assert.Equal(t, "Deleted bank 1\n", out)

	_, err = ledger("bank", "delete", "1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestLogLevelOff(t *testing.T) {
	dir, _ := ledgerAt(t, false)
	cfg := filepath.Join(dir, config.FileName)

	stderrOf := func(level string) string {
		cmd := commands.NewRootCommand()
		var stdout, stderr bytes.Buffer
		cmd.SetOut(&stdout)
		cmd.SetErr(&stderr)
		cmd.SetArgs([]string{"--config", cfg, "--log-level", level, "bank", "add", "--name", "Bank " + level})
		require.NoError(t, cmd.Execute())
		return stderr.String()
	}

	assert.Contains(t, stderrOf("info"), "Bank created")
	assert.Empty(t, stderrOf("off"))
}

func TestEntry_AddEditList(t *testing.T) {
	_, ledger := ledgerAt(t, false)
	_, err := ledger("bank", "add", "--name", "CIB")
	require.NoError(t, err)

	out, err := ledger("entry", "add", "--bank", "1", "--type", "credit", "--amount", "75.25", "--desc", "Fuel", "--date", "2024-09-02")
	require.NoError(t, err)
	assert.Contains(t, out, "Added credit entry 1")

	_, err = ledger("entry", "add", "--bank", "1", "--type", "credit", "--amount", "-5", "--desc", "Bad")
	assert.Error(t, err)

	_, err = ledger("entry", "add", "--bank", "9", "--type", "debit", "--amount", "5", "--desc", "Nowhere")
	assert.ErrorContains(t, err, "bankId")

	out, err = ledger("entry", "edit", "1", "--desc", "Fuel and tolls")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated entry 1")

	out, err = ledger("entry", "list", "--bank", "1", "--type", "credit")
	require.NoError(t, err)
	assert.Contains(t, out, "Fuel and tolls")
	assert.Contains(t, out, "2024-09-02")

	out, err = ledger("entry", "list", "--type", "debit")
	require.NoError(t, err)
	assert.Contains(t, out, "No entries match")

	_, err = ledger("entry", "list", "--type", "refund")
	assert.ErrorContains(t, err, "--type")

	_, err = ledger("entry", "delete", "1")
	require.NoError(t, err)
	_, err = ledger("entry", "delete", "1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntry_Export(t *testing.T) {
	dir, ledger := ledgerAt(t, true)

	out, err := ledger("entry", "export", "--bank", "1", "--out", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 5 entries")
	assert.FileExists(t, filepath.Join(dir, "National Bank of Egypt-entries.xlsx"))

	csvPath := filepath.Join(dir, "nbe.csv")
	_, err = ledger("entry", "export", "--bank", "2", "--csv", "--out", csvPath)
	require.NoError(t, err)
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(string(data), "\n"))
}

func TestReconcile(t *testing.T) {
	_, ledger := ledgerAt(t, true)

	out, err := ledger("reconcile", "--bank", "1", "--date", "2024-08-05", "--statement", "17550", "--json")
	require.NoError(t, err)

	var res reconcile.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, decimal.NewFromInt(14550).Equal(res.OpeningForDay))
	assert.True(t, decimal.NewFromInt(3000).Equal(res.NetForDay))
	assert.True(t, decimal.NewFromInt(17550).Equal(res.SystemBalance))
	assert.True(t, res.Matched)

	out, err = ledger("reconcile", "--bank", "1", "--date", "2024-08-05", "--statement", "17000")
	require.NoError(t, err)
	assert.Contains(t, out, "MISMATCH")
}

func TestReportYearly(t *testing.T) {
	dir, ledger := ledgerAt(t, true)

	out, err := ledger("report", "yearly", "--fiscal-year", "2024/2025", "--json")
	require.NoError(t, err)

	var rep reports.YearlyReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "2024/2025", rep.Label)
	require.Len(t, rep.PerBank, 2)
	assert.True(t, decimal.NewFromInt(13550).Equal(rep.PerBank[0].FinalBalance))
	assert.True(t, decimal.NewFromInt(5450).Equal(rep.PerBank[1].FinalBalance))
	assert.True(t, decimal.NewFromInt(19000).Equal(rep.GrandTotals.FinalBalance))

	_, err = ledger("report", "yearly", "--fiscal-year", "2024/2026")
	assert.ErrorContains(t, err, "did you mean")

	out, err = ledger("report", "yearly", "--date", "2024-08-01", "--xlsx", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")
	assert.FileExists(t, filepath.Join(dir, "bank-balances-fiscal-2024-2025.xlsx"))
}

func TestReportMonthly(t *testing.T) {
	_, ledger := ledgerAt(t, true)

	out, err := ledger("report", "monthly", "--bank", "2", "--date", "2024-12-31", "--json")
	require.NoError(t, err)

	var rep struct {
		Label    string            `json:"label"`
		PerMonth []json.RawMessage `json:"perMonth"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "2024/2025", rep.Label)
	assert.Len(t, rep.PerMonth, 12)

	_, err = ledger("report", "monthly", "--date", "2024-12-31")
	assert.Error(t, err)
}

func TestReportYears(t *testing.T) {
	_, ledger := ledgerAt(t, false)
	_, err := ledger("settings", "fixed-date", "2025-03-10")
	require.NoError(t, err)

	out, err := ledger("report", "years", "--count", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "2024/2025")
	assert.Contains(t, out, "2023/2024")
	assert.Contains(t, out, "2022/2023")
	assert.NotContains(t, out, "2021/2022")
}

func TestSettings(t *testing.T) {
	_, ledger := ledgerAt(t, false)

	out, err := ledger("settings", "fiscal", "1", "12")
	require.NoError(t, err)
	assert.Contains(t, out, "month 1 to month 12")

	_, err = ledger("settings", "fiscal", "0", "12")
	assert.Error(t, err)

	_, err = ledger("settings", "fixed-date", "2025-05-05")
	require.NoError(t, err)

	out, err = ledger("settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-05-05")
	assert.Contains(t, out, "January")

	_, err = ledger("bank", "add", "--name", "CIB")
	require.NoError(t, err)
	out, err = ledger("entry", "add", "--bank", "1", "--type", "debit", "--amount", "10", "--desc", "Cash")
	require.NoError(t, err)
	assert.Contains(t, out, "on 2025-05-05")

	out, err = ledger("settings", "fixed-date", "--off")
	require.NoError(t, err)
	assert.Contains(t, out, "turned off")

	out, err = ledger("settings", "fixed-date")
	require.NoError(t, err)
	assert.Contains(t, out, "Fixed date: off")
}

func TestBackup_RoundTrip(t *testing.T) {
	srcDir, src := ledgerAt(t, true)
	backupPath := filepath.Join(srcDir, "backup.json")

	out, err := src("backup", "export", "--out", backupPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Backed up 2 banks and 8 entries")

	_, dst := ledgerAt(t, false)
	_, err = dst("backup", "import", backupPath)
	assert.ErrorContains(t, err, "--confirm")

	out, err = dst("backup", "import", backupPath, "--confirm")
	require.NoError(t, err)
	assert.Contains(t, out, "Restored 2 banks and 8 entries")

	out, err = dst("bank", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Banque Misr")

	bad := filepath.Join(srcDir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"banks": 3}`), 0o644))
	_, err = dst("backup", "import", bad, "--confirm")
	require.Error(t, err)

	out, err = dst("bank", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Banque Misr")
}

func TestImport_Run(t *testing.T) {
	dir, ledger := ledgerAt(t, false)
	_, err := ledger("bank", "add", "--name", "Chase", "--opening", "12500")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join("..", "importer", "testdata", "chase_checking.csv"))
	require.NoError(t, err)
	queued := filepath.Join(dir, "import", "chase.csv")
	require.NoError(t, os.WriteFile(queued, data, 0o644))

	out, err := ledger("import", "scan")
	require.NoError(t, err)
	assert.Contains(t, out, "chase.csv")

	out, err = ledger("import", "run", "chase.csv", "--bank", "1", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Would import 6 entries")
	assert.FileExists(t, queued)

	out, err = ledger("import", "run", "chase.csv", "--bank", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 6 entries")
	assert.NoFileExists(t, queued)
	processed := filepath.Join(dir, "import", "processed", "chase.csv")
	assert.FileExists(t, processed)

	out, err = ledger("import", "run", processed, "--bank", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 0 entries")
	assert.Contains(t, out, "6 already recorded")
	assert.FileExists(t, processed)

	// Queueing the same statement again archives it beside the first copy.
	require.NoError(t, os.WriteFile(queued, data, 0o644))
	out, err = ledger("import", "run", "chase.csv", "--bank", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 0 entries")
	assert.FileExists(t, processed)
	assert.FileExists(t, filepath.Join(dir, "import", "processed", "chase-1.csv"))

	out, err = ledger("bank", "summary", "1", "--json")
	require.NoError(t, err)
	var sum reports.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &sum))
	assert.True(t, decimal.RequireFromString("15872.79").Equal(sum.CurrentBalance))

	_, err = ledger("import", "run", "chase.csv", "--bank", "1", "--format", "ofx")
	assert.ErrorContains(t, err, "unknown format")
}
