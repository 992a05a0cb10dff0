package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	// viper ignora variables vacías: aplican los valores por defecto
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("CRM_DEFAULT_DUE_DAYS", "")
	t.Setenv("CRM_RECONCILE_WINDOW_DAYS", "")
	t.Setenv("CSV_DEFAULT_FORMAT", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, 30, cfg.CRM.DefaultDueDays)
	assert.Equal(t, 3*24*time.Hour, cfg.CRM.ReconcileWindow())
	assert.Equal(t, "rfc4180", cfg.CRM.CSVDefaultFormat)
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("CRM_DEFAULT_DUE_DAYS", "45")
	t.Setenv("CRM_RECONCILE_WINDOW_DAYS", "5")
	t.Setenv("CSV_DEFAULT_FORMAT", "LEGACY")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, 45, cfg.CRM.DefaultDueDays)
	assert.Equal(t, 5*24*time.Hour, cfg.CRM.ReconcileWindow())
	assert.Equal(t, "legacy", cfg.CRM.CSVDefaultFormat)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "crm", Password: "p@ss/w", DBName: "crm", SSLMode: "disable"}
	assert.Equal(t, "postgres://crm:p%40ss%2Fw@db:5432/crm?sslmode=disable", c.DSN())
	c.DatabaseURL = "postgres://otra"
	assert.Equal(t, "postgres://otra", c.ConnectionString())
}
