package mysql

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kebairia/sqlbackup/internal/config"
)

func TestParseDatabaseList(t *testing.T) {
	out := "Database\ninformation_schema\napp_db\nanalytics\n"
	assert.Equal(t,
		[]string{"information_schema", "app_db", "analytics"},
		parseDatabaseList(out),
		"the header line is not a database")
}

func TestParseDatabaseListEmpty(t *testing.T) {
	assert.Nil(t, parseDatabaseList(""))
	assert.Nil(t, parseDatabaseList("Database\n"))
}

func TestParseDatabaseListTrimsWhitespace(t *testing.T) {
	out := "Database\n app_db \n\nanalytics\n"
	assert.Equal(t, []string{"app_db", "analytics"}, parseDatabaseList(out))
}

func TestDumpArgsDefaults(t *testing.T) {
	c := &Client{defaultsFile: "/tmp/client.cnf"}
	args := c.dumpArgs("app_db")

	assert.Contains(t, args, "--defaults-extra-file=/tmp/client.cnf")
	assert.Contains(t, args, "--default-character-set=utf8mb4")
	assert.Contains(t, args, "--single-transaction")
	assert.Contains(t, args, "--force")
	assert.Contains(t, args, "--opt")
	assert.Contains(t, args, "--column-statistics=0", "statistics are suppressed by default")
	assert.NotContains(t, args, "--routines")
	assert.NotContains(t, args, "--events")

	// The database selector comes last.
	require.GreaterOrEqual(t, len(args), 2)
	assert.Equal(t, "--databases", args[len(args)-2])
	assert.Equal(t, "app_db", args[len(args)-1])
}

func TestDumpArgsExportFlags(t *testing.T) {
	c := &Client{
		defaultsFile: "/tmp/client.cnf",
		export: config.ExportConfig{
			IncludeRoutines:  true,
			IncludeEvents:    true,
			ColumnStatistics: true,
		},
	}
	args := c.dumpArgs("app_db")

	assert.Contains(t, args, "--routines")
	assert.Contains(t, args, "--events")
	assert.NotContains(t, args, "--column-statistics=0")
}

func TestNewClientWritesDefaultsFile(t *testing.T) {
	var cfg config.Config
	cfg.MySQL = config.MySQLConfig{
		Host:          "db.example.com",
		User:          "backup",
		Password:      "secret",
		MySQLPath:     "mysql",
		MySQLDumpPath: "mysqldump",
	}

	client, err := NewClient(cfg)
	require.NoError(t, err)

	data, err := os.ReadFile(client.defaultsFile)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "[client]")
	assert.Contains(t, content, "user = backup")
	assert.Contains(t, content, "password = secret")
	assert.Contains(t, content, "host = db.example.com")

	path := client.defaultsFile
	require.NoError(t, client.Close())
	assert.NoFileExists(t, path, "Close removes the defaults file")
}
