package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/warbler/config"
)

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"warbler.db", "warbler.db?_foreign_keys=on"},
		{"file:x?mode=memory", "file:x?mode=memory&_foreign_keys=on"},
		{"warbler.db?_foreign_keys=off", "warbler.db?_foreign_keys=off"},
		{"warbler.db?_fk=1", "warbler.db?_fk=1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SQLiteDSN(tt.in))
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("mysql", "dsn", false)
	assert.Error(t, err)
}

func TestInitDB_SQLiteMigratesAndPings(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          "file:initdb_test?mode=memory&cache=shared",
		MaxOpenConns: 1,
		AutoMigrate:  true,
	}}
	db, err := InitDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	require.NoError(t, Ping(db))
	for _, table := range []string{"users", "follows", "messages", "likes"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	var fk int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)
}
