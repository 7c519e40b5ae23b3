//go:build integration

package tester

import (
	"context"
	"testing"

	"github.com/emrgen/notes/internal/model"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const mysqlImage = "mysql:8.0.36"

// SetupMySQL starts a mysql container, opens a migrated gorm DB on it and
// terminates the container when the test ends.
func SetupMySQL(t testing.TB) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := mysql.Run(ctx, mysqlImage,
		mysql.WithDatabase("notes"),
		mysql.WithUsername("notes"),
		mysql.WithPassword("notes"),
	)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminate mysql container: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("start mysql container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "parseTime=true", "charset=utf8mb4")
	if err != nil {
		t.Fatalf("mysql connection string: %v", err)
	}

	db, err := gorm.Open(gormmysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open mysql db: %v", err)
	}

	if err := model.Migrate(db); err != nil {
		t.Fatalf("migrate mysql db: %v", err)
	}

	return db
}
