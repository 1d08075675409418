package eventdb

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hackos/hackd/pkg/eventdb/model"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func MakeDSNFromEnv() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		os.Getenv("DB_USERNAME"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_DATABASE"))
}

const maxDBRetries = 5

// MustConnectToDB will attempt to connect to the database maxDBRetries times.
// If it isn't successful after that number of retries then it will call
// log.Fatalf(), which will cause the server to exit. Between retry attempts it
// will sleep for 3 seconds. When DB_SQLITE_PATH is set a sqlite database at
// that path is used instead of mysql, for small deployments.
func MustConnectToDB() *gorm.DB {
	var (
		err error
		db  *gorm.DB
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	if sqlitePath := os.Getenv("DB_SQLITE_PATH"); sqlitePath != "" {
		db, err = gorm.Open(sqlite.Open(sqlitePath), gormConfig)
		if err != nil {
			log.Fatalf("Failed to open sqlite db (%s): %s", sqlitePath, err)
		}
		return db
	}

	retryCount := 1
	for {
		db, err = gorm.Open(mysql.Open(MakeDSNFromEnv()), gormConfig)
		switch {
		case err == nil:
			return db
		case retryCount >= maxDBRetries:
			log.Fatalf("Failed to open db (%s): %s", MakeDSNFromEnv(), err)
		default:
			retryCount++
			time.Sleep(3 * time.Second)
		}
	}
}

// Migrate creates or updates the four record sets.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Team{},
		&model.GlobalConfig{},
		&model.Ticket{},
		&model.Announcement{},
	)
}
