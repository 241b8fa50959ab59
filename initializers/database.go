package initializers

import (
	"database/sql"
	"log"
	"os"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/lib/pq"
)

var DB *goqu.Database

func ConnectDB() {
	dsn := os.Getenv("DB_URL")

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal(err)
	}

	db.SetMaxOpenConns(GetIntEnvOrDefault("DB_MAX_OPEN_CONNS", 25))
	db.SetMaxIdleConns(GetIntEnvOrDefault("DB_MAX_IDLE_CONNS", 25))
	db.SetConnMaxLifetime(time.Duration(GetIntEnvOrDefault("DB_CONN_MAX_LIFETIME_MINUTES", 30)) * time.Minute)

	err = db.Ping()
	if err != nil {
		log.Fatal(err)
	}

	if err := RunMigrations(db); err != nil {
		log.Fatal(err)
	}

	DB = goqu.New("postgres", db)
}
