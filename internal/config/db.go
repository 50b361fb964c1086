package config

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

var DB *sql.DB

func InitDB() {
	auth := os.Getenv("DB_USER")
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		auth = fmt.Sprintf("%s:%s", auth, pass)
	}

	// parseTime=true supaya DATETIME jadi time.Time
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true",
		auth,
		GetEnv("DB_HOST", "127.0.0.1"),
		GetEnv("DB_PORT", "3306"),
		os.Getenv("DB_NAME"),
	)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatal("Gagal buka koneksi MySQL:", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal("MySQL tidak nyambung:", err)
	}

	DB = db
	log.Println("MySQL connected (", os.Getenv("DB_NAME"), ")")
}

func CloseDB() {
	if DB != nil {
		DB.Close()
	}
}
