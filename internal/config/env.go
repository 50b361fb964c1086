package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println(".env tidak ditemukan, pakai env system")
	}
}

func GetEnv(key string, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// QueueLocation: timezone untuk menentukan "hari antrian" (YYYY-MM-DD).
// Default Asia/Jakarta, override lewat QUEUE_TZ.
func QueueLocation() *time.Location {
	tz := GetEnv("QUEUE_TZ", "Asia/Jakarta")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Println("Timezone", tz, "tidak valid, pakai Local")
		return time.Local
	}
	return loc
}
