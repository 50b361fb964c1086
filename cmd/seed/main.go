package main

import (
	"log"
	"math/rand"
	"time"

	"backend-queuebot/internal/config"
	"backend-queuebot/internal/models"
)

// Seeder: isi ulang tabel staff dan satu hari antrian demo.
// Jalankan dengan: go run ./cmd/seed

type seedEntry struct {
	userID string
	staff  string
	status string
}

var staffSeed = []struct {
	name string
	role string
}{
	{"Alice", "Receptionist"},
	{"Bob", "Dentist"},
	{"Charlie", "Nurse"},
}

var queueSeed = []seedEntry{
	{"U001", "Alice", models.StatusInProgress},
	{"U002", "Alice", models.StatusWaiting},
	{"U003", "Alice", models.StatusCancelled},
	{"U004", "Alice", models.StatusWaiting},

	{"U005", "Bob", models.StatusWaiting},
	{"U006", "Bob", models.StatusWaiting},
	{"U007", "Bob", models.StatusWaiting},

	{"U008", "Charlie", models.StatusWaiting},
	{"U009", "Charlie", models.StatusWaiting},
}

func main() {
	config.LoadEnv()
	config.InitDB()
	defer config.CloseDB()

	// Bersihkan data lama. queue_entries duluan karena FK ke staff.
	if _, err := config.DB.Exec(`DELETE FROM queue_entries`); err != nil {
		log.Fatal("Gagal menghapus queue_entries:", err)
	}
	if _, err := config.DB.Exec(`DELETE FROM staff`); err != nil {
		log.Fatal("Gagal menghapus staff:", err)
	}

	staffIDs := make(map[string]int64)
	for _, s := range staffSeed {
		res, err := config.DB.Exec(`INSERT INTO staff (name, role) VALUES (?, ?)`, s.name, s.role)
		if err != nil {
			log.Fatal("Gagal insert staff:", err)
		}
		id, _ := res.LastInsertId()
		staffIDs[s.name] = id
		log.Println("Staff:", s.name, "-", s.role, "(id", id, ")")
	}

	loc := config.QueueLocation()
	now := time.Now().In(loc)
	today := now.Format("2006-01-02")

	// Entry dimulai jam 08:00 waktu lokal, jarak 5-15 menit.
	createdAt := time.Date(now.Year(), now.Month(), now.Day(), 8, 0, 0, 0, loc)

	inserted := 0
	for _, e := range queueSeed {
		updatedAt := createdAt
		if e.status != models.StatusWaiting {
			updatedAt = createdAt.Add(time.Duration(rand.Intn(5)+2) * time.Minute)
		}

		_, err := config.DB.Exec(`
			INSERT INTO queue_entries (user_id, staff_id, status, date, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			e.userID, staffIDs[e.staff], e.status, today, createdAt, updatedAt,
		)
		if err != nil {
			log.Fatal("Gagal insert queue entry:", err)
		}

		inserted++
		createdAt = createdAt.Add(time.Duration(rand.Intn(11)+5) * time.Minute)
	}

	log.Println("Seed selesai:", len(staffIDs), "staff,", inserted, "queue entries untuk", today)
}
