package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"beatlab/internal/database"
	"beatlab/internal/domain"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "beatlab.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM purchases")
	db.Exec("DELETE FROM submissions")
	db.Exec("DELETE FROM beats")
	db.Exec("DELETE FROM users")

	// ================== USERS ==================
	log.Println("Creating admin user...")

	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin123"
	}
	adminHash, _ := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@beatlab.local",
		PasswordHash: string(adminHash),
		Name:         "Label Admin",
		Role:         domain.RoleAdmin,
		LoginMethod:  "password",
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatal("failed to create admin:", err)
	}

	// ================== BEATS ==================
	log.Println("Creating beats...")

	beats := []domain.Beat{
		{
			Title: "Midnight Vibes", Genre: "Hip Hop", Mood: "Dark", BPM: 85, Price: 2999,
			Description:  "Dark atmospheric hip hop beat with heavy 808s and melodic keys",
			AudioFileKey: "demo/midnight-vibes.mp3",
			AudioURL:     "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-1.mp3",
			LicenseType:  domain.LicenseBasic, IsActive: true,
		},
		{
			Title: "Summer Bounce", Genre: "Pop", Mood: "Energetic", BPM: 128, Price: 3999,
			Description:  "Upbeat pop instrumental with catchy melodies and bright synths",
			AudioFileKey: "demo/summer-bounce.mp3",
			AudioURL:     "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-2.mp3",
			LicenseType:  domain.LicensePremium, IsActive: true,
		},
		{
			Title: "Trap Anthem", Genre: "Trap", Mood: "Aggressive", BPM: 140, Price: 4999,
			Description:  "Hard-hitting trap beat with rolling hi-hats and booming bass",
			AudioFileKey: "demo/trap-anthem.mp3",
			AudioURL:     "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-3.mp3",
			LicenseType:  domain.LicenseExclusive, IsActive: true,
		},
		{
			Title: "Lo-Fi Dreams", Genre: "Lo-Fi", Mood: "Chill", BPM: 75, Price: 1999,
			Description:  "Relaxing lo-fi beat with vinyl crackle and jazzy chords",
			AudioFileKey: "demo/lofi-dreams.mp3",
			AudioURL:     "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-4.mp3",
			LicenseType:  domain.LicenseBasic, IsActive: true,
		},
		{
			Title: "R&B Smooth", Genre: "R&B", Mood: "Smooth", BPM: 90, Price: 3499,
			Description:  "Silky R&B instrumental with warm chords and soft percussion",
			AudioFileKey: "demo/rnb-smooth.mp3",
			AudioURL:     "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-5.mp3",
			LicenseType:  domain.LicensePremium, IsActive: true,
		},
	}

	for i := range beats {
		if err := db.Create(&beats[i]).Error; err != nil {
			log.Fatal("failed to create beat:", err)
		}
	}

	log.Printf("Seed complete: 1 admin, %d beats", len(beats))
}
