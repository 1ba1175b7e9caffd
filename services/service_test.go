package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pitchmate/pitchmate-server/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(
		&models.User{},
		&models.Facility{},
		&models.Field{},
		&models.Reservation{},
		&models.Post{},
		&models.PostImage{},
		&models.Invitation{},
		&models.Story{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	u := models.User{Name: name, Email: name + "@example.com", Password: "x"}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// seedReservation creates facility, field and a reservation with the
// given deposit, ending at end.
func seedReservation(t *testing.T, db *gorm.DB, user models.User, deposit float64, end time.Time) models.Reservation {
	t.Helper()
	fac := models.Facility{OwnerID: user.ID, Name: "City Sports Center", Address: "12 Main St"}
	if err := db.Create(&fac).Error; err != nil {
		t.Fatalf("seed facility: %v", err)
	}
	field := models.Field{FacilityID: fac.ID, Name: "Pitch 1", SportType: "football", PricePerHour: 30}
	if err := db.Create(&field).Error; err != nil {
		t.Fatalf("seed field: %v", err)
	}
	r := models.Reservation{
		UserID:        user.ID,
		FieldID:       field.ID,
		StartTime:     end.Add(-2 * time.Hour),
		EndTime:       end,
		DepositAmount: deposit,
		Status:        "confirmed",
	}
	if err := db.Create(&r).Error; err != nil {
		t.Fatalf("seed reservation: %v", err)
	}
	return r
}

// recorderNotifier captures emitted events for assertions.
type recorderNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorderNotifier) Emit(ctx context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorderNotifier) byType(typ string) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func newService(t *testing.T, db *gorm.DB) (*MatchmakingService, *recorderNotifier) {
	t.Helper()
	rec := &recorderNotifier{}
	return NewMatchmakingService(db, NewReservationStore(db), rec, nil), rec
}
