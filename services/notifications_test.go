package services

import (
	"context"
	"testing"

	"github.com/pitchmate/pitchmate-server/models"
)

func TestDBNotifierRecordsRow(t *testing.T) {
	db := newTestDB(t)
	n := NewDBNotifier(db, nil, nil)

	n.Emit(context.Background(), Event{
		Type:        EventInvite,
		RecipientID: 7,
		SenderID:    3,
		SubjectID:   12,
		Message:     "You have been invited to join a game",
	})

	var row models.Notification
	if err := db.First(&row).Error; err != nil {
		t.Fatalf("notification row missing: %v", err)
	}
	if row.RecipientID != 7 || row.SenderID != 3 || row.Type != EventInvite || row.SubjectID != 12 {
		t.Errorf("row = %+v", row)
	}
	if row.Read {
		t.Errorf("new notification marked read")
	}
}

func TestDBNotifierNeverFailsCaller(t *testing.T) {
	db := newTestDB(t)
	sqlDB, _ := db.DB()
	sqlDB.Close()

	n := NewDBNotifier(db, nil, nil)
	// closed DB: Emit must swallow the error, emission is best-effort
	n.Emit(context.Background(), Event{Type: EventInviteAccepted, RecipientID: 1})
}
