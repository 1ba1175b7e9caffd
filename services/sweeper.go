package services

import (
	"context"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pitchmate/pitchmate-server/models"
)

// MediaStorage relocates a media object to its archival location.
// Implementations fall back to copy+delete when an atomic move is not
// available.
type MediaStorage interface {
	Relocate(src, dst string) error
}

// SweepResult summarizes one sweep pass.
type SweepResult struct {
	Scanned  int
	Affected int
	Failed   int
}

// Sweeper owns the two recurring maintenance passes: hiding matchmaking
// posts whose reservation window has ended, and archiving expired
// stories. Both are re-entrant and idempotent; they run on timers and
// race freely with foreground requests.
type Sweeper struct {
	db         *gorm.DB
	media      MediaStorage
	mediaDir   string
	archiveDir string
	log        *zap.Logger
}

func NewSweeper(db *gorm.DB, media MediaStorage, mediaDir, archiveDir string, log *zap.Logger) *Sweeper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sweeper{db: db, media: media, mediaDir: mediaDir, archiveDir: archiveDir, log: log}
}

// HideExpiredPosts flips every visible, not-yet-auto-hidden post whose
// reservation ended in the past to hidden in one bulk update. Running it
// again with no new expirations affects zero rows.
func (s *Sweeper) HideExpiredPosts(ctx context.Context) SweepResult {
	sub := s.db.Model(&models.Reservation{}).
		Select("id").
		Where("end_time < ?", time.Now())

	res := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("status = ? AND auto_hidden = ?", models.PostVisible, false).
		Where("reservation_id IN (?)", sub).
		Updates(map[string]interface{}{"status": models.PostHidden, "auto_hidden": true})

	out := SweepResult{Affected: int(res.RowsAffected), Scanned: int(res.RowsAffected)}
	if res.Error != nil {
		s.log.Error("auto-hide sweep failed", zap.Error(res.Error))
		out.Failed = 1
		return out
	}
	if out.Affected > 0 {
		s.log.Info("auto-hide sweep", zap.Int("posts_hidden", out.Affected))
	}
	return out
}

// ArchiveExpiredStories picks up active or expired stories whose expiry
// has passed, relocates their media, then marks the successfully
// processed ones archived in one statement. A media failure skips only
// that story: if it was still active it advances to expired so the next
// pass retries the move.
func (s *Sweeper) ArchiveExpiredStories(ctx context.Context) SweepResult {
	var stories []models.Story
	err := s.db.WithContext(ctx).
		Where("status IN ? AND expires_at < ?", []string{models.StoryActive, models.StoryExpired}, time.Now()).
		Find(&stories).Error
	if err != nil {
		s.log.Error("archive sweep select failed", zap.Error(err))
		return SweepResult{Failed: 1}
	}

	out := SweepResult{Scanned: len(stories)}
	var archived []uint
	var retry []uint

	for _, st := range stories {
		if st.MediaPath != nil && *st.MediaPath != "" {
			src := filepath.Join(s.mediaDir, *st.MediaPath)
			dst := filepath.Join(s.archiveDir, *st.MediaPath)
			if err := s.media.Relocate(src, dst); err != nil {
				s.log.Warn("story media relocate failed",
					zap.Uint("story", st.ID), zap.String("path", *st.MediaPath), zap.Error(err))
				out.Failed++
				if st.Status == models.StoryActive {
					retry = append(retry, st.ID)
				}
				continue
			}
		}
		archived = append(archived, st.ID)
	}

	if len(archived) > 0 {
		res := s.db.WithContext(ctx).Model(&models.Story{}).
			Where("id IN ?", archived).
			Update("status", models.StoryArchived)
		if res.Error != nil {
			s.log.Error("archive sweep update failed", zap.Error(res.Error))
			out.Failed += len(archived)
		} else {
			out.Affected = int(res.RowsAffected)
		}
	}
	if len(retry) > 0 {
		// forward-only: failed items still leave active so they are retried
		if err := s.db.WithContext(ctx).Model(&models.Story{}).
			Where("id IN ? AND status = ?", retry, models.StoryActive).
			Update("status", models.StoryExpired).Error; err != nil {
			s.log.Error("archive sweep expire update failed", zap.Error(err))
		}
	}

	if out.Scanned > 0 {
		s.log.Info("archive sweep",
			zap.Int("scanned", out.Scanned), zap.Int("archived", out.Affected), zap.Int("skipped", out.Failed))
	}
	return out
}
