package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pitchmate/pitchmate-server/models"
)

const (
	// MaxPostImages caps attached images; extra ones are dropped silently.
	MaxPostImages = 5
	// DefaultMaxPlayers applies when the request leaves max_players unset.
	DefaultMaxPlayers = 10
)

// MatchmakingService turns paid reservations into join-this-game posts and
// runs the invitation lifecycle against the post's player counter.
type MatchmakingService struct {
	db           *gorm.DB
	reservations ReservationStore
	notifier     Notifier
	log          *zap.Logger
}

func NewMatchmakingService(db *gorm.DB, reservations ReservationStore, notifier Notifier, log *zap.Logger) *MatchmakingService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &MatchmakingService{db: db, reservations: reservations, notifier: notifier, log: log}
}

// CreatePost binds a reservation to a new matchmaking post. The post and
// the owner's accepted participation are committed in one transaction;
// image rows are attached afterwards, best-effort. The returned post is
// re-read through the joined read path.
func (s *MatchmakingService) CreatePost(ctx context.Context, ownerID, reservationID uint, content string, maxPlayers int, imageURLs []string) (*models.Post, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is empty", ErrPreconditionFailed)
	}
	if maxPlayers <= 0 {
		maxPlayers = DefaultMaxPlayers
	}

	now := time.Now()
	rid := reservationID
	post := models.Post{
		UserID:         ownerID,
		ReservationID:  &rid,
		Content:        content,
		MaxPlayers:     maxPlayers,
		CurrentPlayers: 1,
		Status:         models.PostVisible,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res, err := s.reservations.WithTx(tx).GetReservation(ctx, reservationID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("%w: reservation %d", ErrNotFound, reservationID)
			}
			return err
		}
		if res.DepositAmount <= 0 {
			return fmt.Errorf("%w: reservation %d has no deposit", ErrPreconditionFailed, reservationID)
		}

		var bound int64
		if err := tx.Model(&models.Post{}).Where("reservation_id = ?", reservationID).Count(&bound).Error; err != nil {
			return err
		}
		if bound > 0 {
			return fmt.Errorf("%w: reservation %d already has a post", ErrPreconditionFailed, reservationID)
		}

		if err := tx.Create(&post).Error; err != nil {
			return err
		}

		// the owner fills the first slot
		owner := models.Invitation{
			PostID:      post.ID,
			UserID:      ownerID,
			InviterID:   ownerID,
			Status:      models.InviteAccepted,
			InvitedAt:   now,
			RespondedAt: &now,
		}
		return tx.Create(&owner).Error
	})
	if err != nil {
		// the unique index on reservation_id backstops concurrent creates
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: reservation %d already has a post", ErrPreconditionFailed, reservationID)
		}
		return nil, err
	}

	s.attachImages(ctx, post.ID, imageURLs)

	return s.GetPost(ctx, post.ID)
}

// attachImages inserts image rows outside the post transaction. A failed
// insert is logged and skipped; the post stands either way.
func (s *MatchmakingService) attachImages(ctx context.Context, postID uint, urls []string) {
	if len(urls) > MaxPostImages {
		urls = urls[:MaxPostImages]
	}
	for i, u := range urls {
		img := models.PostImage{PostID: postID, URL: u, Position: i}
		if err := s.db.WithContext(ctx).Create(&img).Error; err != nil {
			s.log.Warn("post image attach failed",
				zap.Uint("post", postID), zap.Int("position", i), zap.Error(err))
		}
	}
}

// Invite creates a pending invitation for a candidate. The capacity check
// here is advisory only; Respond re-checks it inside the accept
// transaction, so more invitations than free slots may validly exist.
func (s *MatchmakingService) Invite(ctx context.Context, postID, candidateID, inviterID uint) (*models.Invitation, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %d", ErrNotFound, postID)
		}
		return nil, err
	}
	if post.UserID != inviterID {
		return nil, ErrUnauthorized
	}
	if post.CurrentPlayers >= post.MaxPlayers {
		return nil, ErrCapacityExceeded
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.Invitation{}).
		Where("post_id = ? AND user_id = ?", postID, candidateID).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrConflict
	}

	inv := models.Invitation{
		PostID:    postID,
		UserID:    candidateID,
		InviterID: inviterID,
		Status:    models.InvitePending,
		InvitedAt: time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, err
	}

	s.notifier.Emit(ctx, Event{
		Type:        EventInvite,
		RecipientID: candidateID,
		SenderID:    inviterID,
		SubjectID:   postID,
		Message:     "You have been invited to join a game",
	})

	return &inv, nil
}

// Respond settles a pending invitation. Accepting re-checks capacity with
// a guarded increment inside the same transaction as the status flip, so
// the player count can never pass max_players; the row-conditional update
// is what serializes concurrent accepts. A second Respond for the same
// invitation always fails with ErrInvalidState.
func (s *MatchmakingService) Respond(ctx context.Context, postID, candidateID uint, accept bool) (*models.Invitation, error) {
	now := time.Now()
	status := models.InviteRejected
	if accept {
		status = models.InviteAccepted
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Invitation{}).
			Where("post_id = ? AND user_id = ? AND status = ?", postID, candidateID, models.InvitePending).
			Updates(map[string]interface{}{"status": status, "responded_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidState
		}

		if !accept {
			return nil
		}

		inc := tx.Model(&models.Post{}).
			Where("id = ? AND current_players < max_players", postID).
			UpdateColumn("current_players", gorm.Expr("current_players + 1"))
		if inc.Error != nil {
			return inc.Error
		}
		if inc.RowsAffected == 0 {
			return ErrCapacityExceeded
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var inv models.Invitation
	if err := s.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, candidateID).
		First(&inv).Error; err != nil {
		return nil, err
	}

	if accept {
		var post models.Post
		if err := s.db.WithContext(ctx).First(&post, postID).Error; err == nil {
			s.notifier.Emit(ctx, Event{
				Type:        EventInviteAccepted,
				RecipientID: post.UserID,
				SenderID:    candidateID,
				SubjectID:   postID,
				Message:     "Your invitation was accepted",
			})
		}
	}

	return &inv, nil
}

// GetPost is the joined read path: owner, images, reservation, field and
// facility, with the last committed player count.
func (s *MatchmakingService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		Preload("Reservation").
		Preload("Reservation.Field").
		Preload("Reservation.Field.Facility").
		First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: post %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListOptions mirror the query parameters of the listing endpoint.
type ListOptions struct {
	SportType string
	Search    string
	Page      int
	Limit     int
}

// ListPosts returns visible matchmaking posts, newest first, optionally
// filtered by the sport type of the reserved field.
func (s *MatchmakingService) ListPosts(ctx context.Context, opts ListOptions) ([]models.Post, int64, error) {
	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 10
	}

	query := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("status = ?", models.PostVisible).
		Where("reservation_id IS NOT NULL")

	if opts.SportType != "" {
		sub := s.db.Model(&models.Reservation{}).
			Select("reservations.id").
			Joins("JOIN fields ON fields.id = reservations.field_id").
			Where("fields.sport_type = ?", opts.SportType)
		query = query.Where("reservation_id IN (?)", sub)
	}
	if opts.Search != "" {
		query = query.Where("LOWER(content) LIKE ?", "%"+strings.ToLower(opts.Search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := query.
		Preload("User").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		Preload("Reservation").
		Preload("Reservation.Field").
		Preload("Reservation.Field.Facility").
		Offset((opts.Page - 1) * opts.Limit).
		Limit(opts.Limit).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListInvitesFor returns a candidate's invitations, pending first.
func (s *MatchmakingService) ListInvitesFor(ctx context.Context, userID uint) ([]models.Invitation, error) {
	var invites []models.Invitation
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND inviter_id <> user_id", userID).
		Order("CASE status WHEN 'pending' THEN 0 ELSE 1 END, invited_at DESC").
		Find(&invites).Error
	return invites, err
}
