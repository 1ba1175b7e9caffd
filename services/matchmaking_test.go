package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/pitchmate/pitchmate-server/models"
)

func TestCreatePostSeedsOwner(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newService(t, db)
	owner := seedUser(t, db, "owner")
	res := seedReservation(t, db, owner, 20, time.Now().Add(3*time.Hour))

	post, err := svc.CreatePost(context.Background(), owner.ID, res.ID, "5v5 tonight, need players", 2, nil)
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if post.CurrentPlayers != 1 {
		t.Errorf("current players = %d, want 1", post.CurrentPlayers)
	}
	if post.MaxPlayers != 2 {
		t.Errorf("max players = %d, want 2", post.MaxPlayers)
	}
	if post.Status != models.PostVisible {
		t.Errorf("status = %q, want visible", post.Status)
	}
	if post.Reservation == nil || post.Reservation.Field.Facility.Name != "City Sports Center" {
		t.Errorf("read path did not join reservation/field/facility: %+v", post.Reservation)
	}

	var inv models.Invitation
	if err := db.Where("post_id = ? AND user_id = ?", post.ID, owner.ID).First(&inv).Error; err != nil {
		t.Fatalf("owner invitation missing: %v", err)
	}
	if inv.Status != models.InviteAccepted {
		t.Errorf("owner invitation status = %q, want accepted", inv.Status)
	}
	if inv.RespondedAt == nil || !inv.RespondedAt.Equal(inv.InvitedAt) {
		t.Errorf("owner invited/responded timestamps differ: %v vs %v", inv.InvitedAt, inv.RespondedAt)
	}
}

func TestCreatePostDefaultsMaxPlayers(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newService(t, db)
	owner := seedUser(t, db, "owner")
	res := seedReservation(t, db, owner, 20, time.Now().Add(3*time.Hour))

	post, err := svc.CreatePost(context.Background(), owner.ID, res.ID, "casual game", 0, nil)
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if post.MaxPlayers != DefaultMaxPlayers {
		t.Errorf("max players = %d, want default %d", post.MaxPlayers, DefaultMaxPlayers)
	}
}

func TestCreatePostNoDeposit(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newService(t, db)
	owner := seedUser(t, db, "owner")
	res := seedReservation(t, db, owner, 0, time.Now().Add(3*time.Hour))

	_, err := svc.CreatePost(context.Background(), owner.ID, res.ID, "anyone?", 4, nil)
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("err = %v, want ErrPreconditionFailed", err)
	}

	var count int64
	db.Model(&models.Post{}).Count(&count)
	if count != 0 {
		t.Errorf("post rows = %d, want 0 after rollback", count)
	}
}

func TestCreatePostReservationMissing(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newService(t, db)
	owner := seedUser(t, db, "owner")

	_, err := svc.CreatePost(context.Background(), owner.ID, 999, "ghost game", 4, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCreatePostReservationAlreadyBound(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newService(t, db)
	owner := seedUser(t, db, "owner")
	res := seedReservation(t, db, owner, 20, time.Now().Add(3*time.Hour))

	if _, err := svc.CreatePost(context.Background(), owner.ID, res.ID, "first", 4, nil); err != nil {
		t.Fatalf("first CreatePost: %v", err)
	}
	_, err := svc.CreatePost(context.Background(), owner.ID, res.ID, "second", 4, nil)
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("err = %v, want ErrPreconditionFailed", err)
	}

	var count int64
	db.Model(&models.Post{}).Where("reservation_id = ?", res.ID).Count(&count)
	if count != 1 {
		t.Errorf("posts bound to reservation = %d, want 1", count)
	}
}

func TestCreatePostTruncatesImages(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newService(t, db)
	owner := seedUser(t, db, "owner")
	res := seedReservation(t, db, owner, 20, time.Now().Add(3*time.Hour))

	urls := []string{"a", "b", "c", "d", "e", "f", "g"}
	post, err := svc.CreatePost(context.Background(), owner.ID, res.ID, "with pics", 4, urls)
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if len(post.Images) != MaxPostImages {
		t.Errorf("images = %d, want %d", len(post.Images), MaxPostImages)
	}
	for i, img := range post.Images {
		if img.URL != urls[i] {
			t.Errorf("image %d = %q, want %q (order preserved)", i, img.URL, urls[i])
		}
	}
}

// countingReservationStore wraps a real store and counts lookups,
// following them through WithTx rebinds.
type countingReservationStore struct {
	inner ReservationStore
	gets  *int
}

func (c countingReservationStore) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	*c.gets++
	return c.inner.GetReservation(ctx, id)
}

func (c countingReservationStore) WithTx(tx *gorm.DB) ReservationStore {
	return countingReservationStore{inner: c.inner.WithTx(tx), gets: c.gets}
}

func TestCreatePostReadsReservationThroughStore(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	res := seedReservation(t, db, owner, 20, time.Now().Add(3*time.Hour))

	gets := 0
	store := countingReservationStore{inner: NewReservationStore(db), gets: &gets}
	svc := NewMatchmakingService(db, store, &recorderNotifier{}, nil)

	if _, err := svc.CreatePost(context.Background(), owner.ID, res.ID, "need players", 4, nil); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if gets != 1 {
		t.Errorf("reservation store reads = %d, want 1", gets)
	}
}

func TestInviteUnauthorized(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newService(t, db)
	owner := seedUser(t, db, "owner")
	stranger := seedUser(t, db, "stranger")
	candidate := seedUser(t, db, "candidate")
	res := seedReservation(t, db, owner, 20, time.Now().Add(3*time.Hour))
	post, _ := svc.CreatePost(context.Background(), owner.ID, res.ID, "game", 4, nil)

	_, err := svc.Invite(context.Background(), post.ID, candidate.ID, stranger.ID)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestInviteDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newService(t, db)
	owner := seedUser(t, db, "owner")
	candidate := seedUser(t, db, "candidate")
	res := seedReservation(t, db, owner, 20, time.Now().Add(3*time.Hour))
	post, _ := svc.CreatePost(context.Background(), owner.ID, res.ID, "game", 4, nil)

	if _, err := svc.Invite(context.Background(), post.ID, candidate.ID, owner.ID); err != nil {
		t.Fatalf("first invite: %v", err)
	}
	_, err := svc.Invite(context.Background(), post.ID, candidate.ID, owner.ID)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestInviteRejectedPairStaysDecided(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newService(t, db)
	owner := seedUser(t, db, "owner")
	candidate := seedUser(t, db, "candidate")
	res := seedReservation(t, db, owner, 20, time.Now().Add(3*time.Hour))
	post, _ := svc.CreatePost(context.Background(), owner.ID, res.ID, "game", 4, nil)

	svc.Invite(context.Background(), post.ID, candidate.ID, owner.ID)
	if _, err := svc.Respond(context.Background(), post.ID, candidate.ID, false); err != nil {
		t.Fatalf("reject: %v", err)
	}

	// no re-invitation of a decided pair
	_, err := svc.Invite(context.Background(), post.ID, candidate.ID, owner.ID)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestInviteFullPost(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newService(t, db)
	owner := seedUser(t, db, "owner")
	x := seedUser(t, db, "x")
	z := seedUser(t, db, "z")
	res := seedReservation(t, db, owner, 20, time.Now().Add(3*time.Hour))
	post, _ := svc.CreatePost(context.Background(), owner.ID, res.ID, "duo", 2, nil)

	svc.Invite(context.Background(), post.ID, x.ID, owner.ID)
	if _, err := svc.Respond(context.Background(), post.ID, x.ID, true); err != nil {
		t.Fatalf("accept: %v", err)
	}

	// advisory check: max reached at invite time fails outright
	_, err := svc.Invite(context.Background(), post.ID, z.ID, owner.ID)
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("err = %v, want ErrCapacityExceeded", err)
	}
}

// Scenario: two candidates invited while one slot remains; the first
// accept fills the post, the second fails at the authoritative check.
func TestRespondCapacityEnforcedAtAccept(t *testing.T) {
	db := newTestDB(t)
	svc, rec := newService(t, db)
	owner := seedUser(t, db, "owner")
	x := seedUser(t, db, "x")
	y := seedUser(t, db, "y")
	res := seedReservation(t, db, owner, 20, time.Now().Add(3*time.Hour))
	post, _ := svc.CreatePost(context.Background(), owner.ID, res.ID, "duo", 2, nil)

	if _, err := svc.Invite(context.Background(), post.ID, x.ID, owner.ID); err != nil {
		t.Fatalf("invite x: %v", err)
	}
	if _, err := svc.Invite(context.Background(), post.ID, y.ID, owner.ID); err != nil {
		t.Fatalf("invite y: %v", err)
	}

	if _, err := svc.Respond(context.Background(), post.ID, x.ID, true); err != nil {
		t.Fatalf("x accept: %v", err)
	}
	got, _ := svc.GetPost(context.Background(), post.ID)
	if got.CurrentPlayers != 2 {
		t.Fatalf("current players = %d, want 2", got.CurrentPlayers)
	}

	_, err := svc.Respond(context.Background(), post.ID, y.ID, true)
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("y accept err = %v, want ErrCapacityExceeded", err)
	}

	got, _ = svc.GetPost(context.Background(), post.ID)
	if got.CurrentPlayers != 2 {
		t.Errorf("current players = %d after failed accept, want 2", got.CurrentPlayers)
	}

	// y's invitation must be untouched by the rolled-back accept
	var inv models.Invitation
	db.Where("post_id = ? AND user_id = ?", post.ID, y.ID).First(&inv)
	if inv.Status != models.InvitePending {
		t.Errorf("y invitation status = %q, want pending after rollback", inv.Status)
	}

	if n := len(rec.byType(EventInviteAccepted)); n != 1 {
		t.Errorf("accepted events = %d, want 1", n)
	}
	if n := len(rec.byType(EventInvite)); n != 2 {
		t.Errorf("invite events = %d, want 2", n)
	}
}

// Five candidates race to accept with two free slots; the guarded
// counter update decides the winners and the losers' invitations stay
// pending.
func TestRespondConcurrentAcceptsStopAtCapacity(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newService(t, db)
	owner := seedUser(t, db, "owner")
	res := seedReservation(t, db, owner, 20, time.Now().Add(3*time.Hour))
	post, err := svc.CreatePost(context.Background(), owner.ID, res.ID, "trio", 3, nil)
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	candidates := make([]models.User, 5)
	for i := range candidates {
		candidates[i] = seedUser(t, db, fmt.Sprintf("candidate%d", i))
		if _, err := svc.Invite(context.Background(), post.ID, candidates[i].ID, owner.ID); err != nil {
			t.Fatalf("invite %d: %v", i, err)
		}
	}

	errs := make(chan error, len(candidates))
	var wg sync.WaitGroup
	for _, cand := range candidates {
		wg.Add(1)
		go func(uid uint) {
			defer wg.Done()
			_, err := svc.Respond(context.Background(), post.ID, uid, true)
			errs <- err
		}(cand.ID)
	}
	wg.Wait()
	close(errs)

	var accepted, full int
	for err := range errs {
		switch {
		case err == nil:
			accepted++
		case errors.Is(err, ErrCapacityExceeded):
			full++
		default:
			t.Errorf("unexpected accept error: %v", err)
		}
	}
	if accepted != 2 || full != 3 {
		t.Errorf("accepted=%d full=%d, want 2 and 3", accepted, full)
	}

	got, _ := svc.GetPost(context.Background(), post.ID)
	if got.CurrentPlayers != 3 {
		t.Errorf("current players = %d, want 3", got.CurrentPlayers)
	}

	var pending int64
	db.Model(&models.Invitation{}).
		Where("post_id = ? AND status = ?", post.ID, models.InvitePending).
		Count(&pending)
	if pending != 3 {
		t.Errorf("pending invitations = %d, want 3 after rolled-back accepts", pending)
	}
}

func TestRespondTwiceFails(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newService(t, db)
	owner := seedUser(t, db, "owner")
	x := seedUser(t, db, "x")
	res := seedReservation(t, db, owner, 20, time.Now().Add(3*time.Hour))
	post, _ := svc.CreatePost(context.Background(), owner.ID, res.ID, "game", 4, nil)

	svc.Invite(context.Background(), post.ID, x.ID, owner.ID)
	first, err := svc.Respond(context.Background(), post.ID, x.ID, true)
	if err != nil {
		t.Fatalf("first respond: %v", err)
	}

	for _, accept := range []bool{true, false} {
		if _, err := svc.Respond(context.Background(), post.ID, x.ID, accept); !errors.Is(err, ErrInvalidState) {
			t.Fatalf("second respond(accept=%v) err = %v, want ErrInvalidState", accept, err)
		}
	}

	var inv models.Invitation
	db.Where("post_id = ? AND user_id = ?", post.ID, x.ID).First(&inv)
	if inv.Status != models.InviteAccepted {
		t.Errorf("status = %q, want accepted unchanged", inv.Status)
	}
	if inv.RespondedAt == nil || !inv.RespondedAt.Equal(*first.RespondedAt) {
		t.Errorf("responded_at changed on failed second respond")
	}

	got, _ := svc.GetPost(context.Background(), post.ID)
	if got.CurrentPlayers != 2 {
		t.Errorf("current players = %d, want 2 (no double increment)", got.CurrentPlayers)
	}
}

func TestRespondWithoutInvitation(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newService(t, db)
	owner := seedUser(t, db, "owner")
	x := seedUser(t, db, "x")
	res := seedReservation(t, db, owner, 20, time.Now().Add(3*time.Hour))
	post, _ := svc.CreatePost(context.Background(), owner.ID, res.ID, "game", 4, nil)

	_, err := svc.Respond(context.Background(), post.ID, x.ID, true)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
}

func TestRespondRejectLeavesCount(t *testing.T) {
	db := newTestDB(t)
	svc, rec := newService(t, db)
	owner := seedUser(t, db, "owner")
	x := seedUser(t, db, "x")
	res := seedReservation(t, db, owner, 20, time.Now().Add(3*time.Hour))
	post, _ := svc.CreatePost(context.Background(), owner.ID, res.ID, "game", 4, nil)

	svc.Invite(context.Background(), post.ID, x.ID, owner.ID)
	inv, err := svc.Respond(context.Background(), post.ID, x.ID, false)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if inv.Status != models.InviteRejected {
		t.Errorf("status = %q, want rejected", inv.Status)
	}
	if inv.RespondedAt == nil {
		t.Errorf("responded_at not set on reject")
	}

	got, _ := svc.GetPost(context.Background(), post.ID)
	if got.CurrentPlayers != 1 {
		t.Errorf("current players = %d, want 1", got.CurrentPlayers)
	}

	// owners are only notified of acceptances
	if n := len(rec.byType(EventInviteAccepted)); n != 0 {
		t.Errorf("accepted events = %d, want 0 on reject", n)
	}
}

func TestListPostsFiltersBySport(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newService(t, db)
	owner := seedUser(t, db, "owner")
	res := seedReservation(t, db, owner, 20, time.Now().Add(3*time.Hour))
	post, _ := svc.CreatePost(context.Background(), owner.ID, res.ID, "football game", 4, nil)

	posts, total, err := svc.ListPosts(context.Background(), ListOptions{SportType: "football"})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if total != 1 || len(posts) != 1 || posts[0].ID != post.ID {
		t.Fatalf("football filter: total=%d len=%d", total, len(posts))
	}

	_, total, err = svc.ListPosts(context.Background(), ListOptions{SportType: "tennis"})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if total != 0 {
		t.Errorf("tennis filter total = %d, want 0", total)
	}
}

func TestListPostsPropagatesErrors(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newService(t, db)
	sqlDB, _ := db.DB()
	sqlDB.Close()

	if _, _, err := svc.ListPosts(context.Background(), ListOptions{}); err == nil {
		t.Fatal("expected an error from a closed database")
	}
}
