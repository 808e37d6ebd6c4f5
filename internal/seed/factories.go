// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"cheapbite/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

var seedPasswordHash []byte

func init() {
	// All seed users share one password so the hash is computed once.
	seedPasswordHash, _ = bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
}

var taglines = []string{
	"Home cook on a budget",
	"Leftovers evangelist",
	"Meal prep every Sunday",
	"Spice cabinet maximalist",
	"One pot or no pot",
	"Slow cooker believer",
	"Farmers market regular",
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	username := fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999))
	user := &models.User{
		Username:    username,
		Email:       gofakeit.Email(),
		Password:    string(seedPasswordHash),
		DisplayName: gofakeit.Name(),
		Bio:         gofakeit.Sentence(10),
		Tagline:     taglines[f.r.Intn(len(taglines))],
		AccentColor: gofakeit.HexColor(),
		PhotoURL:    fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username),
	}

	for _, override := range overrides {
		override(user)
	}
	user.SearchTerms = models.ComputeSearchTerms(user.Username, user.DisplayName)

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

var dishes = []string{
	"jerk chicken", "lentil soup", "shakshuka", "bibimbap", "carbonara",
	"chana masala", "fish tacos", "pad thai", "ratatouille", "pho",
	"gumbo", "paella", "moussaka", "katsu curry", "pierogi",
}

var postTags = []string{
	"budget", "weeknight", "vegetarian", "spicy", "comfort-food",
	"meal-prep", "leftovers", "under-30-min", "one-pot", "seasonal",
}

// BuildPost constructs a post for the given author without persisting it.
// Useful for batching.
func (f *Factory) BuildPost(author *models.User, overrides ...func(*models.Post)) *models.Post {
	dish := dishes[f.r.Intn(len(dishes))]
	post := &models.Post{
		Content:  fmt.Sprintf("Made %s tonight. %s", dish, gofakeit.Paragraph(1, 2, 8, " ")),
		Location: gofakeit.City(),
		Tags:     pickTags(f.r, 1+f.r.Intn(3)),
		IsPublic: true,
	}
	post.SetAuthor(author)

	// spread creation times over the last 90 days for a believable feed
	daysBack := f.r.Intn(90)
	post.CreatedAt = time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(f.r.Intn(1440))*time.Minute)

	if f.r.Float32() < 0.3 {
		post.MediaURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
		post.AttachmentType = models.AttachmentNone
	}

	for _, override := range overrides {
		override(post)
	}
	post.SearchTerms = models.ComputeSearchTerms(post.AuthorUsername, post.AuthorDisplayName)
	return post
}

func pickTags(r *rand.Rand, n int) models.StringList {
	perm := r.Perm(len(postTags))
	tags := make(models.StringList, 0, n)
	for _, i := range perm[:n] {
		tags = append(tags, postTags[i])
	}
	return tags
}

// CreatePostsBatch persists multiple posts in a single DB call.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return f.db.Create(&posts).Error
}

// CreateComment persists a comment by author on post and bumps the post's
// comment counter the same way the repository layer does.
func (f *Factory) CreateComment(author *models.User, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		PostID: post.ID,
		Text:   gofakeit.Sentence(8),
	}
	comment.SetAuthor(author)

	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", post.ID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike records a like and bumps the post's like counter.
func (f *Factory) CreateLike(userID uint, post *models.Post) error {
	return f.db.Transaction(func(tx *gorm.DB) error {
		like := &models.Like{PostID: post.ID, UserID: userID}
		res := tx.Where(like).FirstOrCreate(like)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&models.Post{}).Where("id = ?", post.ID).
			UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
	})
}

// CreateFollow records a follow edge and adjusts both counters.
func (f *Factory) CreateFollow(followerID, followeeID uint) error {
	if followerID == followeeID {
		return nil
	}
	return f.db.Transaction(func(tx *gorm.DB) error {
		follow := &models.Follow{FollowerID: followerID, FolloweeID: followeeID}
		res := tx.Where(follow).FirstOrCreate(follow)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := tx.Model(&models.User{}).Where("id = ?", followeeID).
			UpdateColumn("follower_count", gorm.Expr("follower_count + 1")).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", followerID).
			UpdateColumn("following_count", gorm.Expr("following_count + 1")).Error
	})
}

// CreateEvent persists an event created by the given user with the given
// invitees, honoring the creator-is-participant invariant.
func (f *Factory) CreateEvent(creator *models.User, inviteeIDs []uint) (*models.Event, error) {
	start := time.Now().Add(time.Duration(1+f.r.Intn(14)) * 24 * time.Hour)
	event := &models.Event{
		Title:          fmt.Sprintf("%s potluck", gofakeit.City()),
		Description:    gofakeit.Sentence(12),
		CreatedBy:      creator.ID,
		StartTime:      start,
		EndTime:        start.Add(3 * time.Hour),
		Location:       gofakeit.Street(),
		ParticipantIDs: append(models.UintList{creator.ID}, inviteeIDs...),
		AttendeeIDs:    models.UintList{creator.ID},
		Status:         models.EventScheduled,
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	if err := f.db.Create(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}
