package seed

import (
	"fmt"
	"log"
	"time"

	"cheapbite/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seeder populates the database with demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db)}
}

// ClearAll removes all seeded data. Postgres only.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE comments, likes, posts, follows, notifications,
		messages, conversations, events, saved_items, username_reservations, users
		RESTART IDENTITY CASCADE;`
	return s.db.Exec(sql).Error
}

// Seed populates the database with a connected social mesh of users, posts,
// likes, comments, follows, events and direct messages.
func (s *Seeder) Seed(opts Options) error {
	log.Printf("Seeding %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	users, err := s.seedUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	log.Printf("created %d users", len(users))

	if err := s.seedFollows(users); err != nil {
		return fmt.Errorf("seed follows: %w", err)
	}

	posts, err := s.seedPosts(users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("seed posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	if err := s.seedEngagement(users, posts); err != nil {
		return fmt.Errorf("seed engagement: %w", err)
	}

	if err := s.seedEvents(users); err != nil {
		return fmt.Errorf("seed events: %w", err)
	}

	if err := s.seedConversations(users); err != nil {
		return fmt.Errorf("seed conversations: %w", err)
	}

	log.Println("Seeding completed")
	return nil
}

func (s *Seeder) seedUsers(count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	// Always include a few fixed accounts for manual testing.
	if count >= 3 {
		for _, name := range []string{"ramona", "dev", "test"} {
			name := name
			user, err := s.factory.CreateUser(func(u *models.User) {
				u.Username = name
				u.Email = fmt.Sprintf("%s@example.com", name)
				u.DisplayName = name
				u.Bio = "One of the originals."
			})
			if err == nil {
				users = append(users, user)
			}
		}
	}

	for i := len(users); i < count; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			log.Printf("failed to create user: %v", err)
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) seedFollows(users []*models.User) error {
	if len(users) < 2 {
		return nil
	}
	r := s.factory.r
	for _, u := range users {
		// each user follows 3 to 8 others
		n := 3 + r.Intn(6)
		for i := 0; i < n; i++ {
			target := users[r.Intn(len(users))]
			if err := s.factory.CreateFollow(u.ID, target.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) seedPosts(users []*models.User, count int) ([]*models.Post, error) {
	r := s.factory.r
	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[r.Intn(len(users))]
		posts = append(posts, s.factory.BuildPost(author))
	}
	// chunked batch insert keeps parameter counts sane on Postgres
	const chunk = 100
	for start := 0; start < len(posts); start += chunk {
		end := start + chunk
		if end > len(posts) {
			end = len(posts)
		}
		if err := s.factory.CreatePostsBatch(posts[start:end]); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

func (s *Seeder) seedEngagement(users []*models.User, posts []*models.Post) error {
	r := s.factory.r
	for _, post := range posts {
		likes := r.Intn(6)
		for i := 0; i < likes; i++ {
			if err := s.factory.CreateLike(users[r.Intn(len(users))].ID, post); err != nil {
				return err
			}
		}
		if r.Float32() < 0.5 {
			if _, err := s.factory.CreateComment(users[r.Intn(len(users))], post); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) seedEvents(users []*models.User) error {
	if len(users) < 4 {
		return nil
	}
	r := s.factory.r
	for i := 0; i < len(users)/5+1; i++ {
		creator := users[r.Intn(len(users))]
		invitees := make([]uint, 0, 3)
		for len(invitees) < 3 {
			candidate := users[r.Intn(len(users))].ID
			if candidate != creator.ID {
				invitees = append(invitees, candidate)
			}
		}
		if _, err := s.factory.CreateEvent(creator, invitees); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedConversations(users []*models.User) error {
	if len(users) < 2 {
		return nil
	}
	r := s.factory.r
	pairs := len(users) / 2
	for i := 0; i < pairs; i++ {
		a := users[r.Intn(len(users))]
		b := users[r.Intn(len(users))]
		if a.ID == b.ID {
			continue
		}
		if err := s.seedThread(a, b, 2+r.Intn(6)); err != nil {
			return err
		}
	}
	return nil
}

// seedThread writes a short message exchange between a and b, maintaining the
// per-participant conversation summary rows the way the send path does.
func (s *Seeder) seedThread(a, b *models.User, messages int) error {
	threadID := models.ThreadID(a.ID, b.ID)
	r := s.factory.r

	var lastText string
	base := time.Now().Add(-time.Duration(r.Intn(72)) * time.Hour)
	for i := 0; i < messages; i++ {
		sender := a
		if i%2 == 1 {
			sender = b
		}
		lastText = gofakeit.Sentence(6)
		msg := &models.Message{
			ThreadID:  threadID,
			SenderID:  sender.ID,
			Text:      lastText,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.db.Create(msg).Error; err != nil {
			return err
		}
	}

	for _, pair := range [][2]*models.User{{a, b}, {b, a}} {
		owner, peer := pair[0], pair[1]
		conv := models.Conversation{OwnerID: owner.ID, PeerID: peer.ID}
		summary := models.Conversation{
			LastMessage:   lastText,
			LastUpdatedAt: time.Now(),
		}
		summary.SetPeer(peer)
		if err := s.db.Where(conv).Assign(summary).FirstOrCreate(&models.Conversation{}).Error; err != nil {
			return err
		}
	}
	return nil
}
