package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"

	"go.uber.org/zap"

	"github.com/d60-Lab/warbler/config"
	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/internal/repository"
	"github.com/d60-Lab/warbler/internal/service"
	"github.com/d60-Lab/warbler/pkg/credential"
	"github.com/d60-Lab/warbler/pkg/database"
	"github.com/d60-Lab/warbler/pkg/logger"
)

var phrases = []string{
	"Just shipped a thing.",
	"Coffee first, then code.",
	"Reading about consensus protocols again.",
	"The build is green. Nobody touch anything.",
	"Hello, warbler!",
	"Weekend hike photos coming soon.",
}

func main() {
	users := flag.Int("users", 20, "demo accounts to create")
	follows := flag.Int("follows", 5, "accounts each user follows")
	messages := flag.Int("messages", 10, "messages per user")
	likes := flag.Int("likes", 5, "likes per user")
	password := flag.String("password", "password", "password for every demo account")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg.Database.AutoMigrate = true
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("init db: %v", err)
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(db)
	msgRepo := repository.NewMessageRepository(db)
	accounts := service.NewAccountService(userRepo, credential.NewHasher(cfg.Password.BcryptCost), service.ProfileDefaults{
		ImageURL:       cfg.Profile.DefaultImageURL,
		HeaderImageURL: cfg.Profile.DefaultHeaderImageURL,
	})
	rel := service.NewRelationshipService(repository.NewFollowRepository(db), userRepo)
	content := service.NewContentService(msgRepo, repository.NewLikeRepository(db), userRepo)

	created := make([]*model.User, 0, *users)
	for i := 0; i < *users; i++ {
		name := fmt.Sprintf("demo%03d", i)
		u, err := accounts.Signup(ctx, service.SignupInput{Username: name, Email: name + "@example.com", Password: *password})
		if errors.Is(err, service.ErrConflict) {
			if u, err = userRepo.GetByUsername(ctx, name); err != nil {
				log.Fatalf("load %s: %v", name, err)
			}
		} else if err != nil {
			log.Fatalf("signup %s: %v", name, err)
		}
		created = append(created, u)
	}

	var posted []*model.Message
	for _, u := range created {
		for j := 0; j < *messages; j++ {
			m, err := content.PostMessage(ctx, u.ID, phrases[rand.Intn(len(phrases))])
			if err != nil {
				log.Fatalf("post: %v", err)
			}
			posted = append(posted, m)
		}
	}

	liked := 0
	for _, u := range created {
		n := 0
		for _, idx := range rand.Perm(len(created)) {
			if n == *follows {
				break
			}
			if created[idx].ID == u.ID {
				continue
			}
			if err := rel.Follow(ctx, u.ID, created[idx].ID); err != nil {
				log.Fatalf("follow: %v", err)
			}
			n++
		}
		for k := 0; k < *likes && len(posted) > 0; k++ {
			m := posted[rand.Intn(len(posted))]
			if m.UserID == u.ID {
				continue
			}
			if ok, _ := content.IsLiked(ctx, u.ID, m.ID); ok {
				continue
			}
			if _, err := content.ToggleLike(ctx, u.ID, m.ID); err != nil {
				log.Fatalf("like: %v", err)
			}
			liked++
		}
	}

	logger.Info("seed complete",
		zap.Int("users", len(created)),
		zap.Int("messages", len(posted)),
		zap.Int("likes", liked),
	)
}
