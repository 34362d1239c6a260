package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/warbler/config"
	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/internal/repository"
	"github.com/d60-Lab/warbler/internal/service"
	"github.com/d60-Lab/warbler/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return v
		}
	}
	return def
}

func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	ctx := context.Background()

	// AUTHORS 个被关注作者，每人 MSGS 条消息；READERS 个读者关注全部作者
	AUTHORS := envInt("AUTHORS", 50)
	MSGS := envInt("MSGS", 200)
	READERS := envInt("READERS", 100)
	READS := envInt("READS", 2000)
	CONC := envInt("CONC", 8)
	LIMIT := envInt("LIMIT", cfg.Feed.DefaultLimit)

	newUser := func(prefix string) model.User {
		id := uuid.New().String()
		return model.User{ID: id, Username: prefix + id[:8], Email: prefix + id[:8] + "@example.com", Password: "p"}
	}
	authors := make([]model.User, AUTHORS)
	for i := range authors {
		authors[i] = newUser("a")
	}
	readers := make([]model.User, READERS)
	for i := range readers {
		readers[i] = newUser("r")
	}
	must(0, db.CreateInBatches(&authors, 1000).Error)
	must(0, db.CreateInBatches(&readers, 1000).Error)

	base := time.Now().Add(-time.Duration(AUTHORS*MSGS) * time.Second)
	msgs := make([]model.Message, 0, AUTHORS*MSGS)
	for i, a := range authors {
		for j := 0; j < MSGS; j++ {
			msgs = append(msgs, model.Message{
				ID:        uuid.New().String(),
				UserID:    a.ID,
				Text:      fmt.Sprintf("msg %d from %s", j, a.Username),
				CreatedAt: base.Add(time.Duration(i*MSGS+j) * time.Second).UTC(),
			})
		}
	}
	must(0, db.Omit("User").CreateInBatches(&msgs, 1000).Error)

	followRepo := repository.NewFollowRepository(db)
	for _, r := range readers {
		for _, a := range authors {
			must(0, followRepo.Create(ctx, r.ID, a.ID))
		}
	}

	feed := service.NewFeedService(repository.NewMessageRepository(db), repository.NewUserRepository(db),
		service.FeedLimits{Default: cfg.Feed.DefaultLimit, Max: cfg.Feed.MaxLimit})

	durations := make([]time.Duration, 0, READS)
	var mu sync.Mutex
	var wg sync.WaitGroup
	jobs := make(chan int)
	errs := 0
	for w := 0; w < CONC; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				st := time.Now()
				_, err := feed.GetFeed(ctx, readers[i%len(readers)].ID, LIMIT)
				d := time.Since(st)
				mu.Lock()
				if err != nil {
					errs++
				} else {
					durations = append(durations, d)
				}
				mu.Unlock()
			}
		}()
	}
	start := time.Now()
	for i := 0; i < READS; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	elapsed := time.Since(start)

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}
	avg := time.Duration(0)
	if len(durations) > 0 {
		avg = sum / time.Duration(len(durations))
	}
	fmt.Printf("AUTHORS=%d MSGS=%d READERS=%d READS=%d CONC=%d LIMIT=%d\n", AUTHORS, MSGS, READERS, READS, CONC, LIMIT)
	fmt.Printf("Feed read latency: avg=%v p50=%v p95=%v p99=%v errors=%d\n",
		avg, pct(durations, 0.50), pct(durations, 0.95), pct(durations, 0.99), errs)
	fmt.Printf("Throughput: %.1f reads/s\n", float64(len(durations))/elapsed.Seconds())
}
