package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ericfisherdev/commentbox/internal/domain/model"
	"github.com/ericfisherdev/commentbox/internal/domain/port/driven"
)

// SeedRef is the thread that receives the development sample comments.
const SeedRef = "test"

// SeedDevComments inserts a handful of sample comments into SeedRef for local
// development. It does nothing when the thread already has comments, so it is
// safe to call on every startup. The last sample is stamped with now.
func SeedDevComments(ctx context.Context, store driven.CommentStore, now time.Time, logger *slog.Logger) error {
	n, err := store.CountByRef(ctx, SeedRef)
	if err != nil {
		return fmt.Errorf("check seed thread: %w", err)
	}
	if n > 0 {
		logger.Debug("seed skipped, thread not empty", "ref", SeedRef, "count", n)
		return nil
	}

	samples := devSamples(now.UTC().Truncate(time.Second))
	for _, c := range samples {
		if _, err := store.Add(ctx, c); err != nil {
			return fmt.Errorf("seed comment from %s: %w", c.Name, err)
		}
	}

	logger.Info("seeded development comments", "ref", SeedRef, "count", len(samples))
	return nil
}

func devSamples(now time.Time) []model.Comment {
	at := func(t time.Time) *time.Time { return &t }

	return []model.Comment{
		{
			Ref:  SeedRef,
			Name: "JohnDoeDev",
			Time: at(time.Date(2024, 3, 3, 10, 22, 0, 0, time.UTC)),
			Comment: "**Wow, this new release is incredible!**\n\n" +
				"The performance improvements are exactly what I needed for my current project.\n" +
				"The container integration is seamless and saves so much time.\n\n" +
				"Kudos to the team for this fantastic release! 🎉",
		},
		{
			Ref:  SeedRef,
			Name: "CodeGuru",
			Time: at(time.Date(2024, 5, 1, 18, 32, 0, 0, time.UTC)),
			Comment: "While I appreciate the new features, especially the improved memory usage, " +
				"I feel like the **documentation could be better**.\n\n" +
				"Some parts are quite vague and require a lot of trial and error to understand.\n\n" +
				"Any plans to enhance the docs soon?",
		},
		{
			Ref:  SeedRef,
			Name: "TechEnthusiast",
			Time: at(time.Date(2024, 1, 10, 8, 10, 0, 0, time.UTC)),
			Comment: "This update seems interesting.\n\n" +
				"I haven't used it much, but these performance claims are impressive.\n" +
				"**Might give it a try for my next microservice project.\n" +
				"Does anyone have experience with it in production?**",
		},
		{
			Ref:     SeedRef,
			Name:    "JavaNoob",
			Time:    at(time.Date(2024, 2, 28, 10, 35, 0, 0, time.UTC)),
			Comment: "**This is overrated.**\n\nThe old stack has been here for years and I won't change.",
		},
		{
			Ref:  SeedRef,
			Name: "DevNewbie",
			Time: at(time.Date(2024, 4, 22, 12, 22, 0, 0, time.UTC)),
			Comment: "I'm new to this and the update sounds promising.\n" +
				"Can someone explain how it compares to traditional application servers " +
				"in terms of startup time and resource consumption?\n" +
				"Trying to decide if it's worth learning.",
		},
		{
			Ref:  SeedRef,
			Name: "SkepticalCoder",
			Time: at(now),
			Comment: "I've heard these performance promises before.\n" +
				"Show me real-world benchmarks and production success stories. Until then, I'll reserve my judgment.",
		},
	}
}
