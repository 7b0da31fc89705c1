package reminders_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nemodouble/godlife/internal/reminders"
	routines "github.com/nemodouble/godlife/internal/routines/domain"
	"github.com/nemodouble/godlife/internal/shared/domain"
	"github.com/nemodouble/godlife/internal/validity"
)

func day(s string) domain.Day {
	return domain.MustParseDay(s)
}

func tod(t *testing.T, s string) domain.TimeOfDay {
	t.Helper()
	v, err := domain.ParseTimeOfDay(s)
	require.NoError(t, err)
	return v
}

func settingsFor(t *testing.T, ownerID, reminderAt string, locale routines.Locale) *routines.UserSettings {
	return &routines.UserSettings{
		OwnerID:      ownerID,
		Timezone:     "UTC",
		ReminderTime: tod(t, reminderAt),
		Locale:       locale,
	}
}

func TestTriggerKey_String(t *testing.T) {
	id := uuid.MustParse("7a1c9f1e-5d1b-4c6f-9d43-0b1f1f3f2a10")

	prompt := reminders.TriggerKey{OwnerID: "owner-1", Day: day("2025-01-10"), Kind: reminders.KindDailyPrompt}
	assert.Equal(t, "owner-1|2025-01-10|daily_prompt|-", prompt.String())

	deadline := reminders.TriggerKey{OwnerID: "owner-1", Day: day("2025-01-10"), Kind: reminders.KindDeadlineReminder, RoutineID: id}
	assert.Equal(t, "owner-1|2025-01-10|deadline_reminder|"+id.String(), deadline.String())
}

func TestTrigger_Due(t *testing.T) {
	now := time.Date(2025, 1, 10, 21, 3, 0, 0, time.UTC)
	window := 5 * time.Minute

	tests := []struct {
		name string
		at   time.Time
		due  bool
	}{
		{"three minutes ago", now.Add(-3 * time.Minute), true},
		{"exactly now", now, true},
		{"window edge", now.Add(-window), true},
		{"before window", now.Add(-window - time.Second), false},
		{"future", now.Add(time.Second), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.due, reminders.Trigger{At: tc.at}.Due(now, window))
		})
	}
}

func TestPlanDay(t *testing.T) {
	settings := settingsFor(t, "owner-1", "21:00", routines.LocaleKorean)

	morning, err := routines.NewRoutine("owner-1", "운동", validity.WeekendModeAll)
	require.NoError(t, err)
	late, err := routines.NewRoutine("owner-1", "일기", validity.WeekendModeAll)
	require.NoError(t, err)
	lateAt := tod(t, "02:00")
	late.SetDeadline(&lateAt)
	inactive, err := routines.NewRoutine("owner-1", "독서", validity.WeekendModeAll)
	require.NoError(t, err)
	inactive.Deactivate()

	triggers := reminders.PlanDay(settings, []*routines.Routine{morning, late, inactive}, day("2025-01-10"), domain.DefaultDayOffset)
	require.Len(t, triggers, 3)

	assert.Equal(t, reminders.KindDailyPrompt, triggers[0].Key.Kind)
	assert.Equal(t, uuid.Nil, triggers[0].Key.RoutineID)
	assert.Equal(t, time.Date(2025, 1, 10, 21, 0, 0, 0, time.UTC), triggers[0].At.UTC())
	assert.Equal(t, day("2025-01-10"), triggers[0].Key.Day)

	assert.Equal(t, morning.ID(), triggers[1].Key.RoutineID)
	assert.Equal(t, triggers[0].At, triggers[1].At, "routine without deadline uses the reminder time")

	assert.Equal(t, late.ID(), triggers[2].Key.RoutineID)
	assert.Equal(t, day("2025-01-09"), triggers[2].Key.Day, "02:00 belongs to the previous local day")
}

func TestKoreanTopicParticles(t *testing.T) {
	p := reminders.KoreanTopicParticles()

	tests := map[string]string{
		"2025-01-10": "2025-01-10은",
		"2025-01-12": "2025-01-12는",
		"2025-01-13": "2025-01-13은",
		"2025-01-14": "2025-01-14는",
		"운동":         "운동은",
		"요가":         "요가는",
		"":           "",
	}
	for word, expected := range tests {
		assert.Equal(t, expected, p.Topic(word), word)
	}

	assert.Equal(t, "today", reminders.ParticlesFor(routines.LocaleEnglish).Topic("today"))
}

func TestComposer_DailyPrompt(t *testing.T) {
	ko := reminders.ComposerFor(routines.LocaleKorean)

	text := ko.DailyPrompt(day("2025-01-10"), []reminders.RoutineLine{
		{Name: "운동", State: routines.CheckinDone},
		{Name: "독서", State: routines.CheckinNeither},
		{Name: "일기", State: routines.CheckinSkipped},
	})
	assert.Equal(t, "📋 2025-01-10은 이런 루틴이 기다리고 있어요.\n✅ 운동\n⬜ 독서\n⏭️ 일기", text)

	done := ko.DailyPrompt(day("2025-01-12"), []reminders.RoutineLine{{Name: "운동", State: routines.CheckinDone}})
	assert.Equal(t, "🎉 2025-01-12는 모든 루틴을 완료했어요. 멋져요!", done)

	en := reminders.ComposerFor(routines.LocaleEnglish)
	assert.Equal(t, "📋 Routines for 2025-01-10:\n⬜ Run",
		en.DailyPrompt(day("2025-01-10"), []reminders.RoutineLine{{Name: "Run", State: routines.CheckinNeither}}))
}

func TestComposer_DeadlineReminder(t *testing.T) {
	ko := reminders.ComposerFor(routines.LocaleKorean)

	assert.Equal(t, "⏰ '운동' 루틴 마감 시간이에요.\n2025-01-10은 아직 남은 루틴: 독서, 일기",
		ko.DeadlineReminder(day("2025-01-10"), "운동", []string{"독서", "일기"}))
	assert.Equal(t, "⏰ '운동' 루틴 마감 시간이에요.\n2025-01-10은 다른 남은 루틴은 없어요.",
		ko.DeadlineReminder(day("2025-01-10"), "운동", nil))
}

func TestMemorySentStore_ClaimRelease(t *testing.T) {
	store := reminders.NewMemorySentStore()
	ctx := context.Background()
	key := reminders.TriggerKey{OwnerID: "owner-1", Day: day("2025-01-10"), Kind: reminders.KindDailyPrompt}

	ok, err := store.Claim(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = store.Claim(ctx, key)
	assert.False(t, ok, "in-flight key cannot be claimed twice")

	require.NoError(t, store.Release(ctx, key, false))
	ok, _ = store.Claim(ctx, key)
	assert.True(t, ok, "released unsent key is retryable")

	require.NoError(t, store.Release(ctx, key, true))
	ok, _ = store.Claim(ctx, key)
	assert.False(t, ok)
	sent, _ := store.IsSent(ctx, key)
	assert.True(t, sent)
}

func TestMemorySentStore_ConcurrentClaim(t *testing.T) {
	store := reminders.NewMemorySentStore()
	key := reminders.TriggerKey{OwnerID: "owner-1", Day: day("2025-01-10"), Kind: reminders.KindDailyPrompt}

	var winners atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := store.Claim(context.Background(), key); ok {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
}

func TestMemorySentStore_Prune(t *testing.T) {
	store := reminders.NewMemorySentStore()
	ctx := context.Background()
	for _, d := range []string{"2025-01-07", "2025-01-08", "2025-01-10"} {
		key := reminders.TriggerKey{OwnerID: "owner-1", Day: day(d), Kind: reminders.KindDailyPrompt}
		_, _ = store.Claim(ctx, key)
		require.NoError(t, store.Release(ctx, key, true))
	}

	assert.Equal(t, 2, store.Prune(day("2025-01-09")))
	assert.Equal(t, 1, store.Len())
}

func TestRedisSentStore(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set, skipping integration test")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	defer client.Close()

	store := reminders.NewRedisSentStore(client, time.Minute, time.Hour)
	ctx := context.Background()
	key := reminders.TriggerKey{
		OwnerID: fmt.Sprintf("owner-%s", uuid.NewString()),
		Day:     day("2025-01-10"),
		Kind:    reminders.KindDailyPrompt,
	}

	ok, err := store.Claim(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = store.Claim(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Release(ctx, key, false))
	sent, err := store.IsSent(ctx, key)
	require.NoError(t, err)
	assert.False(t, sent)

	ok, _ = store.Claim(ctx, key)
	require.True(t, ok)
	require.NoError(t, store.Release(ctx, key, true))
	sent, err = store.IsSent(ctx, key)
	require.NoError(t, err)
	assert.True(t, sent)
}

func TestRedisSentStore_ReleaseKeepsClaimTakenOverAfterLease(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set, skipping integration test")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	defer client.Close()

	first := reminders.NewRedisSentStore(client, time.Minute, time.Hour)
	second := reminders.NewRedisSentStore(client, time.Minute, time.Hour)
	ctx := context.Background()
	key := reminders.TriggerKey{
		OwnerID: fmt.Sprintf("owner-%s", uuid.NewString()),
		Day:     day("2025-01-10"),
		Kind:    reminders.KindDailyPrompt,
	}
	redisKey := "godlife:reminder:" + key.String()
	defer client.Del(ctx, redisKey)

	ok, err := first.Claim(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)

	// The first lease runs out and another instance claims the key.
	require.NoError(t, client.Del(ctx, redisKey).Err())
	ok, err = second.Claim(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, first.Release(ctx, key, false))

	ok, err = second.Claim(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "stale release must not drop the new claim")

	require.NoError(t, second.Release(ctx, key, false))
	ok, err = first.Claim(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
}
