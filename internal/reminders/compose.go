package reminders

import (
	"fmt"
	"strings"

	routines "github.com/nemodouble/godlife/internal/routines/domain"
	"github.com/nemodouble/godlife/internal/shared/domain"
)

// RoutineLine is one routine in a daily prompt.
type RoutineLine struct {
	Name  string
	State routines.CheckinState
}

var stateEmoji = map[routines.CheckinState]string{
	routines.CheckinDone:    "✅",
	routines.CheckinSkipped: "⏭️",
	routines.CheckinNeither: "⬜",
}

type phrases struct {
	promptHeader   string
	allDone        string
	deadline       string
	remaining      string
	nothingPending string
}

var localePhrases = map[routines.Locale]phrases{
	routines.LocaleKorean: {
		promptHeader:   "📋 %s 이런 루틴이 기다리고 있어요.",
		allDone:        "🎉 %s 모든 루틴을 완료했어요. 멋져요!",
		deadline:       "⏰ '%s' 루틴 마감 시간이에요.",
		remaining:      "%s 아직 남은 루틴: %s",
		nothingPending: "%s 다른 남은 루틴은 없어요.",
	},
	routines.LocaleEnglish: {
		promptHeader:   "📋 Routines for %s:",
		allDone:        "🎉 All routines for %s are done. Great job!",
		deadline:       "⏰ '%s' is due now.",
		remaining:      "Still open for %s: %s",
		nothingPending: "Nothing else is open for %s.",
	},
}

// Composer renders reminder messages in one locale.
type Composer struct {
	phrases   phrases
	particles ParticleStrategy
}

// NewComposer creates a composer. Unknown locales use Korean phrasing with the
// given particle strategy.
func NewComposer(locale routines.Locale, particles ParticleStrategy) Composer {
	p, ok := localePhrases[locale]
	if !ok {
		p = localePhrases[routines.LocaleKorean]
	}
	if particles == nil {
		particles = NoParticle{}
	}
	return Composer{phrases: p, particles: particles}
}

// ComposerFor returns the composer of a locale with its default particles.
func ComposerFor(locale routines.Locale) Composer {
	return NewComposer(locale, ParticlesFor(locale))
}

func (c Composer) topic(d domain.Day) string {
	return c.particles.Topic(d.String())
}

// DailyPrompt lists the day's routines with their status, or congratulates
// when every routine is done.
func (c Composer) DailyPrompt(d domain.Day, lines []RoutineLine) string {
	if allDone(lines) {
		return fmt.Sprintf(c.phrases.allDone, c.topic(d))
	}

	var b strings.Builder
	fmt.Fprintf(&b, c.phrases.promptHeader, c.topic(d))
	for _, line := range lines {
		b.WriteString("\n")
		b.WriteString(stateEmoji[line.State])
		b.WriteString(" ")
		b.WriteString(line.Name)
	}
	return b.String()
}

// DeadlineReminder names the routine that is due and the other open routines.
func (c Composer) DeadlineReminder(d domain.Day, routine string, remaining []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, c.phrases.deadline, routine)
	b.WriteString("\n")
	if len(remaining) == 0 {
		fmt.Fprintf(&b, c.phrases.nothingPending, c.topic(d))
	} else {
		fmt.Fprintf(&b, c.phrases.remaining, c.topic(d), strings.Join(remaining, ", "))
	}
	return b.String()
}

func allDone(lines []RoutineLine) bool {
	if len(lines) == 0 {
		return false
	}
	for _, line := range lines {
		if line.State != routines.CheckinDone {
			return false
		}
	}
	return true
}
