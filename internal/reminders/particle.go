package reminders

import (
	"unicode/utf8"

	routines "github.com/nemodouble/godlife/internal/routines/domain"
)

// ParticleStrategy attaches a topic particle to a word.
type ParticleStrategy interface {
	Topic(word string) string
}

// NoParticle leaves words unchanged.
type NoParticle struct{}

func (NoParticle) Topic(word string) string { return word }

// FinalCharParticles picks the particle from the word's last character.
// Characters in Final take WithFinal, everything else WithoutFinal.
type FinalCharParticles struct {
	Final        map[rune]bool
	WithFinal    string
	WithoutFinal string
	// Syllables, when set, decides characters missing from Final.
	Syllables func(r rune) (final bool, ok bool)
}

// Topic returns word followed by the matching particle.
func (p FinalCharParticles) Topic(word string) string {
	last, _ := utf8.DecodeLastRuneInString(word)
	if last == utf8.RuneError {
		return word
	}
	final, ok := p.Final[last]
	if !ok && p.Syllables != nil {
		final, _ = p.Syllables(last)
	}
	if final {
		return word + p.WithFinal
	}
	return word + p.WithoutFinal
}

// KoreanTopicParticles chooses 은 or 는. Digits are read as Sino-Korean
// numerals, so 0 (영), 1 (일), 3 (삼), 6 (육), 7 (칠) and 8 (팔) end in a consonant.
func KoreanTopicParticles() FinalCharParticles {
	return FinalCharParticles{
		Final: map[rune]bool{
			'0': true, '1': true, '3': true, '6': true, '7': true, '8': true,
		},
		WithFinal:    "은",
		WithoutFinal: "는",
		Syllables:    hangulHasFinal,
	}
}

// hangulHasFinal reports whether a precomposed Hangul syllable has a final consonant.
func hangulHasFinal(r rune) (bool, bool) {
	const first, last = 0xAC00, 0xD7A3
	if r < first || r > last {
		return false, false
	}
	return (r-first)%28 != 0, true
}

// ParticlesFor returns the strategy of a message locale.
func ParticlesFor(locale routines.Locale) ParticleStrategy {
	if locale == routines.LocaleKorean {
		return KoreanTopicParticles()
	}
	return NoParticle{}
}
