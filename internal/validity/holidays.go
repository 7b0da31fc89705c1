package validity

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/6tail/lunar-go/calendar"
	"gopkg.in/yaml.v3"

	"github.com/nemodouble/godlife/internal/shared/domain"
)

//go:embed holidays/*.yaml
var holidayFS embed.FS

// ErrMalformedHolidayTable is returned when a holiday table cannot be decoded.
var ErrMalformedHolidayTable = errors.New("malformed holiday table")

// HolidayCalendar answers whether a day is a public holiday.
type HolidayCalendar interface {
	IsHoliday(d domain.Day) bool
}

// NoHolidays is a calendar without any holidays.
type NoHolidays struct{}

func (NoHolidays) IsHoliday(domain.Day) bool { return false }

type holidayTable struct {
	Country string         `yaml:"country"`
	Curated []int          `yaml:"curated_years"`
	Fixed   []holidayEntry `yaml:"fixed"`
	Lunar   []holidayEntry `yaml:"lunar"`
	Dates   []holidayEntry `yaml:"dates"`
}

// holidayEntry is one table row. Before and After widen a holiday into a
// block of days. Substitute names the weekdays that earn a substitute day:
// "weekend" (Saturday or Sunday) or "sunday".
type holidayEntry struct {
	Date       string `yaml:"date"`
	Name       string `yaml:"name"`
	Before     int    `yaml:"before"`
	After      int    `yaml:"after"`
	Substitute string `yaml:"substitute"`
}

type monthDay struct {
	month time.Month
	day   int
}

type rule struct {
	date       monthDay
	name       string
	before     int
	after      int
	substitute string
}

// TableHolidays is a holiday calendar backed by a YAML table.
//
// Curated years are taken from the dates list as-is. For any other year the
// lunar holidays are converted from the lunar calendar and substitute days
// are derived from the rules; election and temporary holidays of such years
// are unknown, which is logged once per year.
type TableHolidays struct {
	country string
	curated map[int]bool
	fixed   []rule
	lunar   []rule
	dated   map[domain.Day]string
	logger  *slog.Logger

	mu     sync.Mutex
	byYear map[int]map[domain.Day]string
}

// LoadHolidayCalendar returns the calendar for country. When path is set the table
// is read from that file instead of the embedded tables. Countries without a table
// get NoHolidays.
func LoadHolidayCalendar(country, path string) (HolidayCalendar, error) {
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read holiday file: %w", err)
		}
		return ParseHolidayTable(raw)
	}

	country = strings.ToLower(strings.TrimSpace(country))
	if country == "" {
		return NoHolidays{}, nil
	}
	raw, err := holidayFS.ReadFile("holidays/" + country + ".yaml")
	if err != nil {
		return NoHolidays{}, nil
	}
	return ParseHolidayTable(raw)
}

// ParseHolidayTable decodes a YAML holiday table.
func ParseHolidayTable(raw []byte) (*TableHolidays, error) {
	var table holidayTable
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHolidayTable, err)
	}

	h := &TableHolidays{
		country: strings.ToUpper(table.Country),
		curated: make(map[int]bool, len(table.Curated)),
		dated:   make(map[domain.Day]string, len(table.Dates)),
		logger:  slog.Default(),
		byYear:  make(map[int]map[domain.Day]string),
	}
	for _, y := range table.Curated {
		h.curated[y] = true
	}

	var err error
	if h.fixed, err = parseRules(table.Fixed); err != nil {
		return nil, err
	}
	if h.lunar, err = parseRules(table.Lunar); err != nil {
		return nil, err
	}
	for _, entry := range table.Dates {
		d, err := domain.ParseDay(entry.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: date %q", ErrMalformedHolidayTable, entry.Date)
		}
		h.dated[d] = entry.Name
	}

	return h, nil
}

func parseRules(entries []holidayEntry) ([]rule, error) {
	rules := make([]rule, 0, len(entries))
	for _, entry := range entries {
		t, err := time.Parse("01-02", entry.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: month-day %q", ErrMalformedHolidayTable, entry.Date)
		}
		switch entry.Substitute {
		case "", "weekend", "sunday":
		default:
			return nil, fmt.Errorf("%w: substitute %q", ErrMalformedHolidayTable, entry.Substitute)
		}
		if entry.Before < 0 || entry.After < 0 {
			return nil, fmt.Errorf("%w: negative span for %q", ErrMalformedHolidayTable, entry.Name)
		}
		rules = append(rules, rule{
			date:       monthDay{month: t.Month(), day: t.Day()},
			name:       entry.Name,
			before:     entry.Before,
			after:      entry.After,
			substitute: entry.Substitute,
		})
	}
	return rules, nil
}

// WithLogger sets the logger used for coverage warnings.
func (h *TableHolidays) WithLogger(logger *slog.Logger) *TableHolidays {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// Curated reports whether year is listed day by day in the table.
func (h *TableHolidays) Curated(year int) bool {
	return h.curated[year]
}

// Country returns the upper-case country code of the table.
func (h *TableHolidays) Country() string {
	return h.country
}

// IsHoliday reports whether d is a holiday.
func (h *TableHolidays) IsHoliday(d domain.Day) bool {
	_, ok := h.yearSet(d.Year())[d]
	return ok
}

// HolidayName returns the holiday name for d, or "" when d is not a holiday.
func (h *TableHolidays) HolidayName(d domain.Day) string {
	return h.yearSet(d.Year())[d]
}

// Holidays returns every holiday of year in chronological order.
func (h *TableHolidays) Holidays(year int) []domain.Day {
	set := h.yearSet(year)
	days := make([]domain.Day, 0, len(set))
	for _, d := range domain.DayRange(domain.NewDay(year, time.January, 1), domain.NewDay(year, time.December, 31)) {
		if _, ok := set[d]; ok {
			days = append(days, d)
		}
	}
	return days
}

func (h *TableHolidays) yearSet(year int) map[domain.Day]string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.byYear[year]; ok {
		return set
	}

	var set map[domain.Day]string
	if h.curated[year] {
		set = h.curatedYear(year)
	} else {
		set = h.computedYear(year)
		if len(h.lunar) > 0 {
			h.logger.Warn("holidays computed from rules, elections and temporary holidays are missing",
				"country", h.country, "year", year)
		}
	}
	h.byYear[year] = set
	return set
}

func (h *TableHolidays) curatedYear(year int) map[domain.Day]string {
	set := make(map[domain.Day]string)
	for _, r := range h.fixed {
		if d, ok := r.solar(year); ok {
			set[d] = r.name
		}
	}
	for d, name := range h.dated {
		if d.Year() == year {
			set[d] = name
		}
	}
	return set
}

// block is the run of days one rule covers in a year.
type block struct {
	rule rule
	days []domain.Day
}

func (h *TableHolidays) computedYear(year int) map[domain.Day]string {
	var blocks []block
	for _, r := range h.fixed {
		if d, ok := r.solar(year); ok {
			blocks = append(blocks, r.block(d))
		}
	}
	for _, r := range h.lunar {
		l := calendar.NewLunarFromYmd(year, int(r.date.month), r.date.day)
		s := l.GetSolar()
		blocks = append(blocks, r.block(domain.NewDay(s.GetYear(), time.Month(s.GetMonth()), s.GetDay())))
	}
	sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].days[0].Before(blocks[j].days[0]) })

	set := make(map[domain.Day]string)
	taken := make(map[domain.Day]int)
	for d, name := range h.dated {
		if d.Year() == year {
			set[d] = name
			taken[d]++
		}
	}
	for _, b := range blocks {
		for _, d := range b.days {
			if _, ok := set[d]; !ok {
				set[d] = b.rule.name
			}
			taken[d]++
		}
	}

	// A holiday lost to a weekend or to another holiday is made up on the
	// next working day after its block. A day shared by two holidays earns
	// one substitute.
	compensated := make(map[domain.Day]bool)
	for _, b := range blocks {
		if b.rule.substitute == "" {
			continue
		}
		lost := false
		for _, d := range b.days {
			if compensated[d] {
				continue
			}
			if b.rule.losesOn(d.Weekday()) || taken[d] > 1 {
				compensated[d] = true
				lost = true
			}
		}
		if !lost {
			continue
		}
		sub := b.days[len(b.days)-1].AddDays(1)
		for {
			if _, busy := set[sub]; !busy && !IsWeekend(sub) {
				break
			}
			sub = sub.AddDays(1)
		}
		set[sub] = "Substitute holiday (" + b.rule.name + ")"
	}
	return set
}

// solar returns the rule's day in year. Feb 29 only exists in leap years;
// NewDay would roll it into March.
func (r rule) solar(year int) (domain.Day, bool) {
	d := domain.NewDay(year, r.date.month, r.date.day)
	return d, d.Month() == r.date.month
}

func (r rule) block(center domain.Day) block {
	days := make([]domain.Day, 0, r.before+r.after+1)
	for i := -r.before; i <= r.after; i++ {
		days = append(days, center.AddDays(i))
	}
	return block{rule: r, days: days}
}

func (r rule) losesOn(w time.Weekday) bool {
	switch r.substitute {
	case "weekend":
		return w == time.Saturday || w == time.Sunday
	case "sunday":
		return w == time.Sunday
	}
	return false
}
