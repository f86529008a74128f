package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrValidation = errors.New("validation failed")

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Filter is the reporting window used by the back-office dashboard.
type Filter string

const (
	FilterDaily   Filter = "diario"
	FilterWeekly  Filter = "semanal"
	FilterMonthly Filter = "mensual"
	FilterYearly  Filter = "anual"
)

func ParseFilter(raw string, fallback Filter) (Filter, error) {
	if raw == "" {
		return fallback, nil
	}
	switch f := Filter(raw); f {
	case FilterDaily, FilterWeekly, FilterMonthly, FilterYearly:
		return f, nil
	}
	return "", Invalid("filter", "must be one of diario, semanal, mensual, anual")
}

// Window returns the half-open UTC interval [from, to) containing now.
// Weeks start on Monday.
func (f Filter) Window(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch f {
	case FilterWeekly:
		offset := (int(day.Weekday()) + 6) % 7
		from := day.AddDate(0, 0, -offset)
		return from, from.AddDate(0, 0, 7)
	case FilterMonthly:
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 1, 0)
	case FilterYearly:
		from := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(1, 0, 0)
	}
	return day, day.AddDate(0, 0, 1)
}

const (
	PeriodToday = "today"
	PeriodAll   = "all"
)

func ParsePeriod(raw string) (string, error) {
	switch raw {
	case "", PeriodToday:
		return PeriodToday, nil
	case PeriodAll:
		return PeriodAll, nil
	}
	return "", Invalid("period", "must be today or all")
}

var weekdayLabels = [...]string{"Dom", "Lun", "Mar", "Mié", "Jue", "Vie", "Sáb"}

var monthLabels = [...]string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}

// BucketLabel names the chart bucket a day falls into for weekly, monthly
// and yearly series.
func (f Filter) BucketLabel(day time.Time) string {
	switch f {
	case FilterWeekly:
		return weekdayLabels[day.Weekday()]
	case FilterYearly:
		return monthLabels[day.Month()-1]
	}
	return fmt.Sprintf("Día %d", day.Day())
}
