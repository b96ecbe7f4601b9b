package calendar

import (
	"fmt"
	"time"
)

// Language selects the caption tables.
type Language string

const (
	LangRU Language = "ru"
	LangEN Language = "en"
)

var monthNames = map[Language][12]string{
	LangRU: {
		"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
		"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
	},
	LangEN: {
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
}

// Indexed by time.Weekday, Sunday first.
var weekdayNames = map[Language][7]string{
	LangRU: {"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"},
	LangEN: {"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"},
}

func tablesFor(lang Language) Language {
	if _, ok := monthNames[lang]; ok {
		return lang
	}
	return LangRU
}

// MonthName returns the name of m in lang. Unknown languages fall back to Russian.
func MonthName(m time.Month, lang Language) string {
	return monthNames[tablesFor(lang)][int(m)-1]
}

// MonthLabel renders the "MonthName Year" caption for the displayed month.
func MonthLabel(month Date, lang Language) string {
	return fmt.Sprintf("%s %d", MonthName(month.Month, lang), month.Year)
}

// WeekdayHeaders returns the seven column captions starting at weekStart.
func WeekdayHeaders(weekStart time.Weekday, lang Language) [7]string {
	names := weekdayNames[tablesFor(lang)]
	var out [7]string
	for i := range out {
		out[i] = names[(int(weekStart)+i)%7]
	}
	return out
}
