package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// defaultDateFormat — формат фильтра date без аргумента.
const defaultDateFormat = "N j, Y"

// apMonths — сокращения месяцев для кода N.
var apMonths = [...]string{
	"Jan.", "Feb.", "March", "April", "May", "June",
	"July", "Aug.", "Sept.", "Oct.", "Nov.", "Dec.",
}

// dateLayouts — форматы строковых дат, которые понимает фильтр.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// dateFormat реализует фильтр {{ x|date:"Y-m-d" }}.
//
// Формат задаётся буквенными кодами (Y, m, d, H, i, ...), а не
// Go layout. Значение приходит последним аргументом (из пайпа).
// Значение, которое не удалось привести к времени, даёт пустую строку.
func dateFormat(args ...any) (string, error) {
	if len(args) == 0 || len(args) > 2 {
		return "", fmt.Errorf("date: expected a format and a value, got %d argument(s)", len(args))
	}

	format := defaultDateFormat
	if len(args) == 2 {
		s, ok := args[0].(string)
		if !ok {
			return "", fmt.Errorf("date: format must be a string, got %T", args[0])
		}
		format = s
	}

	t, ok := toTime(args[len(args)-1])
	if !ok {
		return "", nil
	}
	return formatDate(t, format), nil
}

func toTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return *x, true
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// formatDate форматирует t по кодам формата. Неизвестные символы выводятся
// как есть, обратный слэш экранирует следующий символ.
func formatDate(t time.Time, format string) string {
	var b strings.Builder
	runes := []rune(format)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\\' {
			if i+1 < len(runes) {
				i++
				b.WriteRune(runes[i])
			}
			continue
		}
		if code, ok := dateCode(t, r); ok {
			b.WriteString(code)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func dateCode(t time.Time, r rune) (string, bool) {
	switch r {
	// день
	case 'd':
		return t.Format("02"), true
	case 'j':
		return strconv.Itoa(t.Day()), true
	case 'D':
		return t.Format("Mon"), true
	case 'l':
		return t.Format("Monday"), true
	case 'S':
		return ordinalSuffix(t.Day()), true
	case 'w':
		return strconv.Itoa(int(t.Weekday())), true
	case 'z':
		return strconv.Itoa(t.YearDay()), true

	// неделя, месяц, год
	case 'W':
		_, week := t.ISOWeek()
		return strconv.Itoa(week), true
	case 'm':
		return t.Format("01"), true
	case 'n':
		return strconv.Itoa(int(t.Month())), true
	case 'M':
		return t.Format("Jan"), true
	case 'b':
		return strings.ToLower(t.Format("Jan")), true
	case 'F':
		return t.Format("January"), true
	case 'N':
		return apMonths[t.Month()-1], true
	case 't':
		return strconv.Itoa(time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()), true
	case 'L':
		if time.Date(t.Year(), time.December, 31, 0, 0, 0, 0, time.UTC).YearDay() == 366 {
			return "True", true
		}
		return "False", true
	case 'o':
		year, _ := t.ISOWeek()
		return strconv.Itoa(year), true
	case 'y':
		return t.Format("06"), true
	case 'Y':
		return t.Format("2006"), true

	// время
	case 'a':
		if t.Hour() < 12 {
			return "a.m.", true
		}
		return "p.m.", true
	case 'A':
		return t.Format("PM"), true
	case 'f':
		return shortTime(t), true
	case 'g':
		return t.Format("3"), true
	case 'G':
		return strconv.Itoa(t.Hour()), true
	case 'h':
		return t.Format("03"), true
	case 'H':
		return t.Format("15"), true
	case 'i':
		return t.Format("04"), true
	case 's':
		return t.Format("05"), true
	case 'u':
		return fmt.Sprintf("%06d", t.Nanosecond()/1000), true
	case 'P':
		switch {
		case t.Hour() == 0 && t.Minute() == 0:
			return "midnight", true
		case t.Hour() == 12 && t.Minute() == 0:
			return "noon", true
		}
		suffix, _ := dateCode(t, 'a')
		return shortTime(t) + " " + suffix, true

	// часовой пояс и полные форматы
	case 'e', 'T':
		return t.Format("MST"), true
	case 'O':
		return t.Format("-0700"), true
	case 'Z':
		_, offset := t.Zone()
		return strconv.Itoa(offset), true
	case 'c':
		return t.Format(time.RFC3339), true
	case 'r':
		return t.Format(time.RFC1123Z), true
	case 'U':
		return strconv.FormatInt(t.Unix(), 10), true
	}
	return "", false
}

// shortTime — "1" или "1:30" в 12-часовом формате.
func shortTime(t time.Time) string {
	if t.Minute() == 0 {
		return t.Format("3")
	}
	return t.Format("3:04")
}

func ordinalSuffix(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}
