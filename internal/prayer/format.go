package prayer

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Format constants for display modes.
const (
	FormatTimeRemaining      = "time-remaining"
	FormatNextPrayerTime     = "next-prayer-time"
	FormatNameAndTime        = "name-and-time"
	FormatNameAndRemaining   = "name-and-remaining"
	FormatShortNameAndTime   = "short-name-and-time"
	FormatShortNameAndRemain = "short-name-and-remaining"
	FormatFull               = "full"
)

// FormatData is the data passed to custom Go templates.
type FormatData struct {
	Name      string // Full prayer name, e.g. "Asr"
	ShortName string // Abbreviated name, e.g. "A"
	Date      string // YYYY-MM-DD of the prayer
	Time      string // Formatted prayer time, e.g. "15:02" or "3:02 PM"
	Remaining string // Time remaining, e.g. "2h 15m"
	Hours     int
	Minutes   int
}

var formatters = map[string]func(FormatData) string{
	FormatTimeRemaining:      func(d FormatData) string { return d.Remaining },
	FormatNextPrayerTime:     func(d FormatData) string { return d.Time },
	FormatNameAndTime:        func(d FormatData) string { return d.Name + " " + d.Time },
	FormatNameAndRemaining:   func(d FormatData) string { return d.Name + " " + d.Remaining },
	FormatShortNameAndTime:   func(d FormatData) string { return d.ShortName + " " + d.Time },
	FormatShortNameAndRemain: func(d FormatData) string { return d.ShortName + " " + d.Remaining },
	FormatFull:               func(d FormatData) string { return fmt.Sprintf("%s %s (%s)", d.Name, d.Time, d.Remaining) },
}

// FormatMoment formats a resolved moment relative to now, placing it in now's location.
func FormatMoment(m Moment, now time.Time, mode, timeFormat string) (string, error) {
	p, err := m.At(now.Location())
	if err != nil {
		return "", err
	}
	return FormatOutput(p, now, mode, timeFormat), nil
}

// FormatOutput formats a prayer for display according to the chosen format mode.
// timeFormat should be "15:04" for 24h or "3:04 PM" for 12h.
//
// A mode containing "{{" is a Go template over FormatData, e.g.
// "{{.Name}} in {{.Remaining}}" -> "Asr in 2h 15m". Unknown modes fall back
// to name-and-time.
func FormatOutput(p Prayer, now time.Time, mode string, timeFormat string) string {
	d := TimeRemaining(p, now)
	data := FormatData{
		Name:      p.Name,
		ShortName: ShortNames[p.Name],
		Date:      ISODate(p.Time),
		Time:      p.Time.Format(timeFormat),
		Remaining: FormatRemaining(d),
		Hours:     int(d.Hours()),
		Minutes:   int(d.Minutes()) % 60,
	}

	if strings.Contains(mode, "{{") {
		return formatCustom(mode, data)
	}
	if f, ok := formatters[mode]; ok {
		return f(data)
	}
	return formatters[FormatNameAndTime](data)
}

func formatCustom(tmpl string, data FormatData) string {
	t, err := template.New("custom").Parse(tmpl)
	if err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	return buf.String()
}
