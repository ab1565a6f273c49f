package calendar

import "time"

var arabicMonths = [12]string{
	"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو",
	"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
}

// MonthName returns the month's name in the given locale ("ar" or "en").
// Unknown locales use English; invalid months yield "".
func MonthName(m time.Month, locale string) string {
	if m < time.January || m > time.December {
		return ""
	}
	if locale == "ar" {
		return arabicMonths[m-1]
	}
	return m.String()
}
