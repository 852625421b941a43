// Package timeago renders timestamps as Japanese relative-time labels
// ("たった今", "5分前", "3日前", ...) for comment and activity displays.
package timeago

import (
	"strconv"
	"time"
)

// Format returns the Japanese relative-time label for t as seen from now.
// Future timestamps (clock skew) render as "たった今".
func Format(t, now time.Time) string {
	seconds := int64(now.Sub(t) / time.Second)
	if seconds < 60 {
		return "たった今"
	}

	minutes := seconds / 60
	if minutes < 60 {
		return strconv.FormatInt(minutes, 10) + "分前"
	}

	hours := minutes / 60
	if hours < 24 {
		return strconv.FormatInt(hours, 10) + "時間前"
	}

	days := hours / 24
	if days < 7 {
		return strconv.FormatInt(days, 10) + "日前"
	}
	if days < 30 {
		return strconv.FormatInt(days/7, 10) + "週間前"
	}

	months := days / 30
	if months < 12 {
		return strconv.FormatInt(months, 10) + "ヶ月前"
	}
	return strconv.FormatInt(months/12, 10) + "年前"
}
