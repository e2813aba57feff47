// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

package recommend

import (
	"time"

	"github.com/venuescout/venuescout/internal/places"
)

// closingInfo is the resolved closing time for an open venue.
type closingInfo struct {
	// label is the wall-clock closing time in venue-local "15:04" form.
	label string

	// closeTS is the absolute closing instant.
	closeTS time.Time
}

// resolveClosing computes when an open venue closes, from its weekly opening
// periods and local timezone.
//
// The active period is the one containing the current local instant. If no
// period contains it but one opens within the next 7 days (the venue's
// current period may have already elapsed between the provider's open-now
// snapshot and our arithmetic), the nearest future period is used. If
// nothing parses, the result is (nil): closing time stays unknown — it is
// never fabricated as "closed".
func resolveClosing(periods []places.OpeningPeriod, now time.Time, loc *time.Location) *closingInfo {
	if len(periods) == 0 {
		return nil
	}

	localNow := now.In(loc)

	// Sunday 00:00 of the current local week anchors day-indexed periods.
	weekStart := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, loc).
		AddDate(0, 0, -int(localNow.Weekday()))

	var nearestFuture *closingInfo
	var nearestOpen time.Time

	for _, p := range periods {
		if p.Close == nil {
			// Always-open encoding: no closing instant exists.
			continue
		}
		openHH, openMM, ok := parseClock(p.Open.Time)
		if !ok {
			continue
		}
		closeHH, closeMM, ok := parseClock(p.Close.Time)
		if !ok {
			continue
		}

		// A period that started late yesterday can still contain "now", so
		// the previous week's instance matters at the week boundary.
		for _, weekOffset := range []int{-1, 0, 1} {
			openT := weekStart.AddDate(0, 0, p.Open.Day+7*weekOffset).
				Add(time.Duration(openHH)*time.Hour + time.Duration(openMM)*time.Minute)

			closeDayDelta := p.Close.Day - p.Open.Day
			if closeDayDelta < 0 {
				closeDayDelta += 7
			}
			closeT := weekStart.AddDate(0, 0, p.Open.Day+closeDayDelta+7*weekOffset).
				Add(time.Duration(closeHH)*time.Hour + time.Duration(closeMM)*time.Minute)
			if !closeT.After(openT) {
				// Same-day wrap past midnight (open 20:00, close 02:00).
				closeT = closeT.AddDate(0, 0, 1)
			}

			if !localNow.Before(openT) && localNow.Before(closeT) {
				return &closingInfo{
					label:   closeT.Format("15:04"),
					closeTS: closeT,
				}
			}

			if openT.After(localNow) && openT.Sub(localNow) <= 7*24*time.Hour {
				if nearestFuture == nil || openT.Before(nearestOpen) {
					nearestOpen = openT
					nearestFuture = &closingInfo{
						label:   closeT.Format("15:04"),
						closeTS: closeT,
					}
				}
			}
		}
	}

	return nearestFuture
}

// parseClock parses the provider's "HHMM" wall-clock format.
func parseClock(s string) (hh, mm int, ok bool) {
	if len(s) != 4 {
		return 0, 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, 0, false
		}
	}
	hh = int(s[0]-'0')*10 + int(s[1]-'0')
	mm = int(s[2]-'0')*10 + int(s[3]-'0')
	if hh > 23 || mm > 59 {
		return 0, 0, false
	}
	return hh, mm, true
}
