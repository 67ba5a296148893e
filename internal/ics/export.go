package ics

import (
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	appLog "relcal/internal/log"
	"relcal/internal/model"
)

const productID = "-//relcal//relative date ranges//EN"

// PropertyOffset carries the window's offset from UTC on each VEVENT.
const PropertyOffset ical.ComponentProperty = "X-RELCAL-OFFSET"

// Export renders windows as a VCALENDAR with one VEVENT each.
//
// iCalendar DTEND is exclusive and has second resolution, while windows are
// closed at millisecond resolution, so DTEND is End + 1ms rounded up to the
// next whole second. stamp is written as DTSTAMP.
func Export(windows []model.Window, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for _, w := range windows {
		ev := cal.AddEvent(uuid.NewString())
		ev.SetDtStampTime(stamp.UTC())
		ev.SetStartAt(w.Begin.UTC())
		ev.SetEndAt(exclusiveEnd(w.End))
		ev.SetSummary(w.Name)
		ev.SetDescription("local " + w.LocalBegin + " to " + w.LocalEnd)
		if w.Offset != "" {
			ev.SetProperty(PropertyOffset, w.Offset)
		}
	}

	appLog.Debug("ics export", "events", len(windows))
	return cal.Serialize()
}

func exclusiveEnd(end time.Time) time.Time {
	t := end.UTC().Add(time.Millisecond)
	if tr := t.Truncate(time.Second); !tr.Equal(t) {
		return tr.Add(time.Second)
	}
	return t
}
