package models

import "fmt"

// Day is one of the five teaching weekdays.
type Day string

const (
	Monday    Day = "MONDAY"
	Tuesday   Day = "TUESDAY"
	Wednesday Day = "WEDNESDAY"
	Thursday  Day = "THURSDAY"
	Friday    Day = "FRIDAY"
)

// Weekdays lists teaching days in week order.
var Weekdays = []Day{Monday, Tuesday, Wednesday, Thursday, Friday}

var dayIndex = map[Day]int{
	Monday:    0,
	Tuesday:   1,
	Wednesday: 2,
	Thursday:  3,
	Friday:    4,
}

// Index returns the zero-based week position of the day, or -1 when unknown.
func (d Day) Index() int {
	if idx, ok := dayIndex[d]; ok {
		return idx
	}
	return -1
}

// DayAt returns the weekday at the given zero-based index, wrapping modulo 5.
func DayAt(idx int) Day {
	idx %= len(Weekdays)
	if idx < 0 {
		idx += len(Weekdays)
	}
	return Weekdays[idx]
}

// PeriodsPerDay is the number of teaching periods in the fixed daily grid:
// four morning hours, a lunch break, then three afternoon hours.
const PeriodsPerDay = 7

var periodTimes = [PeriodsPerDay][2]string{
	{"09:00", "10:00"},
	{"10:00", "11:00"},
	{"11:00", "12:00"},
	{"12:00", "13:00"},
	{"14:00", "15:00"},
	{"15:00", "16:00"},
	{"16:00", "17:00"},
}

// TimeSlot is one (day, period) cell of the weekly grid.
type TimeSlot struct {
	ID     string `json:"id"`
	Day    Day    `json:"day"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Period int    `json:"period"`
}

// SlotID derives the canonical slot identifier for a day and 1-based period.
func SlotID(day Day, period int) string {
	return fmt.Sprintf("%s-%d", day, period)
}

// WeeklyGrid materialises the fixed 5x7 slot grid in day-then-period order.
func WeeklyGrid() []TimeSlot {
	slots := make([]TimeSlot, 0, len(Weekdays)*PeriodsPerDay)
	for _, day := range Weekdays {
		for p := 1; p <= PeriodsPerDay; p++ {
			slots = append(slots, TimeSlot{
				ID:     SlotID(day, p),
				Day:    day,
				Start:  periodTimes[p-1][0],
				End:    periodTimes[p-1][1],
				Period: p,
			})
		}
	}
	return slots
}
