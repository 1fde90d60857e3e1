package analytics

import (
	"strconv"

	"leadboard/internal/models"
)

var dayNames = [...]string{"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado"}

// Advanced computes the operational rates of the whole snapshot. Attendance
// and purchase are inferred from every state that implies them.
func Advanced(leads []models.Lead) models.AdvancedMetrics {
	var adv models.AdvancedMetrics
	var scheduleDays, scheduleSamples int
	var attended, noShow, purchased int
	var salesTotal float64
	var salesCount int
	districts, days, hours := newTally(), newTally(), newTally()

	for _, lead := range leads {
		if lead.CreatedAt != nil && lead.AppointmentAt != nil {
			scheduleDays += wholeDays(*lead.CreatedAt, *lead.AppointmentAt)
			scheduleSamples++
		}

		switch {
		case lead.InAny(attendedStates...):
			attended++
		case lead.State == models.StateNoShow:
			noShow++
		}
		if lead.InAny(purchasedStates...) {
			purchased++
		}

		if amount := lead.Amount(); amount > 0 {
			salesTotal += amount
			salesCount++
		}

		if lead.State == models.StatePurchased {
			districts.add(lead.District())
		}

		if lead.CreatedAt != nil {
			days.add(dayNames[lead.CreatedAt.Weekday()])
			hours.add(strconv.Itoa(lead.CreatedAt.Hour()))
		}
	}

	if scheduleSamples > 0 {
		avg := float64(scheduleDays) / float64(scheduleSamples)
		adv.AvgTimeToSchedule = &avg
	}
	adv.NoShowRate = safeDivide(float64(noShow), float64(attended+noShow))
	adv.CloseRate = safeDivide(float64(purchased), float64(attended))
	adv.AvgTicket = safeDivide(salesTotal, float64(salesCount))

	if district, ok := districts.top(); ok {
		adv.BestDistrict = &district
	}
	if day, ok := days.top(); ok {
		adv.BestDay = &day
	}
	if hour, ok := hours.top(); ok {
		h, _ := strconv.Atoi(hour)
		adv.PeakHour = &h
	}
	return adv
}
