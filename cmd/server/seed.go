package main

import (
	"time"

	"bizfilings/internal/filing"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// sampleBusinesses covers each lifecycle state so every endpoint has
// something to show without a database.
func sampleBusinesses() []filing.EntitySnapshot {
	return []filing.EntitySnapshot{
		{
			Identifier:   "BC0871227",
			LegalName:    "0871227 B.C. LTD.",
			LegalType:    filing.LegalTypeBC,
			State:        filing.StateActive,
			GoodStanding: true,
			FoundingDate: day(2022, time.January, 1),
		},
		{
			Identifier:           "BC0871301",
			LegalName:            "NORTHERN LIGHTS BENEFIT CORP.",
			LegalType:            filing.LegalTypeBEN,
			State:                filing.StateActive,
			GoodStanding:         true,
			HasCourtOrders:       true,
			FoundingDate:         day(2015, time.June, 15),
			LastAnnualReportDate: day(2024, time.June, 15),
			PrevAgmDate:          day(2024, time.May, 30),
		},
		{
			Identifier:   "BC0900012",
			LegalName:    "FROZEN ASSETS LTD.",
			LegalType:    filing.LegalTypeULC,
			State:        filing.StateActive,
			GoodStanding: false,
			AdminFreeze:  true,
			FoundingDate: day(2010, time.March, 3),
		},
		{
			Identifier:      "BC0460007",
			LegalName:       "HARBOUR VIEW HOLDINGS LTD.",
			LegalType:       filing.LegalTypeBC,
			State:           filing.StateHistorical,
			FoundingDate:    day(1998, time.September, 9),
			DissolutionDate: day(2019, time.February, 28),
		},
		{
			Identifier:               "BC0777014",
			LegalName:                "SECOND CHANCE VENTURES INC.",
			LegalType:                filing.LegalTypeBC,
			State:                    filing.StateActive,
			GoodStanding:             true,
			FoundingDate:             day(2005, time.April, 1),
			InLimitedRestoration:     true,
			RestorationDate:          day(2025, time.March, 1),
			LimitedRestorationExpiry: day(2026, time.December, 1),
		},
		{
			Identifier:   "FM1000123",
			LegalName:    "KOOTENAY CATERING",
			LegalType:    filing.LegalTypeSP,
			State:        filing.StateActive,
			GoodStanding: true,
			FoundingDate: day(2019, time.July, 1),
		},
		{
			Identifier:   "CP0001234",
			LegalName:    "VALLEY GROWERS CO-OPERATIVE",
			LegalType:    filing.LegalTypeCP,
			State:        filing.StateLiquidation,
			GoodStanding: true,
			FoundingDate: day(1987, time.May, 20),
		},
	}
}
