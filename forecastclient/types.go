package forecastclient

import "time"

// pricePoint holds the JSON encoding of one forecast hour.
type pricePoint struct {
	HourEnding time.Time `json:"hour_ending"`
	Price      float64   `json:"price"` // $/MWh
}

// awardPoint holds the JSON encoding of one hour of ancillary service awards.
type awardPoint struct {
	HourEnding   time.Time `json:"hour_ending"`
	RegulationMW float64   `json:"regulation_mw"`
	RRSMW        float64   `json:"rrs_mw"`
	ECRSMW       float64   `json:"ecrs_mw"`
}
