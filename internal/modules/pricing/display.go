package pricing

import "recharge/internal/types"

// DisplayBreakdown is a breakdown rounded to cents for presentation.
type DisplayBreakdown struct {
	BasePrice         types.Money `json:"base_price"`
	DistanceSurcharge types.Money `json:"distance_surcharge"`
	VehicleSurcharge  types.Money `json:"vehicle_surcharge"`
	NightSurcharge    types.Money `json:"night_surcharge"`
	PeakSurcharge     types.Money `json:"peak_surcharge"`
	TotalPrice        types.Money `json:"total_price"`
}

// FormatBreakdown rounds each component independently. The rounded parts may
// differ from the rounded total by a cent; the total is rounded from the exact sum.
func FormatBreakdown(b PriceBreakdown) DisplayBreakdown {
	return DisplayBreakdown{
		BasePrice:         types.USD(b.BasePrice),
		DistanceSurcharge: types.USD(b.DistanceSurcharge),
		VehicleSurcharge:  types.USD(b.VehicleSurcharge),
		NightSurcharge:    types.USD(b.NightSurcharge),
		PeakSurcharge:     types.USD(b.PeakSurcharge),
		TotalPrice:        types.USD(b.TotalPrice),
	}
}

// Labels renders each component as a currency string, e.g. "$25.00".
func (d DisplayBreakdown) Labels() map[string]string {
	return map[string]string{
		"base_price":         d.BasePrice.String(),
		"distance_surcharge": d.DistanceSurcharge.String(),
		"vehicle_surcharge":  d.VehicleSurcharge.String(),
		"night_surcharge":    d.NightSurcharge.String(),
		"peak_surcharge":     d.PeakSurcharge.String(),
		"total_price":        d.TotalPrice.String(),
	}
}
