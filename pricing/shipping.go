package pricing

import "math"

const (
	// BaseShippingFee covers deliveries up to baseDistanceKm.
	BaseShippingFee = 15000.0
	baseDistanceKm  = 3.0
	perKmFee        = 5000.0

	pickupMinutes = 15.0
	minutesPerKm  = 5.0

	earthRadiusKm = 6371.0
)

// EstimateShipping computes the delivery fee for a distance in kilometres.
// The fee is rounded to the nearest 1,000 VND.
func EstimateShipping(distanceKm float64) float64 {
	if distanceKm <= baseDistanceKm {
		return BaseShippingFee
	}
	fee := BaseShippingFee + (distanceKm-baseDistanceKm)*perKmFee
	return math.Round(fee/1000) * 1000
}

// EstimatedDeliveryMinutes is pickup time plus travel time, rounded to the
// nearest minute.
func EstimatedDeliveryMinutes(distanceKm float64) int {
	return int(math.Round(pickupMinutes + distanceKm*minutesPerKm))
}

// Distance returns the haversine distance in kilometres between two
// coordinates.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
