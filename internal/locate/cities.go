package locate

import "github.com/skycastapp/skycast/internal/domain"

// knownCities is the built-in city table consulted before any network call.
// Coordinates are city centers, good to about a kilometer.
var knownCities = []domain.Location{
	{Name: "New York", Region: "NY", Lat: 40.7128, Lon: -74.0060},
	{Name: "Los Angeles", Region: "CA", Lat: 34.0522, Lon: -118.2437},
	{Name: "Chicago", Region: "IL", Lat: 41.8781, Lon: -87.6298},
	{Name: "Houston", Region: "TX", Lat: 29.7604, Lon: -95.3698},
	{Name: "Phoenix", Region: "AZ", Lat: 33.4484, Lon: -112.0740},
	{Name: "Philadelphia", Region: "PA", Lat: 39.9526, Lon: -75.1652},
	{Name: "San Antonio", Region: "TX", Lat: 29.4241, Lon: -98.4936},
	{Name: "San Diego", Region: "CA", Lat: 32.7157, Lon: -117.1611},
	{Name: "Dallas", Region: "TX", Lat: 32.7767, Lon: -96.7970},
	{Name: "Austin", Region: "TX", Lat: 30.2672, Lon: -97.7431},
	{Name: "Jacksonville", Region: "FL", Lat: 30.3322, Lon: -81.6557},
	{Name: "San Francisco", Region: "CA", Lat: 37.7749, Lon: -122.4194},
	{Name: "Columbus", Region: "OH", Lat: 39.9612, Lon: -82.9988},
	{Name: "Indianapolis", Region: "IN", Lat: 39.7684, Lon: -86.1581},
	{Name: "Seattle", Region: "WA", Lat: 47.6062, Lon: -122.3321},
	{Name: "Denver", Region: "CO", Lat: 39.7392, Lon: -104.9903},
	{Name: "Boston", Region: "MA", Lat: 42.3601, Lon: -71.0589},
	{Name: "Nashville", Region: "TN", Lat: 36.1627, Lon: -86.7816},
	{Name: "Oklahoma City", Region: "OK", Lat: 35.4676, Lon: -97.5164},
	{Name: "Portland", Region: "OR", Lat: 45.5152, Lon: -122.6784},
	{Name: "Las Vegas", Region: "NV", Lat: 36.1699, Lon: -115.1398},
	{Name: "Memphis", Region: "TN", Lat: 35.1495, Lon: -90.0490},
	{Name: "Detroit", Region: "MI", Lat: 42.3314, Lon: -83.0458},
	{Name: "Miami", Region: "FL", Lat: 25.7617, Lon: -80.1918},
	{Name: "Atlanta", Region: "GA", Lat: 33.7490, Lon: -84.3880},
	{Name: "New Orleans", Region: "LA", Lat: 29.9511, Lon: -90.0715},
	{Name: "Minneapolis", Region: "MN", Lat: 44.9778, Lon: -93.2650},
	{Name: "Kansas City", Region: "MO", Lat: 39.0997, Lon: -94.5786},
	{Name: "Salt Lake City", Region: "UT", Lat: 40.7608, Lon: -111.8910},
	{Name: "Charlotte", Region: "NC", Lat: 35.2271, Lon: -80.8431},
}
