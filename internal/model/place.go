package model

// Place is a named settlement from the Malawi places point layer.
type Place struct {
	FID       int64   `json:"fid"`
	Name      string  `json:"name"`
	Admin1    string  `json:"admin1"`
	Country   string  `json:"country"`
	CntryFIPS string  `json:"cntry_fips"`
	Type      int     `json:"type"`
	Class     int     `json:"class"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	ID        float64 `json:"id"`
}

// Road is an OSM highway feature. Each line is a sequence of [lon, lat] pairs.
type Road struct {
	OSMID   string         `json:"osm_id"`
	Highway string         `json:"highway"`
	Name    string         `json:"name,omitempty"`
	Surface string         `json:"surface,omitempty"`
	Lines   [][][2]float64 `json:"lines"`
}
