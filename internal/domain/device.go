package domain

import "time"

// BatteryReport is what a telemetry source returns for GET /battery
type BatteryReport struct {
	Level     int       `json:"level"`
	Status    string    `json:"status,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// DeviceInfo describes the tracked device
type DeviceInfo struct {
	DeviceID        string    `json:"device_id"`
	SerialNumber    string    `json:"serial_number,omitempty"`
	Model           string    `json:"model"`
	FirmwareVersion string    `json:"firmware_version"`
	Status          string    `json:"status"`
	LastReport      time.Time `json:"last_report,omitempty"`
	Location        *Location `json:"location,omitempty"`
}

// Location is a reported GPS fix; Accuracy is in meters
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  int     `json:"accuracy,omitempty"`
}

// Address is a reverse-geocoded location
type Address struct {
	Road          string `json:"road,omitempty"`
	HouseNumber   string `json:"house_number,omitempty"`
	Neighbourhood string `json:"neighbourhood,omitempty"`
	Suburb        string `json:"suburb,omitempty"`
	City          string `json:"city,omitempty"`
	Town          string `json:"town,omitempty"`
	State         string `json:"state,omitempty"`
	Postcode      string `json:"postcode,omitempty"`
	Country       string `json:"country,omitempty"`

	// Formatted holds the display form, one line per component group
	Formatted string `json:"formatted"`
}
