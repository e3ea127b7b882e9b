package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"restaurant-pos/apperror"
	"restaurant-pos/models"
	"restaurant-pos/store"
)

const earthRadiusMeters = 6371e3

// Coordinate accepts a JSON number or a numeric string ("12.97")
type Coordinate struct {
	Value float64
	Set   bool
}

func (c *Coordinate) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		return nil
	}
	raw = strings.TrimSpace(strings.Trim(raw, `"`))
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("coordinate %s is not a number", string(b))
	}
	c.Value, c.Set = v, true
	return nil
}

type LocationRequest struct {
	Latitude  Coordinate `json:"latitude"`
	Longitude Coordinate `json:"longitude"`
}

type UpdatePrintSettingsRequest struct {
	RestaurantName *string            `json:"restaurantName"`
	BillFooter     *string            `json:"billFooter"`
	KOTNotes       *string            `json:"kotNotes"`
	PrintWidth     *models.PrintWidth `json:"printWidth"`
}

// LocationCheck is the result of a geofence check
type LocationCheck struct {
	Configured     bool    `json:"configured"`
	Verified       bool    `json:"verified"`
	DistanceMeters float64 `json:"distanceMeters"`
	RadiusMeters   float64 `json:"radiusMeters"`
}

type SettingsService struct {
	repo         store.Repository
	log          *zap.Logger
	radiusMeters float64
}

func NewSettingsService(repo store.Repository, radiusMeters float64, log *zap.Logger) *SettingsService {
	return &SettingsService{repo: repo, log: log, radiusMeters: radiusMeters}
}

func (s *SettingsService) Location(ctx context.Context) (models.Location, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return models.Location{}, err
	}
	return settings.Location, nil
}

func (s *SettingsService) SetLocation(ctx context.Context, req LocationRequest) (models.Location, error) {
	if !req.Latitude.Set || !req.Longitude.Set {
		return models.Location{}, apperror.Validation("Latitude and Longitude are required")
	}
	if err := validateCoordinates(req.Latitude.Value, req.Longitude.Value); err != nil {
		return models.Location{}, err
	}

	lat, lng := req.Latitude.Value, req.Longitude.Value
	var location models.Location
	err := s.repo.Transaction(ctx, func(tx store.Repository) error {
		settings, err := tx.GetSettings(ctx)
		if err != nil {
			return err
		}
		settings.Location = models.Location{Latitude: &lat, Longitude: &lng}
		location = settings.Location
		return tx.SaveSettings(ctx, settings)
	})
	if err != nil {
		return models.Location{}, err
	}
	s.log.Info("restaurant location updated", zap.Float64("latitude", lat), zap.Float64("longitude", lng))
	return location, nil
}

func validateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return apperror.Validation("Latitude must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return apperror.Validation("Longitude must be between -180 and 180")
	}
	return nil
}

// VerifyLocation checks whether a guest is within the geofence. With no
// restaurant location configured every guest passes.
func (s *SettingsService) VerifyLocation(ctx context.Context, req LocationRequest) (*LocationCheck, error) {
	if !req.Latitude.Set || !req.Longitude.Set {
		return nil, apperror.Validation("Latitude and Longitude are required")
	}
	if err := validateCoordinates(req.Latitude.Value, req.Longitude.Value); err != nil {
		return nil, err
	}
	location, err := s.Location(ctx)
	if err != nil {
		return nil, err
	}

	check := &LocationCheck{RadiusMeters: s.radiusMeters}
	if !location.Configured() {
		check.Verified = true
		return check, nil
	}
	check.Configured = true
	distance := DistanceMeters(req.Latitude.Value, req.Longitude.Value, *location.Latitude, *location.Longitude)
	check.DistanceMeters = math.Round(distance*10) / 10
	check.Verified = distance < s.radiusMeters
	return check, nil
}

// DistanceMeters is the haversine great-circle distance between two points
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

func (s *SettingsService) PrintSettings(ctx context.Context) (models.PrintSettings, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return models.PrintSettings{}, err
	}
	return settings.Print, nil
}

func (s *SettingsService) UpdatePrintSettings(ctx context.Context, req UpdatePrintSettingsRequest) (models.PrintSettings, error) {
	if req.PrintWidth != nil && !req.PrintWidth.Valid() {
		return models.PrintSettings{}, apperror.Validation("Print width must be 58mm, 80mm or 100%%")
	}
	if req.RestaurantName != nil && strings.TrimSpace(*req.RestaurantName) == "" {
		return models.PrintSettings{}, apperror.Validation("Restaurant name cannot be empty")
	}

	var updated models.PrintSettings
	err := s.repo.Transaction(ctx, func(tx store.Repository) error {
		settings, err := tx.GetSettings(ctx)
		if err != nil {
			return err
		}
		if req.RestaurantName != nil {
			settings.Print.RestaurantName = strings.TrimSpace(*req.RestaurantName)
		}
		if req.BillFooter != nil {
			settings.Print.BillFooter = *req.BillFooter
		}
		if req.KOTNotes != nil {
			settings.Print.KOTNotes = *req.KOTNotes
		}
		if req.PrintWidth != nil {
			settings.Print.PrintWidth = *req.PrintWidth
		}
		updated = settings.Print
		return tx.SaveSettings(ctx, settings)
	})
	if err != nil {
		return models.PrintSettings{}, err
	}
	return updated, nil
}
