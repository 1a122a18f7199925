package subscriber

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/zeph-kun/saas-btp/module/core/domain"
)

const topicPattern = "/fleet/vehicle/+/location"

type detectionService interface {
	ProcessPosition(ctx context.Context, vehicleID string, pos domain.Position) (*domain.Vehicle, []domain.Violation, error)
}

type trackingService interface {
	RecordTrack(ctx context.Context, v *domain.Vehicle) error
}

type locationMessage struct {
	VehicleID string  `json:"vehicle_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp int64   `json:"timestamp"`
}

type LocationSubscriber struct {
	client       mqtt.Client
	detectionSvc detectionService
	trackingSvc  trackingService
}

func NewLocationSubscriber(client mqtt.Client, detectionSvc detectionService, trackingSvc trackingService) *LocationSubscriber {
	return &LocationSubscriber{
		client:       client,
		detectionSvc: detectionSvc,
		trackingSvc:  trackingSvc,
	}
}

func (s *LocationSubscriber) Start() error {
	token := s.client.Subscribe(topicPattern, 1, s.handleMessage)
	token.Wait()
	return token.Error()
}

func (s *LocationSubscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var raw locationMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		log.Printf("invalid location message: %v", err)
		return
	}

	if err := validateLocationMessage(&raw); err != nil {
		log.Printf("validation error: %v", err)
		return
	}

	ctx := context.Background()
	pos := domain.Position{Lat: raw.Latitude, Lon: raw.Longitude}

	vehicle, violations, err := s.detectionSvc.ProcessPosition(ctx, raw.VehicleID, pos)
	if err != nil {
		log.Printf("process position for %s: %v", raw.VehicleID, err)
		return
	}
	if len(violations) > 0 {
		log.Printf("vehicle %s: %d violation(s) detected", raw.VehicleID, len(violations))
	}

	if err := s.trackingSvc.RecordTrack(ctx, vehicle); err != nil {
		log.Printf("record track for %s: %v", raw.VehicleID, err)
	}
}

func validateLocationMessage(msg *locationMessage) error {
	if msg.VehicleID == "" {
		return fmt.Errorf("vehicle_id: required")
	}
	if msg.Latitude < -90 || msg.Latitude > 90 {
		return fmt.Errorf("latitude: must be between -90 and 90")
	}
	if msg.Longitude < -180 || msg.Longitude > 180 {
		return fmt.Errorf("longitude: must be between -180 and 180")
	}
	if msg.Timestamp <= 0 {
		return fmt.Errorf("timestamp: must be positive")
	}
	return nil
}
