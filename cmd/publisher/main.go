package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type locationMessage struct {
	VehicleID string  `json:"vehicle_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp int64   `json:"timestamp"`
}

// Demo zone: a 0.01°x0.01° square centered on Paris (48.85, 2.35), matching
// the seed data the server ships with.
const (
	zoneCenterLat = 48.85
	zoneCenterLon = 2.35
	zoneHalfSide  = 0.005
)

const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomVehicleID() string {
	letter := string(charset[rand.Intn(26)])
	digits := fmt.Sprintf("%04d", rand.Intn(10000))
	suffix := string([]byte{charset[rand.Intn(26)], charset[rand.Intn(26)], charset[rand.Intn(26)]})
	return letter + digits + suffix
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <interval_seconds>\n", os.Args[0])
		os.Exit(1)
	}

	intervalSec, err := strconv.Atoi(os.Args[1])
	if err != nil || intervalSec <= 0 {
		fmt.Fprintf(os.Stderr, "error: interval must be a positive integer\n")
		os.Exit(1)
	}

	broker := "tcp://localhost:1883"
	if v := os.Getenv("MQTT_BROKER"); v != "" {
		broker = v
	}

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("fleet-mock-publisher")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalf("mqtt connect: %v", token.Error())
	}
	defer client.Disconnect(250)

	vehiclePool := make([]string, 5)
	for i := range vehiclePool {
		vehiclePool[i] = randomVehicleID()
	}

	log.Printf("connected to %s, publishing every %ds...", broker, intervalSec)
	log.Printf("vehicle pool: %v", vehiclePool)

	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		vid := vehiclePool[rand.Intn(len(vehiclePool))]

		var lat, lon float64
		switch {
		case rand.Float64() < 0.7:
			// inside the demo zone, with ~50m of drift
			lat = zoneCenterLat + (rand.Float64()-0.5)*zoneHalfSide
			lon = zoneCenterLon + (rand.Float64()-0.5)*zoneHalfSide
		default:
			// well outside: should trigger a zone exit for assigned vehicles
			lat = zoneCenterLat + 0.05 + rand.Float64()*0.05
			lon = zoneCenterLon + 0.05 + rand.Float64()*0.05
		}

		msg := locationMessage{
			VehicleID: vid,
			Latitude:  lat,
			Longitude: lon,
			Timestamp: time.Now().Unix(),
		}

		payload, _ := json.Marshal(msg)
		topic := fmt.Sprintf("/fleet/vehicle/%s/location", vid)

		token := client.Publish(topic, 1, false, payload)
		token.Wait()

		log.Printf("published to %s: %s", topic, payload)
	}
}
