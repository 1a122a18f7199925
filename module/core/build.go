package core

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	goredis "github.com/redis/go-redis/v9"

	handler "github.com/zeph-kun/saas-btp/module/core/internal/handler/http"
	"github.com/zeph-kun/saas-btp/module/core/internal/handler/subscriber"
	"github.com/zeph-kun/saas-btp/module/core/internal/handler/ws"
	"github.com/zeph-kun/saas-btp/module/core/internal/metrics"
	rediscache "github.com/zeph-kun/saas-btp/module/core/internal/repository/cache/redis"
	"github.com/zeph-kun/saas-btp/module/core/internal/repository/database/postgres"
	"github.com/zeph-kun/saas-btp/module/core/internal/repository/publisher"
	"github.com/zeph-kun/saas-btp/module/core/internal/repository/publisher/rabbitmq"
	"github.com/zeph-kun/saas-btp/module/core/service"
)

type Module struct {
	DetectionSvc *service.DetectionService
	AlertSvc     *service.AlertService
	TrackingSvc  *service.TrackingService
	Collector    *metrics.Collector

	hub            *ws.Hub
	vehicleHandler *handler.VehicleHandler
	alertHandler   *handler.AlertHandler
	subscriber     *subscriber.LocationSubscriber
}

func Build(db *sql.DB, amqpConn *amqp.Connection, mqttClient mqtt.Client, redisClient *goredis.Client) (*Module, error) {
	collector, err := metrics.NewCollector(nil)
	if err != nil {
		return nil, fmt.Errorf("metrics collector: %w", err)
	}

	vehicleRepo := postgres.NewVehicleRepo(db)
	zoneRepo := postgres.NewZoneRepo(db)
	alertRepo := postgres.NewAlertRepo(db)
	positionRepo := postgres.NewPositionRepo(db)
	stateCache := rediscache.NewStateCache(redisClient)

	amqpPub, err := rabbitmq.NewEventPublisher(amqpConn)
	if err != nil {
		return nil, fmt.Errorf("event publisher: %w", err)
	}

	hub := ws.NewHub(collector)
	events := publisher.Fanout{amqpPub, hub}

	locks := service.NewVehicleLocks()
	alertSvc := service.NewAlertService(alertRepo, collector, locks)
	detectionSvc := service.NewDetectionService(vehicleRepo, zoneRepo, alertSvc, events, collector, locks)
	trackingSvc := service.NewTrackingService(positionRepo, vehicleRepo, stateCache, events)

	vh := handler.NewVehicleHandler(trackingSvc)
	ah := handler.NewAlertHandler(alertSvc)
	sub := subscriber.NewLocationSubscriber(mqttClient, detectionSvc, trackingSvc)

	return &Module{
		DetectionSvc:   detectionSvc,
		AlertSvc:       alertSvc,
		TrackingSvc:    trackingSvc,
		Collector:      collector,
		hub:            hub,
		vehicleHandler: vh,
		alertHandler:   ah,
		subscriber:     sub,
	}, nil
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	m.vehicleHandler.Register(r)
	m.alertHandler.Register(r)
	m.hub.Register(r)
	r.GET("/metrics", gin.WrapH(m.Collector.Handler()))
}

func (m *Module) StartSubscribers() error {
	return m.subscriber.Start()
}

// StartBroadcaster launches the periodic per-tenant position sweep.
func (m *Module) StartBroadcaster(ctx context.Context, interval time.Duration) {
	go m.TrackingSvc.Run(ctx, interval)
}
