package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zeph-kun/saas-btp/module/core/domain"
)

type trackingService interface {
	GetVehicle(ctx context.Context, id string) (*domain.Vehicle, error)
	ListVehicles(ctx context.Context) ([]domain.Vehicle, error)
	GetHistory(ctx context.Context, query *domain.HistoryQuery) ([]domain.TrackPoint, error)
}

type vehicleResponse struct {
	ID         string   `json:"id"`
	TenantID   string   `json:"tenant_id"`
	Name       string   `json:"name"`
	Status     string   `json:"status"`
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	LastSeenAt int64    `json:"last_seen_at"`
	ZoneIDs    []string `json:"zone_ids"`
}

type trackPointResponse struct {
	VehicleID string  `json:"vehicle_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp int64   `json:"timestamp"`
}

type VehicleHandler struct {
	trackingSvc trackingService
}

func NewVehicleHandler(trackingSvc trackingService) *VehicleHandler {
	return &VehicleHandler{trackingSvc: trackingSvc}
}

func (h *VehicleHandler) Register(r *gin.RouterGroup) {
	r.GET("/vehicles", h.ListVehicles)
	r.GET("/vehicles/:vehicle_id", h.GetVehicle)
	r.GET("/vehicles/:vehicle_id/history", h.GetHistory)
}

func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	vehicles, err := h.trackingSvc.ListVehicles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch vehicles"})
		return
	}

	results := make([]vehicleResponse, len(vehicles))
	for i := range vehicles {
		results[i] = toVehicleResponse(&vehicles[i])
	}
	c.JSON(http.StatusOK, results)
}

func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	vehicleID := c.Param("vehicle_id")

	v, err := h.trackingSvc.GetVehicle(c.Request.Context(), vehicleID)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch vehicle"})
		return
	}

	c.JSON(http.StatusOK, toVehicleResponse(v))
}

func (h *VehicleHandler) GetHistory(c *gin.Context) {
	vehicleID := c.Param("vehicle_id")

	start, err := strconv.ParseInt(c.Query("start"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start parameter"})
		return
	}

	end, err := strconv.ParseInt(c.Query("end"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end parameter"})
		return
	}

	query := &domain.HistoryQuery{
		VehicleID: vehicleID,
		Start:     time.Unix(start, 0),
		End:       time.Unix(end, 0),
	}

	points, err := h.trackingSvc.GetHistory(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history"})
		return
	}

	results := make([]trackPointResponse, len(points))
	for i, p := range points {
		results[i] = trackPointResponse{
			VehicleID: p.VehicleID,
			Latitude:  p.Position.Lat,
			Longitude: p.Position.Lon,
			Timestamp: p.Timestamp.Unix(),
		}
	}
	c.JSON(http.StatusOK, results)
}

func toVehicleResponse(v *domain.Vehicle) vehicleResponse {
	return vehicleResponse{
		ID:         v.ID,
		TenantID:   v.TenantID,
		Name:       v.Name,
		Status:     string(v.Status),
		Latitude:   v.Position.Lat,
		Longitude:  v.Position.Lon,
		LastSeenAt: v.LastSeenAt.Unix(),
		ZoneIDs:    v.ZoneIDs,
	}
}
