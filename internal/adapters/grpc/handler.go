package grpc

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/TuliEscobar/prueba-trakii/internal/ports"
	"github.com/TuliEscobar/prueba-trakii/pkg/dashboardpb"
)

// Dashboard is the subset of ports.Controller served over gRPC
type Dashboard interface {
	Snapshot() ports.Snapshot
	Refresh(ctx context.Context) ports.Snapshot
	StartAutoUpdate() bool
	StopAutoUpdate() bool
	AutoUpdating() bool
}

// DashboardHandler implements the gRPC Dashboard service
type DashboardHandler struct {
	dashboardpb.UnimplementedDashboardServer
	dash Dashboard
}

// NewDashboardHandler creates a new gRPC handler
func NewDashboardHandler(dash Dashboard) *DashboardHandler {
	return &DashboardHandler{dash: dash}
}

// GetSnapshot returns the current dashboard state without generating a reading
func (h *DashboardHandler) GetSnapshot(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	log.Debug().Msg("GetSnapshot called")
	return toStruct(h.dash.Snapshot())
}

// Refresh runs one update cycle, like the dashboard's refresh button
func (h *DashboardHandler) Refresh(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	log.Info().Msg("Refresh called")
	snap := h.dash.Refresh(ctx)
	if err := ctx.Err(); err != nil {
		return nil, status.FromContextError(err).Err()
	}
	return toStruct(snap)
}

// SetAutoUpdate starts or stops the timer and returns the resulting state
func (h *DashboardHandler) SetAutoUpdate(ctx context.Context, req *wrapperspb.BoolValue) (*wrapperspb.BoolValue, error) {
	log.Info().Bool("enabled", req.GetValue()).Msg("SetAutoUpdate called")

	if req.GetValue() {
		h.dash.StartAutoUpdate()
	} else {
		h.dash.StopAutoUpdate()
	}
	return wrapperspb.Bool(h.dash.AutoUpdating()), nil
}

// toStruct converts a snapshot to its protobuf form via JSON
func toStruct(snap ports.Snapshot) (*structpb.Struct, error) {
	raw, err := json.Marshal(snap)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode snapshot")
		return nil, status.Error(codes.Internal, "failed to encode snapshot")
	}

	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		log.Error().Err(err).Msg("failed to convert snapshot")
		return nil, status.Error(codes.Internal, "failed to convert snapshot")
	}
	return out, nil
}
