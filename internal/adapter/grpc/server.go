package grpc

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/cashhealth-backend/internal/domain"
	"github.com/simaogato/cashhealth-backend/internal/usecase/dashboard"
)

// Server implements the CashHealthService gRPC server
type Server struct {
	DashboardService *dashboard.DashboardService
}

var _ CashHealthServiceServer = (*Server)(nil)

// NewServer creates a new gRPC server instance
func NewServer(dashboardService *dashboard.DashboardService) *Server {
	return &Server{DashboardService: dashboardService}
}

// ListPeriods handles the ListPeriods RPC
func (s *Server) ListPeriods(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	periods, err := s.DashboardService.ListPeriods(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	return respond(map[string]any{
		"source":  s.DashboardService.Store.Source(),
		"periods": encodePeriods(periods),
	})
}

// GetKPIs handles the GetKPIs RPC
func (s *Server) GetKPIs(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	q, err := parseQuery(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}
	q.EvaluatedAt = s.resolveNow(q)

	k, err := s.DashboardService.GetKPIs(ctx, q)
	if err != nil {
		return nil, mapError(err)
	}

	return respond(map[string]any{
		"evaluated_at": q.EvaluatedAt.Format(dateLayout),
		"kpis":         encodeKPIs(k),
	})
}

// GetMonthlySeries handles the GetMonthlySeries RPC
func (s *Server) GetMonthlySeries(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	q, err := parseQuery(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}

	series, err := s.DashboardService.GetMonthlySeries(ctx, q)
	if err != nil {
		return nil, mapError(err)
	}

	return respond(map[string]any{
		"series": encodeMonthly(series),
	})
}

// GetCategoryBreakdown handles the GetCategoryBreakdown RPC
func (s *Server) GetCategoryBreakdown(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	q, err := parseQuery(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}
	direction, err := parseDirection(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}

	categories, err := s.DashboardService.GetCategoryBreakdown(ctx, q, direction)
	if err != nil {
		return nil, mapError(err)
	}

	return respond(map[string]any{
		"direction":  string(direction),
		"categories": encodeCategories(categories),
	})
}

// GetProjection handles the GetProjection RPC
func (s *Server) GetProjection(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	q, err := parseQuery(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}
	sim, err := parseSimulation(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}

	proj, err := s.DashboardService.GetProjection(ctx, q, sim)
	if err != nil {
		return nil, mapError(err)
	}

	return respond(map[string]any{
		"projection": encodeProjection(proj),
	})
}

// GetPendingInflows handles the GetPendingInflows RPC
func (s *Server) GetPendingInflows(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	q, err := parseQuery(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}
	q.EvaluatedAt = s.resolveNow(q)

	pending, err := s.DashboardService.GetPendingInflows(ctx, q)
	if err != nil {
		return nil, mapError(err)
	}

	return respond(map[string]any{
		"evaluated_at": q.EvaluatedAt.Format(dateLayout),
		"transactions": encodeTransactions(pending, q.EvaluatedAt),
	})
}

// GetOverview handles the GetOverview RPC
func (s *Server) GetOverview(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	q, err := parseQuery(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}
	sim, err := parseSimulation(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}

	ov, err := s.DashboardService.GetOverview(ctx, q, sim)
	if err != nil {
		return nil, mapError(err)
	}

	return respond(map[string]any{
		"periods":            encodePeriods(ov.Periods),
		"evaluated_at":       ov.EvaluatedAt.Format(dateLayout),
		"kpis":               encodeKPIs(ov.KPIs),
		"series":             encodeMonthly(ov.Monthly),
		"inflow_categories":  encodeCategories(ov.InflowCategories),
		"outflow_categories": encodeCategories(ov.OutflowCategories),
		"projection":         encodeProjection(ov.Projection),
		"pending_inflows":    encodeTransactions(ov.PendingInflows, ov.EvaluatedAt),
	})
}

// resolveNow pins the evaluation instant so the response reports the one it used
func (s *Server) resolveNow(q dashboard.Query) time.Time {
	if !q.EvaluatedAt.IsZero() {
		return q.EvaluatedAt
	}
	return s.DashboardService.Now()
}

func respond(fields map[string]any) (*structpb.Struct, error) {
	resp, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return resp, nil
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var dsErr *domain.DataSourceError
	switch {
	case errors.Is(err, dashboard.ErrInvalidQuery):
		return status.Errorf(codes.InvalidArgument, "%s", err.Error())
	case errors.As(err, &dsErr):
		return status.Errorf(codes.FailedPrecondition, "%s", err.Error())
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s", err.Error())
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", err.Error())
}
