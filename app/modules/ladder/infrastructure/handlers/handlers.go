package ladderhandlers

import (
	"context"
	"log/slog"

	ladderservice "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/application"
	ladderexports "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/infrastructure/exports"
	"go.opentelemetry.io/otel/trace"
)

// LadderHandlers serves the ladder HTTP API.
type LadderHandlers struct {
	service ladderservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
	palette ladderexports.Palette
}

// NewLadderHandlers creates a new LadderHandlers instance.
func NewLadderHandlers(
	service ladderservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) *LadderHandlers {
	return &LadderHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
		palette: ladderexports.DefaultPalette,
	}
}

func (h *LadderHandlers) start(ctx context.Context, name string) (context.Context, trace.Span) {
	return h.tracer.Start(ctx, "LadderHandlers."+name)
}
